package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/junman99/fingrow-sub000/internal/config"
	"github.com/junman99/fingrow-sub000/internal/service"
)

type groupCreateCmd struct {
	name    string
	members string
	me      string
	mirror  bool
}

func (*groupCreateCmd) Name() string     { return "group-create" }
func (*groupCreateCmd) Synopsis() string { return "create a new expense group" }
func (*groupCreateCmd) Usage() string {
	return `fingrow group-create -name <name> -members <a,b,c> [-me <member>] [-mirror]

  Creates a group with the given members. -me marks which member is you,
  enabling personal-ledger mirroring when -mirror is set.
`
}

func (c *groupCreateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Group name.")
	f.StringVar(&c.members, "members", "", "Comma-separated member names.")
	f.StringVar(&c.me, "me", "", "Which member is the local user.")
	f.BoolVar(&c.mirror, "mirror", false, "Mirror your bills and settlements into the spending ledger.")
}

func (c *groupCreateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closeFn()

	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	group, err := svc.CreateGroup(ctx, service.GroupInput{
		Name:           c.name,
		MemberNames:    splitList(c.members),
		LocalMember:    c.me,
		MirrorSpending: c.mirror || cfg.MirrorSpending,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Created group %q (%s) with %d members\n", group.Name, group.ID, len(group.Members))
	return subcommands.ExitSuccess
}

type groupsCmd struct{}

func (*groupsCmd) Name() string             { return "groups" }
func (*groupsCmd) Synopsis() string         { return "list all groups" }
func (*groupsCmd) Usage() string            { return "fingrow groups\n" }
func (*groupsCmd) SetFlags(*flag.FlagSet)   {}

func (*groupsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closeFn()

	groups, err := svc.ListGroups(ctx)
	if err != nil {
		return fail(err)
	}
	for _, g := range groups {
		fmt.Printf("%s  %-20s  %d members, %d bills, %d settlements\n",
			g.ID, g.Name, len(g.Members), len(g.Bills), len(g.Settlements))
	}
	return subcommands.ExitSuccess
}

type groupRmCmd struct {
	group string
}

func (*groupRmCmd) Name() string     { return "group-rm" }
func (*groupRmCmd) Synopsis() string { return "delete a group and its entire history" }
func (*groupRmCmd) Usage() string {
	return "fingrow group-rm -group <name|id>\n"
}

func (c *groupRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
}

func (c *groupRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fail(err)
	}
	defer closeFn()

	groups, err := svc.ListGroups(ctx)
	if err != nil {
		return fail(err)
	}
	group, err := findGroup(groups, c.group)
	if err != nil {
		return fail(err)
	}
	if err := svc.DeleteGroup(ctx, group.ID); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted group %q\n", group.Name)
	return subcommands.ExitSuccess
}
