package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type memberAddCmd struct {
	group   string
	name    string
	contact string
}

func (*memberAddCmd) Name() string     { return "member-add" }
func (*memberAddCmd) Synopsis() string { return "add a member to a group" }
func (*memberAddCmd) Usage() string {
	return "fingrow member-add -group <name|id> -name <name> [-contact <email|phone>]\n"
}

func (c *memberAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.name, "name", "", "Member name.")
	f.StringVar(&c.contact, "contact", "", "Optional contact.")
}

func (c *memberAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	member, err := svc.AddMember(ctx, group.ID, c.name, c.contact)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Added %q (%s) to group %q\n", member.Name, member.ID, group.Name)
	return subcommands.ExitSuccess
}

type memberArchiveCmd struct {
	group  string
	member string
}

func (*memberArchiveCmd) Name() string { return "member-archive" }
func (*memberArchiveCmd) Synopsis() string {
	return "hide a member from future bills, keeping history"
}
func (*memberArchiveCmd) Usage() string {
	return "fingrow member-archive -group <name|id> -member <name|id>\n"
}

func (c *memberArchiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.member, "member", "", "Member name or ID.")
}

func (c *memberArchiveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	member, err := resolveMember(group, c.member)
	if err != nil {
		return fail(err)
	}
	if err := svc.ArchiveMember(ctx, group.ID, member.ID); err != nil {
		return fail(err)
	}
	fmt.Printf("Archived %q\n", member.Name)
	return subcommands.ExitSuccess
}

type memberRmCmd struct {
	group  string
	member string
}

func (*memberRmCmd) Name() string { return "member-rm" }
func (*memberRmCmd) Synopsis() string {
	return "delete a member (only possible without bill or settlement history)"
}
func (*memberRmCmd) Usage() string {
	return `fingrow member-rm -group <name|id> -member <name|id>

  Fails if the member appears in any bill or settlement; archive instead.
`
}

func (c *memberRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.member, "member", "", "Member name or ID.")
}

func (c *memberRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	member, err := resolveMember(group, c.member)
	if err != nil {
		return fail(err)
	}
	if err := svc.DeleteMember(ctx, group.ID, member.ID); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted %q\n", member.Name)
	return subcommands.ExitSuccess
}
