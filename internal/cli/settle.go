package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/service"
)

type balancesCmd struct {
	group string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show each member's net balance" }
func (*balancesCmd) Usage() string    { return "fingrow balances -group <name|id>\n" }

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	balances, err := svc.Balances(ctx, group.ID)
	if err != nil {
		return fail(err)
	}
	for _, mb := range balances {
		status := "settled"
		switch {
		case mb.Balance.IsPositive():
			status = "is owed " + money(mb.Balance)
		case mb.Balance.IsNegative():
			status = "owes " + money(mb.Balance.Neg())
		}
		fmt.Printf("%-20s %s\n", mb.Member.Name, status)
	}
	return subcommands.ExitSuccess
}

type settleCmd struct {
	group   string
	confirm bool
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "propose (and with -confirm, record) settling transfers" }
func (*settleCmd) Usage() string {
	return `fingrow settle -group <name|id> [-confirm]

  Shows the minimal set of transfers that zeroes every balance. With
  -confirm, each transfer is recorded as a settlement.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.BoolVar(&c.confirm, "confirm", false, "Record every proposed transfer as a settlement.")
}

func (c *settleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.confirm {
		recorded, err := svc.SettleUp(ctx, group.ID)
		if err != nil {
			return fail(err)
		}
		if len(recorded) == 0 {
			fmt.Println("Already settled")
			return subcommands.ExitSuccess
		}
		for _, s := range recorded {
			fmt.Printf("Recorded: %s pays %s to %s\n",
				group.Member(s.FromID).Name, money(s.Amount), group.Member(s.ToID).Name)
		}
		return subcommands.ExitSuccess
	}

	plan, err := svc.Plan(ctx, group.ID)
	if err != nil {
		return fail(err)
	}
	if len(plan) == 0 {
		fmt.Println("Already settled")
		return subcommands.ExitSuccess
	}
	for _, t := range plan {
		from := group.Member(t.FromID)
		to := group.Member(t.ToID)
		fmt.Printf("%s pays %s to %s\n", from.Name, money(t.Amount), to.Name)
	}
	return subcommands.ExitSuccess
}

type settlementRecordCmd struct {
	group  string
	from   string
	to     string
	amount string
	note   string
}

func (*settlementRecordCmd) Name() string     { return "settlement-record" }
func (*settlementRecordCmd) Synopsis() string { return "record a single payment between two members" }
func (*settlementRecordCmd) Usage() string {
	return "fingrow settlement-record -group <name|id> -from <member> -to <member> -amount <n> [-note <text>]\n"
}

func (c *settlementRecordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.from, "from", "", "Member who paid.")
	f.StringVar(&c.to, "to", "", "Member who received.")
	f.StringVar(&c.amount, "amount", "", "Payment amount.")
	f.StringVar(&c.note, "note", "", "Optional note.")
}

func (c *settlementRecordCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	from, err := resolveMember(group, c.from)
	if err != nil {
		return fail(err)
	}
	to, err := resolveMember(group, c.to)
	if err != nil {
		return fail(err)
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q", c.amount))
	}

	settlement, err := svc.AddSettlement(ctx, group.ID, service.SettlementInput{
		FromID: from.ID,
		ToID:   to.ID,
		Amount: amount,
		Note:   c.note,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded: %s pays %s to %s\n", from.Name, money(settlement.Amount), to.Name)
	return subcommands.ExitSuccess
}
