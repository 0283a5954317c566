package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/models"
	"github.com/junman99/fingrow-sub000/internal/service"
)

type billAddCmd struct {
	group         string
	title         string
	amount        string
	final         bool
	tax           string
	taxPct        bool
	discount      string
	discountPct   bool
	participants  string
	split         string
	weights       string
	exacts        string
	propTax       bool
	paidBy        string
	payers        string
	contributions string
}

func (*billAddCmd) Name() string     { return "bill-add" }
func (*billAddCmd) Synopsis() string { return "add a bill and split it among participants" }
func (*billAddCmd) Usage() string {
	return `fingrow bill-add -group <name|id> -title <t> -amount <n> -paid-by <member>
    [-final] [-tax <n> [-tax-pct]] [-discount <n> [-discount-pct]]
    [-participants <a,b,c>] [-split equal|shares|exact]
    [-weights a=2,b=1] [-exacts a=10.00,b=5.50] [-prop-tax]
    [-payers <a,b>] [-contributions a=20.00,b=13.00]

  Splits default to equal among all active members. With -final the amount
  is the receipt total and -exacts are base shares; the difference becomes
  an implicit proportional tax or discount.
`
}

func (c *billAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.title, "title", "", "Bill title.")
	f.StringVar(&c.amount, "amount", "", "Subtotal, or receipt total with -final.")
	f.BoolVar(&c.final, "final", false, "Treat -amount as the final receipt total (exact split only).")
	f.StringVar(&c.tax, "tax", "0", "Tax value.")
	f.BoolVar(&c.taxPct, "tax-pct", false, "Tax is a percentage of the subtotal.")
	f.StringVar(&c.discount, "discount", "0", "Discount value.")
	f.BoolVar(&c.discountPct, "discount-pct", false, "Discount is a percentage of the subtotal.")
	f.StringVar(&c.participants, "participants", "", "Comma-separated participants (default: all active members).")
	f.StringVar(&c.split, "split", "equal", "Split mode: equal, shares or exact.")
	f.StringVar(&c.weights, "weights", "", "Per-member weights for -split shares (a=2,b=1).")
	f.StringVar(&c.exacts, "exacts", "", "Per-member amounts for -split exact (a=10.00,b=5.50).")
	f.BoolVar(&c.propTax, "prop-tax", false, "Exact amounts are pre-tax; spread tax/discount proportionally.")
	f.StringVar(&c.paidBy, "paid-by", "", "Single payer.")
	f.StringVar(&c.payers, "payers", "", "Comma-separated payers splitting the payment evenly.")
	f.StringVar(&c.contributions, "contributions", "", "Explicit payer amounts (a=20.00,b=13.00).")
}

func (c *billAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	in, err := c.billInput(group)
	if err != nil {
		return fail(err)
	}
	bill, err := svc.AddBill(ctx, group.ID, *in)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Added bill %q: subtotal %s, final %s\n", bill.Title, money(bill.Amount), money(bill.FinalAmount))
	for _, split := range bill.Splits {
		member := group.Member(split.MemberID)
		fmt.Printf("  %-20s owes %s\n", member.Name, money(split.Share))
	}
	return subcommands.ExitSuccess
}

// billInput translates the flags into a service BillInput, resolving every
// member reference by name or ID.
func (c *billAddCmd) billInput(group *models.Group) (*service.BillInput, error) {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", c.amount)
	}
	tax, err := decimal.NewFromString(c.tax)
	if err != nil {
		return nil, fmt.Errorf("invalid tax %q", c.tax)
	}
	discount, err := decimal.NewFromString(c.discount)
	if err != nil {
		return nil, fmt.Errorf("invalid discount %q", c.discount)
	}

	var participantIDs []string
	if c.participants == "" {
		for _, m := range group.Members {
			if !m.Archived {
				participantIDs = append(participantIDs, m.ID)
			}
		}
	} else {
		for _, name := range splitList(c.participants) {
			member, err := resolveMember(group, name)
			if err != nil {
				return nil, err
			}
			participantIDs = append(participantIDs, member.ID)
		}
	}

	var split models.SplitMode
	switch c.split {
	case "equal":
		split = models.EqualSplit()
	case "shares":
		pairs, err := parsePairs(group, c.weights)
		if err != nil {
			return nil, err
		}
		weights := make(map[string]int64, len(pairs))
		for id, value := range pairs {
			w, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid weight %q", value)
			}
			weights[id] = w
		}
		split = models.SharesSplit(weights)
	case "exact":
		pairs, err := parsePairs(group, c.exacts)
		if err != nil {
			return nil, err
		}
		values := make(map[string]decimal.Decimal, len(pairs))
		for id, value := range pairs {
			d, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("invalid exact amount %q", value)
			}
			values[id] = d
		}
		split = models.ExactSplit(values, c.propTax || c.final)
	default:
		return nil, fmt.Errorf("unknown split mode %q", c.split)
	}

	in := &service.BillInput{
		Title:             c.title,
		Amount:            amount,
		AmountIsFinal:     c.final,
		Tax:               tax,
		TaxIsPercent:      c.taxPct,
		Discount:          discount,
		DiscountIsPercent: c.discountPct,
		ParticipantIDs:    participantIDs,
		Split:             split,
	}

	switch {
	case c.contributions != "":
		in.PayerMode = service.PayCustom
		pairs, err := parsePairs(group, c.contributions)
		if err != nil {
			return nil, err
		}
		for id, value := range pairs {
			d, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("invalid contribution %q", value)
			}
			in.Contributions = append(in.Contributions, models.Contribution{MemberID: id, Amount: d})
		}
	case c.payers != "":
		in.PayerMode = service.PayEven
		for _, name := range splitList(c.payers) {
			member, err := resolveMember(group, name)
			if err != nil {
				return nil, err
			}
			in.Payers = append(in.Payers, member.ID)
		}
	default:
		in.PayerMode = service.PaySingle
		if c.paidBy != "" {
			member, err := resolveMember(group, c.paidBy)
			if err != nil {
				return nil, err
			}
			in.PaidBy = member.ID
		}
	}
	return in, nil
}

type billsCmd struct {
	group string
}

func (*billsCmd) Name() string     { return "bills" }
func (*billsCmd) Synopsis() string { return "list a group's bills" }
func (*billsCmd) Usage() string    { return "fingrow bills -group <name|id>\n" }

func (c *billsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
}

func (c *billsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	for _, b := range group.Bills {
		fmt.Printf("%s  %-24s  final %s, %d participants\n",
			b.ID, b.Title, money(b.FinalAmount), len(b.Participants))
	}
	return subcommands.ExitSuccess
}

type billRmCmd struct {
	group string
	bill  string
}

func (*billRmCmd) Name() string     { return "bill-rm" }
func (*billRmCmd) Synopsis() string { return "delete a bill" }
func (*billRmCmd) Usage() string    { return "fingrow bill-rm -group <name|id> -bill <id>\n" }

func (c *billRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.bill, "bill", "", "Bill ID.")
}

func (c *billRmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := svc.RemoveBill(ctx, group.ID, c.bill); err != nil {
		return fail(err)
	}
	fmt.Println("Bill removed")
	return subcommands.ExitSuccess
}

type markPaidCmd struct {
	group  string
	bill   string
	member string
	unpaid bool
}

func (*markPaidCmd) Name() string { return "mark-paid" }
func (*markPaidCmd) Synopsis() string {
	return "toggle a split's paid reminder flag (does not affect balances)"
}
func (*markPaidCmd) Usage() string {
	return "fingrow mark-paid -group <name|id> -bill <id> -member <name|id> [-unpaid]\n"
}

func (c *markPaidCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group name or ID.")
	f.StringVar(&c.bill, "bill", "", "Bill ID.")
	f.StringVar(&c.member, "member", "", "Member name or ID.")
	f.BoolVar(&c.unpaid, "unpaid", false, "Clear the flag instead of setting it.")
}

func (c *markPaidCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := svc.MarkSplitPaid(ctx, group.ID, c.bill, member.ID, !c.unpaid); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
