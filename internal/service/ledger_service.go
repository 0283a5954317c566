// Package service implements the group ledger store: the orchestration
// layer that validates mutations, runs the calculator engines, and persists
// each group as one atomic record.
//
// Every mutation reads the current snapshot, computes a new one in memory
// and writes it back as a single logical unit. On a persistence failure the
// error surfaces and nothing is applied, so the caller may retry the same
// write. The service holds no locks itself; a multi-writer deployment must
// serialize mutations per group.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/apperrors"
	"github.com/junman99/fingrow-sub000/internal/calculator"
	"github.com/junman99/fingrow-sub000/internal/models"
	"github.com/junman99/fingrow-sub000/internal/storage"
)

// PayerMode selects how a bill's contributions are derived.
type PayerMode string

const (
	// PaySingle means one member paid the whole final amount.
	PaySingle PayerMode = "single"
	// PayEven means the listed payers covered the final amount evenly.
	PayEven PayerMode = "even"
	// PayCustom means the caller supplies contributions directly.
	PayCustom PayerMode = "custom"
)

// GroupInput is the input for CreateGroup.
type GroupInput struct {
	Name        string   `validate:"required"`
	MemberNames []string `validate:"required,min=1,dive,required"`

	// LocalMember optionally names which member is the operating user.
	LocalMember string

	// MirrorSpending opts the group into personal-ledger mirroring.
	MirrorSpending bool
}

// BillInput is the input for AddBill and EditBill.
type BillInput struct {
	Title             string          `validate:"required"`
	Amount            decimal.Decimal
	AmountIsFinal     bool
	Tax               decimal.Decimal
	TaxIsPercent      bool
	Discount          decimal.Decimal
	DiscountIsPercent bool
	ParticipantIDs    []string `validate:"required,min=1,dive,required"`
	Split             models.SplitMode

	PayerMode PayerMode `validate:"required,oneof=single even custom"`
	// PaidBy is the payer for PaySingle.
	PaidBy string
	// Payers are the payers for PayEven.
	Payers []string
	// Contributions are the explicit payer amounts for PayCustom.
	Contributions []models.Contribution
}

// SettlementInput is the input for AddSettlement.
type SettlementInput struct {
	FromID string `validate:"required"`
	ToID   string `validate:"required"`
	Amount decimal.Decimal
	BillID string
	Note   string
}

// MemberBalance pairs a member with their signed net position.
type MemberBalance struct {
	Member  models.Member
	Balance decimal.Decimal
}

// LedgerService owns the persisted group collection.
type LedgerService struct {
	store    storage.Store
	ledger   PersonalLedger
	validate *validator.Validate
}

// NewLedgerService creates a LedgerService over the given store. A nil
// personal ledger disables mirroring.
func NewLedgerService(store storage.Store, ledger PersonalLedger) *LedgerService {
	if ledger == nil {
		ledger = NopLedger()
	}
	return &LedgerService{
		store:    store,
		ledger:   ledger,
		validate: validator.New(),
	}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// CreateGroup creates a group with the given members. Member IDs are
// generated here; the local member binding is explicit, never inferred by
// name matching later.
func (s *LedgerService) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	group := &models.Group{
		Name:           in.Name,
		MirrorSpending: in.MirrorSpending,
	}
	for _, name := range in.MemberNames {
		member := models.Member{ID: uuid.New().String(), Name: name}
		if in.LocalMember != "" && name == in.LocalMember && group.LocalMemberID == "" {
			group.LocalMemberID = member.ID
		}
		group.Members = append(group.Members, member)
	}
	if in.LocalMember != "" && group.LocalMemberID == "" {
		return nil, validationErr("local member %q is not in the member list", in.LocalMember)
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// DeleteGroup removes a group and its entire history.
func (s *LedgerService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// AddMember adds a new member to a group.
func (s *LedgerService) AddMember(ctx context.Context, groupID, name, contact string) (*models.Member, error) {
	if name == "" {
		return nil, validationErr("member name is required")
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	member := models.Member{ID: uuid.New().String(), Name: name, Contact: contact}
	group.Members = append(group.Members, member)

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Member added", "group_id", groupID, "member_id", member.ID)
	return &member, nil
}

// ArchiveMember hides a member from future bill participation without
// touching history. Always permitted for an existing member.
func (s *LedgerService) ArchiveMember(ctx context.Context, groupID, memberID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	member := group.Member(memberID)
	if member == nil {
		return fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
	}
	member.Archived = true

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("ArchiveMember failed", "group_id", groupID, "error", err)
		return err
	}
	slog.Info("Member archived", "group_id", groupID, "member_id", memberID)
	return nil
}

// DeleteMember removes a member permanently. It fails with
// apperrors.ErrMemberHasHistory if the member appears in any bill
// contribution or split, or in any settlement; deletion must never
// silently corrupt historical balances.
func (s *LedgerService) DeleteMember(ctx context.Context, groupID, memberID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.Member(memberID) == nil {
		return fmt.Errorf("member %s: %w", memberID, apperrors.ErrNotFound)
	}
	if group.MemberHasHistory(memberID) {
		slog.Error("DeleteMember rejected", "group_id", groupID, "member_id", memberID)
		return fmt.Errorf("member %s: %w", memberID, apperrors.ErrMemberHasHistory)
	}

	members := group.Members[:0]
	for _, m := range group.Members {
		if m.ID != memberID {
			members = append(members, m)
		}
	}
	group.Members = members
	if group.LocalMemberID == memberID {
		group.LocalMemberID = ""
	}

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("DeleteMember failed", "group_id", groupID, "error", err)
		return err
	}
	slog.Info("Member deleted", "group_id", groupID, "member_id", memberID)
	return nil
}

// AddBill allocates and persists a new bill. No partial bill is ever
// written: every validation and allocation failure surfaces before the
// group record is touched.
func (s *LedgerService) AddBill(ctx context.Context, groupID string, in BillInput) (*models.Bill, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	bill, err := s.buildBill(group, in)
	if err != nil {
		slog.Error("AddBill rejected", "group_id", groupID, "error", err)
		return nil, err
	}
	bill.ID = uuid.New().String()
	bill.CreatedAt = time.Now().Unix()
	group.Bills = append(group.Bills, *bill)

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("AddBill failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Bill added",
		"group_id", groupID,
		"bill_id", bill.ID,
		"final_amount", bill.FinalAmount,
		"participants_count", len(bill.Participants),
	)

	s.mirrorBill(ctx, group, bill)
	return bill, nil
}

// EditBill re-runs the full allocation pipeline for an existing bill,
// preserving its identity and creation time.
func (s *LedgerService) EditBill(ctx context.Context, groupID, billID string, in BillInput) (*models.Bill, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	existing := group.Bill(billID)
	if existing == nil {
		return nil, fmt.Errorf("bill %s: %w", billID, apperrors.ErrNotFound)
	}

	bill, err := s.buildBill(group, in)
	if err != nil {
		slog.Error("EditBill rejected", "group_id", groupID, "bill_id", billID, "error", err)
		return nil, err
	}
	bill.ID = existing.ID
	bill.CreatedAt = existing.CreatedAt
	*existing = *bill

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("EditBill failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Bill edited", "group_id", groupID, "bill_id", billID)
	return bill, nil
}

// RemoveBill deletes a bill from the group's history.
func (s *LedgerService) RemoveBill(ctx context.Context, groupID, billID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.Bill(billID) == nil {
		return fmt.Errorf("bill %s: %w", billID, apperrors.ErrNotFound)
	}

	bills := group.Bills[:0]
	for _, b := range group.Bills {
		if b.ID != billID {
			bills = append(bills, b)
		}
	}
	group.Bills = bills

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("RemoveBill failed", "group_id", groupID, "error", err)
		return err
	}
	slog.Info("Bill removed", "group_id", groupID, "bill_id", billID)
	return nil
}

// MarkSplitPaid toggles one split's reminder flag. Balance accounting is
// contribution/split-based and ignores this flag entirely.
func (s *LedgerService) MarkSplitPaid(ctx context.Context, groupID, billID, memberID string, settled bool) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	bill := group.Bill(billID)
	if bill == nil {
		return fmt.Errorf("bill %s: %w", billID, apperrors.ErrNotFound)
	}
	for i := range bill.Splits {
		if bill.Splits[i].MemberID == memberID {
			bill.Splits[i].Settled = settled
			if err := s.store.SaveGroup(ctx, group); err != nil {
				slog.Error("MarkSplitPaid failed", "group_id", groupID, "error", err)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("split for member %s on bill %s: %w", memberID, billID, apperrors.ErrNotFound)
}

// AddSettlement records a transfer between two members.
func (s *LedgerService) AddSettlement(ctx context.Context, groupID string, in SettlementInput) (*models.Settlement, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	settlement, err := s.buildSettlement(group, in)
	if err != nil {
		slog.Error("AddSettlement rejected", "group_id", groupID, "error", err)
		return nil, err
	}
	group.Settlements = append(group.Settlements, *settlement)

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("AddSettlement failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Settlement recorded",
		"group_id", groupID,
		"settlement_id", settlement.ID,
		"amount", settlement.Amount,
	)

	s.mirrorSettlement(ctx, group, settlement)
	return settlement, nil
}

// SettleUp computes the current settlement plan and records one settlement
// per edge, as if the user confirmed the whole plan. A nil result with a
// nil error means the group was already settled.
func (s *LedgerService) SettleUp(ctx context.Context, groupID string) ([]models.Settlement, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	plan := calculator.Plan(calculator.Balances(group.Bills, group.Settlements))
	if len(plan) == 0 {
		return nil, nil
	}

	now := time.Now().Unix()
	recorded := make([]models.Settlement, 0, len(plan))
	for _, edge := range plan {
		recorded = append(recorded, models.Settlement{
			ID:        uuid.New().String(),
			FromID:    edge.FromID,
			ToID:      edge.ToID,
			Amount:    edge.Amount,
			Note:      "settle up",
			CreatedAt: now,
		})
	}
	group.Settlements = append(group.Settlements, recorded...)

	if err := s.store.SaveGroup(ctx, group); err != nil {
		slog.Error("SettleUp failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Settled up", "group_id", groupID, "settlements_count", len(recorded))

	for i := range recorded {
		s.mirrorSettlement(ctx, group, &recorded[i])
	}
	return recorded, nil
}

// Balances returns every member's signed net position, zero-filled for
// members without history.
func (s *LedgerService) Balances(ctx context.Context, groupID string) ([]MemberBalance, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := calculator.Balances(group.Bills, group.Settlements)
	result := make([]MemberBalance, 0, len(group.Members))
	for _, m := range group.Members {
		result = append(result, MemberBalance{Member: m, Balance: balances[m.ID]})
	}
	return result, nil
}

// Plan returns the proposed transfers that would settle the group. An empty
// plan means the group is already settled.
func (s *LedgerService) Plan(ctx context.Context, groupID string) ([]calculator.Transfer, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.Plan(calculator.Balances(group.Bills, group.Settlements)), nil
}

// buildBill validates a bill input against the group, runs the allocation
// engine and derives contributions. It does not mutate the group.
func (s *LedgerService) buildBill(group *models.Group, in BillInput) (*models.Bill, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	for _, id := range in.ParticipantIDs {
		member := group.Member(id)
		if member == nil {
			return nil, validationErr("participant %s is not a group member", id)
		}
		if member.Archived {
			return nil, validationErr("participant %s is archived", id)
		}
	}

	alloc, err := calculator.Allocate(calculator.BillSpec{
		Amount:            in.Amount,
		AmountIsFinal:     in.AmountIsFinal,
		Tax:               in.Tax,
		TaxIsPercent:      in.TaxIsPercent,
		Discount:          in.Discount,
		DiscountIsPercent: in.DiscountIsPercent,
		Participants:      in.ParticipantIDs,
		Split:             in.Split,
	})
	if err != nil {
		return nil, err
	}

	contributions, err := s.contributionsFor(group, in, alloc.FinalAmount)
	if err != nil {
		return nil, err
	}

	splits := make([]models.Split, len(alloc.FinalShares))
	for i, share := range alloc.FinalShares {
		splits[i] = models.Split{MemberID: share.MemberID, Share: share.Amount}
	}

	bill := &models.Bill{
		GroupID:           group.ID,
		Title:             in.Title,
		Amount:            alloc.Subtotal,
		Tax:               in.Tax,
		TaxIsPercent:      in.TaxIsPercent,
		Discount:          in.Discount,
		DiscountIsPercent: in.DiscountIsPercent,
		FinalAmount:       alloc.FinalAmount,
		Participants:      in.ParticipantIDs,
		Split:             in.Split,
		Contributions:     contributions,
		Splits:            splits,
	}
	if in.AmountIsFinal {
		// The receipt total was entered; the subtotal was normalized to
		// the sum of the base shares and the inferred tax/discount absorb
		// the remainder.
		bill.Tax = alloc.Tax
		bill.TaxIsPercent = false
		bill.Discount = alloc.Discount
		bill.DiscountIsPercent = false
	}
	return bill, nil
}

// contributionsFor derives the payer contributions for a bill; their sum
// always equals the final amount exactly.
func (s *LedgerService) contributionsFor(group *models.Group, in BillInput, finalAmount decimal.Decimal) ([]models.Contribution, error) {
	switch in.PayerMode {
	case PaySingle:
		if in.PaidBy == "" {
			return nil, validationErr("no payer selected")
		}
		if group.Member(in.PaidBy) == nil {
			return nil, validationErr("payer %s is not a group member", in.PaidBy)
		}
		return []models.Contribution{{MemberID: in.PaidBy, Amount: finalAmount}}, nil

	case PayEven:
		if len(in.Payers) == 0 {
			return nil, validationErr("no payer selected")
		}
		seen := make(map[string]bool, len(in.Payers))
		for _, id := range in.Payers {
			if group.Member(id) == nil {
				return nil, validationErr("payer %s is not a group member", id)
			}
			if seen[id] {
				return nil, validationErr("duplicate payer %q", id)
			}
			seen[id] = true
		}
		n := int64(len(in.Payers))
		per := finalAmount.Div(decimal.NewFromInt(n)).Truncate(2)
		contributions := make([]models.Contribution, len(in.Payers))
		rest := finalAmount
		for i, id := range in.Payers {
			if i < len(in.Payers)-1 {
				contributions[i] = models.Contribution{MemberID: id, Amount: per}
				rest = rest.Sub(per)
			} else {
				contributions[i] = models.Contribution{MemberID: id, Amount: rest}
			}
		}
		return contributions, nil

	case PayCustom:
		if len(in.Contributions) == 0 {
			return nil, validationErr("no payer selected")
		}
		sum := decimal.Zero
		contributions := make([]models.Contribution, len(in.Contributions))
		for i, c := range in.Contributions {
			if group.Member(c.MemberID) == nil {
				return nil, validationErr("payer %s is not a group member", c.MemberID)
			}
			if c.Amount.IsNegative() {
				return nil, validationErr("contribution for %s cannot be negative", c.MemberID)
			}
			contributions[i] = models.Contribution{MemberID: c.MemberID, Amount: c.Amount.Round(2)}
			sum = sum.Add(contributions[i].Amount)
		}
		if !sum.Equal(finalAmount) {
			return nil, validationErr("contributions sum to %s, expected final amount %s", sum, finalAmount)
		}
		return contributions, nil

	default:
		return nil, validationErr("unknown payer mode %q", in.PayerMode)
	}
}

// buildSettlement validates a settlement input against the group.
func (s *LedgerService) buildSettlement(group *models.Group, in SettlementInput) (*models.Settlement, error) {
	if in.FromID == in.ToID {
		return nil, validationErr("settlement must be between two different members")
	}
	if group.Member(in.FromID) == nil {
		return nil, validationErr("member %s is not a group member", in.FromID)
	}
	if group.Member(in.ToID) == nil {
		return nil, validationErr("member %s is not a group member", in.ToID)
	}
	if !in.Amount.IsPositive() {
		return nil, validationErr("settlement amount must be positive")
	}
	if in.BillID != "" && group.Bill(in.BillID) == nil {
		return nil, fmt.Errorf("bill %s: %w", in.BillID, apperrors.ErrNotFound)
	}
	return &models.Settlement{
		ID:        uuid.New().String(),
		FromID:    in.FromID,
		ToID:      in.ToID,
		Amount:    in.Amount.Round(2),
		BillID:    in.BillID,
		Note:      in.Note,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// mirrorBill mirrors the local member's share of a bill into the personal
// spending ledger. Best-effort: failures are logged and swallowed.
func (s *LedgerService) mirrorBill(ctx context.Context, group *models.Group, bill *models.Bill) {
	if !group.MirrorSpending || group.LocalMemberID == "" {
		return
	}
	for _, split := range bill.Splits {
		if split.MemberID != group.LocalMemberID || !split.Share.IsPositive() {
			continue
		}
		err := s.ledger.AddTransaction(ctx, Transaction{
			Type:     TransactionExpense,
			Amount:   split.Share,
			Category: "Shared bill",
			Date:     time.Unix(bill.CreatedAt, 0),
			Note:     bill.Title,
		})
		if err != nil {
			slog.Warn("Bill mirror failed", "group_id", group.ID, "bill_id", bill.ID, "error", err)
		}
		return
	}
}

// mirrorSettlement mirrors a settlement involving the local member as an
// expense (paying out) or income (receiving). Best-effort like mirrorBill.
func (s *LedgerService) mirrorSettlement(ctx context.Context, group *models.Group, settlement *models.Settlement) {
	if !group.MirrorSpending || group.LocalMemberID == "" {
		return
	}
	var txType TransactionType
	switch group.LocalMemberID {
	case settlement.FromID:
		txType = TransactionExpense
	case settlement.ToID:
		txType = TransactionIncome
	default:
		return
	}
	err := s.ledger.AddTransaction(ctx, Transaction{
		Type:     txType,
		Amount:   settlement.Amount,
		Category: "Settlement",
		Date:     time.Unix(settlement.CreatedAt, 0),
		Note:     settlement.Note,
	})
	if err != nil {
		slog.Warn("Settlement mirror failed", "group_id", group.ID, "settlement_id", settlement.ID, "error", err)
	}
}
