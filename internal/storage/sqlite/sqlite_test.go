package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/apperrors"
	"github.com/junman99/fingrow-sub000/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGroupRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:           "trip",
		LocalMemberID:  "m1",
		MirrorSpending: true,
		Members: []models.Member{
			{ID: "m1", Name: "Alice"},
			{ID: "m2", Name: "Bob", Archived: true},
		},
		Bills: []models.Bill{{
			ID:           "b1",
			Title:        "dinner",
			Amount:       d("100.00"),
			Tax:          d("7"),
			TaxIsPercent: true,
			FinalAmount:  d("107.00"),
			Participants: []string{"m1", "m2"},
			Split:        models.EqualSplit(),
			Contributions: []models.Contribution{
				{MemberID: "m1", Amount: d("107.00")},
			},
			Splits: []models.Split{
				{MemberID: "m1", Share: d("53.50")},
				{MemberID: "m2", Share: d("53.50"), Settled: true},
			},
		}},
		Settlements: []models.Settlement{
			{ID: "s1", FromID: "m2", ToID: "m1", Amount: d("53.50")},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" {
		t.Fatal("CreateGroup did not assign an ID")
	}
	if group.CreatedAt == 0 {
		t.Fatal("CreateGroup did not assign CreatedAt")
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Name != "trip" || got.LocalMemberID != "m1" || !got.MirrorSpending {
		t.Errorf("group header mismatch: %+v", got)
	}
	if len(got.Members) != 2 || !got.Members[1].Archived {
		t.Errorf("members mismatch: %+v", got.Members)
	}
	if len(got.Bills) != 1 {
		t.Fatalf("got %d bills, want 1", len(got.Bills))
	}
	bill := got.Bills[0]
	if !bill.FinalAmount.Equal(d("107.00")) || !bill.Tax.Equal(d("7")) || !bill.TaxIsPercent {
		t.Errorf("bill amounts mismatch: %+v", bill)
	}
	if bill.Split.Kind != models.SplitEqual {
		t.Errorf("split kind = %s, want %s", bill.Split.Kind, models.SplitEqual)
	}
	if !bill.Splits[1].Settled {
		t.Error("settled flag lost in roundtrip")
	}
	if len(got.Settlements) != 1 || !got.Settlements[0].Amount.Equal(d("53.50")) {
		t.Errorf("settlements mismatch: %+v", got.Settlements)
	}
}

func TestSaveGroupReplacesRecord(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "trip", Members: []models.Member{{ID: "m1", Name: "Alice"}}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group.Name = "renamed"
	group.Members = append(group.Members, models.Member{ID: "m2", Name: "Bob"})
	if err := store.SaveGroup(ctx, group); err != nil {
		t.Fatalf("SaveGroup failed: %v", err)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Name != "renamed" || len(got.Members) != 2 {
		t.Errorf("save did not replace the record: %+v", got)
	}
}

func TestSaveGroupUnknownID(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveGroup(context.Background(), &models.Group{ID: "missing", Name: "x"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SaveGroup error = %v, want ErrNotFound", err)
	}
}

func TestGetGroupNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetGroup(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetGroup error = %v, want ErrNotFound", err)
	}
}

func TestDeleteGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "trip"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetGroup after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second DeleteGroup = %v, want ErrNotFound", err)
	}
}

func TestListGroupsOldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Group{Name: "first", CreatedAt: 100}
	second := &models.Group{Name: "second", CreatedAt: 200}
	// Insert out of order.
	if err := store.CreateGroup(ctx, second); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := store.CreateGroup(ctx, first); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "first" || groups[1].Name != "second" {
		t.Errorf("groups out of order: %s, %s", groups[0].Name, groups[1].Name)
	}
}
