package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func balancesOf(entries map[string]string) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(entries))
	for memberID, amount := range entries {
		balances[memberID] = d(amount)
	}
	return balances
}

// applyPlan folds a plan back into the balances.
func applyPlan(balances map[string]decimal.Decimal, plan []Transfer) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(balances))
	for memberID, bal := range balances {
		result[memberID] = bal
	}
	for _, t := range plan {
		result[t.FromID] = result[t.FromID].Add(t.Amount)
		result[t.ToID] = result[t.ToID].Sub(t.Amount)
	}
	return result
}

func TestPlanSingleCreditor(t *testing.T) {
	plan := Plan(balancesOf(map[string]string{
		"A": "60.00", "B": "-30.00", "C": "-30.00",
	}))

	if len(plan) != 2 {
		t.Fatalf("plan has %d edges, want 2", len(plan))
	}
	// Equal debts tie-break on member ID, so the order is deterministic.
	if plan[0].FromID != "B" || plan[0].ToID != "A" || !plan[0].Amount.Equal(d("30.00")) {
		t.Errorf("edge 0 = %+v, want B->A 30.00", plan[0])
	}
	if plan[1].FromID != "C" || plan[1].ToID != "A" || !plan[1].Amount.Equal(d("30.00")) {
		t.Errorf("edge 1 = %+v, want C->A 30.00", plan[1])
	}
}

func TestPlanNetsCycle(t *testing.T) {
	// A owed B 20, B owed C 20, C owed A 5 nets to a single transfer.
	plan := Plan(balancesOf(map[string]string{
		"A": "-15.00", "B": "0.00", "C": "15.00",
	}))

	if len(plan) != 1 {
		t.Fatalf("plan has %d edges, want 1", len(plan))
	}
	if plan[0].FromID != "A" || plan[0].ToID != "C" || !plan[0].Amount.Equal(d("15.00")) {
		t.Errorf("edge = %+v, want A->C 15.00", plan[0])
	}
}

func TestPlanEmptyWhenSettled(t *testing.T) {
	if plan := Plan(nil); len(plan) != 0 {
		t.Errorf("plan of nil balances has %d edges, want 0", len(plan))
	}
	plan := Plan(balancesOf(map[string]string{"A": "0.00", "B": "0.00"}))
	if len(plan) != 0 {
		t.Errorf("plan of zero balances has %d edges, want 0", len(plan))
	}
	// Sub-epsilon drift counts as settled.
	plan = Plan(balancesOf(map[string]string{"A": "0.01", "B": "-0.01"}))
	if len(plan) != 0 {
		t.Errorf("plan of epsilon balances has %d edges, want 0", len(plan))
	}
}

func TestPlanZeroesEveryBalance(t *testing.T) {
	balances := balancesOf(map[string]string{
		"A": "25.50", "B": "-10.25", "C": "-15.25", "D": "0.00",
	})

	after := applyPlan(balances, Plan(balances))
	for memberID, bal := range after {
		if bal.Abs().GreaterThan(Epsilon) {
			t.Errorf("%s balance after plan = %s, want ~0", memberID, bal)
		}
	}
}

func TestPlanEdgeBound(t *testing.T) {
	// Greedy matching retires a party per edge: never more than
	// creditors+debtors-1 edges.
	balances := balancesOf(map[string]string{
		"A": "60.00", "B": "40.00", "C": "-50.00", "D": "-50.00",
	})

	plan := Plan(balances)
	if len(plan) > 3 {
		t.Errorf("plan has %d edges, want at most 3", len(plan))
	}

	after := applyPlan(balances, plan)
	for memberID, bal := range after {
		if bal.Abs().GreaterThan(Epsilon) {
			t.Errorf("%s balance after plan = %s, want ~0", memberID, bal)
		}
	}
}

func TestPlanLargestFirst(t *testing.T) {
	plan := Plan(balancesOf(map[string]string{
		"A": "100.00", "B": "-70.00", "C": "-30.00",
	}))

	if len(plan) != 2 {
		t.Fatalf("plan has %d edges, want 2", len(plan))
	}
	if plan[0].FromID != "B" || !plan[0].Amount.Equal(d("70.00")) {
		t.Errorf("largest debtor should settle first, got %+v", plan[0])
	}
}
