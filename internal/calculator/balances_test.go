package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/models"
)

// billPaidBy builds a bill where one member paid and the splits are given.
func billPaidBy(payerID string, total string, shares map[string]string) models.Bill {
	bill := models.Bill{
		FinalAmount:   d(total),
		Contributions: []models.Contribution{{MemberID: payerID, Amount: d(total)}},
	}
	for memberID, share := range shares {
		bill.Splits = append(bill.Splits, models.Split{MemberID: memberID, Share: d(share)})
	}
	return bill
}

func TestBalances(t *testing.T) {
	// A pays 90.00 split equally three ways.
	bills := []models.Bill{
		billPaidBy("A", "90.00", map[string]string{"A": "30.00", "B": "30.00", "C": "30.00"}),
	}

	balances := Balances(bills, nil)

	want := map[string]string{"A": "60.00", "B": "-30.00", "C": "-30.00"}
	for memberID, expected := range want {
		if !balances[memberID].Equal(d(expected)) {
			t.Errorf("%s balance = %s, want %s", memberID, balances[memberID], expected)
		}
	}
}

func TestBalancesAppliesSettlements(t *testing.T) {
	bills := []models.Bill{
		billPaidBy("A", "90.00", map[string]string{"A": "30.00", "B": "30.00", "C": "30.00"}),
	}
	settlements := []models.Settlement{
		{FromID: "B", ToID: "A", Amount: d("30.00")},
	}

	balances := Balances(bills, settlements)

	if !balances["B"].IsZero() {
		t.Errorf("B balance = %s, want 0", balances["B"])
	}
	if !balances["A"].Equal(d("30.00")) {
		t.Errorf("A balance = %s, want 30.00", balances["A"])
	}
}

func TestBalancesMultiplePayers(t *testing.T) {
	bill := models.Bill{
		FinalAmount: d("100.00"),
		Contributions: []models.Contribution{
			{MemberID: "A", Amount: d("70.00")},
			{MemberID: "B", Amount: d("30.00")},
		},
		Splits: []models.Split{
			{MemberID: "A", Share: d("50.00")},
			{MemberID: "B", Share: d("50.00")},
		},
	}

	balances := Balances([]models.Bill{bill}, nil)

	if !balances["A"].Equal(d("20.00")) {
		t.Errorf("A balance = %s, want 20.00", balances["A"])
	}
	if !balances["B"].Equal(d("-20.00")) {
		t.Errorf("B balance = %s, want -20.00", balances["B"])
	}
}

func TestBalancesConservation(t *testing.T) {
	// Money is only ever reallocated: balances always sum to zero.
	bills := []models.Bill{
		billPaidBy("A", "10.00", map[string]string{"A": "3.33", "B": "3.33", "C": "3.34"}),
		billPaidBy("B", "97.00", map[string]string{"A": "48.50", "B": "48.50"}),
		billPaidBy("C", "55.55", map[string]string{"B": "27.77", "C": "27.78"}),
	}
	settlements := []models.Settlement{
		{FromID: "C", ToID: "A", Amount: d("5.00")},
		{FromID: "B", ToID: "C", Amount: d("12.34")},
	}

	sum := decimal.Zero
	for _, bal := range Balances(bills, settlements) {
		sum = sum.Add(bal)
	}
	if !sum.IsZero() {
		t.Errorf("balances sum = %s, want 0", sum)
	}
}

func TestBalancesIgnoresSettledFlag(t *testing.T) {
	bill := billPaidBy("A", "90.00", map[string]string{"A": "30.00", "B": "30.00", "C": "30.00"})
	for i := range bill.Splits {
		bill.Splits[i].Settled = true
	}

	balances := Balances([]models.Bill{bill}, nil)
	if !balances["B"].Equal(d("-30.00")) {
		t.Errorf("B balance = %s, want -30.00 (settled flag must not affect balances)", balances["B"])
	}
}
