package models

// Member represents one person in a group.
// Identity is immutable once created; archiving hides a member from future
// bill participation without touching history.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Contact is an optional email or phone number.
	Contact string `json:"contact,omitempty"`

	// Archived hides the member from new bills. Archived members keep
	// their full bill and settlement history.
	Archived bool `json:"archived,omitempty"`
}

// Group is the aggregate root: all ledger operations address a group by ID
// and operate on its members, bills and settlements only.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Lisbon Trip").
	Name string `json:"name"`

	// LocalMemberID identifies which member is the operating user of this
	// device. It is set explicitly when the group is created or joined,
	// never inferred by name matching.
	LocalMemberID string `json:"localMemberId,omitempty"`

	// MirrorSpending opts the group into mirroring bills and settlements
	// that involve the local member into the personal spending ledger.
	MirrorSpending bool `json:"mirrorSpending,omitempty"`

	// Members is the list of people in this group.
	Members []Member `json:"members"`

	// Bills is the full bill history of the group.
	Bills []Bill `json:"bills"`

	// Settlements is the full settlement history of the group.
	Settlements []Settlement `json:"settlements"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Member returns the member with the given ID, or nil.
func (g *Group) Member(id string) *Member {
	for i := range g.Members {
		if g.Members[i].ID == id {
			return &g.Members[i]
		}
	}
	return nil
}

// Bill returns the bill with the given ID, or nil.
func (g *Group) Bill(id string) *Bill {
	for i := range g.Bills {
		if g.Bills[i].ID == id {
			return &g.Bills[i]
		}
	}
	return nil
}

// MemberHasHistory reports whether the member appears in any bill
// contribution or split, or in any settlement. Members with history may be
// archived but never deleted, otherwise historical balances would corrupt.
func (g *Group) MemberHasHistory(memberID string) bool {
	for i := range g.Bills {
		b := &g.Bills[i]
		for _, c := range b.Contributions {
			if c.MemberID == memberID {
				return true
			}
		}
		for _, s := range b.Splits {
			if s.MemberID == memberID {
				return true
			}
		}
	}
	for _, s := range g.Settlements {
		if s.FromID == memberID || s.ToID == memberID {
			return true
		}
	}
	return false
}
