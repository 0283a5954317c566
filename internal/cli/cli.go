// Package cli implements the fingrow subcommands: a local command-line
// surface over the group expense ledger. Commands resolve groups and
// members by name or ID, call the ledger service, and print plain-text
// results; all computation and invariant enforcement lives in the service
// and calculator layers.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub000/internal/config"
	"github.com/junman99/fingrow-sub000/internal/models"
	"github.com/junman99/fingrow-sub000/internal/service"
	"github.com/junman99/fingrow-sub000/internal/storage/sqlite"
)

// Register registers all fingrow subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&groupCreateCmd{}, "groups")
	c.Register(&groupsCmd{}, "groups")
	c.Register(&groupRmCmd{}, "groups")

	c.Register(&memberAddCmd{}, "members")
	c.Register(&memberArchiveCmd{}, "members")
	c.Register(&memberRmCmd{}, "members")

	c.Register(&billAddCmd{}, "bills")
	c.Register(&billsCmd{}, "bills")
	c.Register(&billRmCmd{}, "bills")
	c.Register(&markPaidCmd{}, "bills")

	c.Register(&balancesCmd{}, "settling")
	c.Register(&settleCmd{}, "settling")
	c.Register(&settlementRecordCmd{}, "settling")
}

var dbPath = flag.String("db", "", "Path to the ledger database (defaults to LEDGER_DB_PATH)")

// openService opens the ledger service over the configured SQLite store.
// The returned func closes the store.
func openService() (*service.LedgerService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	path := cfg.DBPath
	if *dbPath != "" {
		path = *dbPath
	}
	store, err := sqlite.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger at %s: %w", path, err)
	}
	svc := service.NewLedgerService(store, service.NopLedger())
	return svc, func() { store.Close() }, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// findGroup resolves a group by ID or unique name.
func findGroup(groups []*models.Group, nameOrID string) (*models.Group, error) {
	var match *models.Group
	for _, g := range groups {
		if g.ID == nameOrID {
			return g, nil
		}
		if g.Name == nameOrID {
			if match != nil {
				return nil, fmt.Errorf("group name %q is ambiguous, use the ID", nameOrID)
			}
			match = g
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no group named %q", nameOrID)
	}
	return match, nil
}

// resolveMember resolves a member by ID or unique name within a group.
func resolveMember(group *models.Group, nameOrID string) (*models.Member, error) {
	var match *models.Member
	for i := range group.Members {
		m := &group.Members[i]
		if m.ID == nameOrID {
			return m, nil
		}
		if m.Name == nameOrID {
			if match != nil {
				return nil, fmt.Errorf("member name %q is ambiguous, use the ID", nameOrID)
			}
			match = m
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no member named %q in group %s", nameOrID, group.Name)
	}
	return match, nil
}

// splitList parses a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePairs parses "name=value,name=value" entries, resolving names to
// member IDs.
func parsePairs(group *models.Group, s string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, part := range splitList(s) {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q, expected name=value", part)
		}
		member, err := resolveMember(group, strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		pairs[member.ID] = strings.TrimSpace(value)
	}
	return pairs, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
