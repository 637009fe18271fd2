package core

import (
	"fmt"
	"strings"
)

// RosterGroup pairs a category with its ordered leader names.
type RosterGroup struct {
	Category Category
	Leaders  []string
}

// Roster is the ordered leader configuration. Ordering matters: the default
// ledgers must come out byte-for-byte identical across sessions, so the
// roster is a slice rather than a map.
type Roster []RosterGroup

// DefaultRoster returns the fixed leader set the ledgers are regenerated
// from when the store is empty or invalid.
func DefaultRoster() Roster {
	return Roster{
		{Category: CategoryJovens, Leaders: []string{"André e Larissa", "Lucas e Rosana", "Deric e Nayara"}},
		{Category: CategoryAdolescentes, Leaders: []string{"Giovana", "Guilherme", "Larissa", "Bella", "Pedro"}},
	}
}

// Validate rejects empty or duplicate leader names. A name appearing under
// two categories is undefined input per the data model.
func (r Roster) Validate() error {
	seen := map[string]Category{}
	for _, g := range r {
		if err := g.Category.Validate(); err != nil {
			return err
		}
		for _, name := range g.Leaders {
			if strings.TrimSpace(name) == "" {
				return ErrEmptyLeader
			}
			if prev, ok := seen[name]; ok {
				return fmt.Errorf("leader %q listed under both %q and %q", name, prev, g.Category)
			}
			seen[name] = g.Category
		}
	}
	return nil
}

// CategoryOf resolves a leader name to its category.
func (r Roster) CategoryOf(name string) (Category, bool) {
	for _, g := range r {
		for _, n := range g.Leaders {
			if n == name {
				return g.Category, true
			}
		}
	}
	return "", false
}

// Names returns all leader names in roster order.
func (r Roster) Names() []string {
	var out []string
	for _, g := range r {
		out = append(out, g.Leaders...)
	}
	return out
}

// BuildDefaultLedgers produces the canonical zero-filled ledgers: one tithe
// row per month × leader and one attendance row per month × leader × activity
// type. Output order is month-major then roster order, which makes the
// function deterministic for identical inputs.
func BuildDefaultLedgers(roster Roster, months []string, types []ActivityType) ([]TitheRow, []AttendanceRow) {
	leaders := 0
	for _, g := range roster {
		leaders += len(g.Leaders)
	}
	tithes := make([]TitheRow, 0, len(months)*leaders)
	attendance := make([]AttendanceRow, 0, len(months)*leaders*len(types))
	for _, m := range months {
		for _, g := range roster {
			for _, name := range g.Leaders {
				tithes = append(tithes, TitheRow{
					Month:    m,
					Leader:   name,
					Category: g.Category,
					Amount:   Money{},
					Paid:     PaidNo,
				})
				for _, t := range types {
					attendance = append(attendance, AttendanceRow{
						Month:    m,
						Leader:   name,
						Category: g.Category,
						Type:     t,
					})
				}
			}
		}
	}
	return tithes, attendance
}
