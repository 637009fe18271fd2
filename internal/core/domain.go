package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CategoryJovens       Category = "Jovens"
	CategoryAdolescentes Category = "Adolescentes"

	ActivityCelula ActivityType = "Célula"
	ActivityCulto  ActivityType = "Culto de Jovens"

	PaidYes PaidFlag = "Sim"
	PaidNo  PaidFlag = "Não"

	// WeekSlots is the structural number of weekly sub-records per attendance
	// row. Months with only 4 Saturdays leave the 5th slot zeroed and hidden.
	WeekSlots = 5
)

type (
	Category     string
	ActivityType string
	PaidFlag     string

	// WeekSlot holds the three counters recorded for one Saturday.
	WeekSlot struct {
		Members  int
		Active   int
		Visitors int
	}

	// AttendanceRow is one ledger entry keyed by (Month, Leader, Type).
	AttendanceRow struct {
		Month    string
		Leader   string // Discipulador
		Category Category
		Type     ActivityType
		Weeks    [WeekSlots]WeekSlot
	}

	// TitheRow is one ledger entry keyed by (Month, Leader).
	TitheRow struct {
		Month    string
		Leader   string // Líder
		Category Category
		Amount   Money // Valor
		Paid     PaidFlag
	}

	AttendanceKey struct {
		Month  string
		Leader string
		Type   ActivityType
	}

	TitheKey struct {
		Month  string
		Leader string
	}
)

var (
	ErrUnknownMonth    = errors.New("unknown month name")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownActivity = errors.New("unknown activity type")
	ErrEmptyLeader     = errors.New("empty leader name")
	ErrNegativeCount   = errors.New("negative counter value")
	ErrNegativeAmount  = errors.New("negative amount")
)

// Categories lists the two fixed cohorts in display order.
var Categories = []Category{CategoryJovens, CategoryAdolescentes}

// ActivityTypes lists the tracked activities in display order.
var ActivityTypes = []ActivityType{ActivityCelula, ActivityCulto}

func (c Category) Validate() error {
	switch c {
	case CategoryJovens, CategoryAdolescentes:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

func (t ActivityType) Validate() error {
	switch t {
	case ActivityCelula, ActivityCulto:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownActivity, string(t))
}

func (p PaidFlag) Validate() error {
	if p == PaidYes || p == PaidNo {
		return nil
	}
	return fmt.Errorf("invalid paid flag %q (want %q or %q)", string(p), PaidYes, PaidNo)
}

func (s WeekSlot) Validate() error {
	if s.Members < 0 || s.Active < 0 || s.Visitors < 0 {
		return ErrNegativeCount
	}
	return nil
}

func (r AttendanceRow) Key() AttendanceKey {
	return AttendanceKey{Month: r.Month, Leader: r.Leader, Type: r.Type}
}

func (r AttendanceRow) Validate() error {
	if _, err := MonthIndex(r.Month); err != nil {
		return err
	}
	if strings.TrimSpace(r.Leader) == "" {
		return ErrEmptyLeader
	}
	if err := r.Category.Validate(); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	for _, w := range r.Weeks {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r TitheRow) Key() TitheKey {
	return TitheKey{Month: r.Month, Leader: r.Leader}
}

func (r TitheRow) Validate() error {
	if _, err := MonthIndex(r.Month); err != nil {
		return err
	}
	if strings.TrimSpace(r.Leader) == "" {
		return ErrEmptyLeader
	}
	if err := r.Category.Validate(); err != nil {
		return err
	}
	if r.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	return r.Paid.Validate()
}
