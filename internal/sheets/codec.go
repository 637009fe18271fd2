package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"radicais/internal/core"
)

// Column names of the persisted wide-format tables. Both the Google Sheets
// worksheets and the CSV seed files use exactly these headers.
const (
	ColMonth    = "Mês"
	ColLeader   = "Líder"
	ColCategory = "Categoria"
	ColAmount   = "Valor"
	ColPaid     = "Pago"
	ColGroup    = "Discipulador"
	ColType     = "Tipo"
)

// TitheHeader returns the Dizimos header row.
func TitheHeader() []string {
	return []string{ColMonth, ColLeader, ColCategory, ColAmount, ColPaid}
}

// AttendanceHeader returns the Frequencia header row: the four key columns
// followed by S1_ME..S5_VI.
func AttendanceHeader() []string {
	out := []string{ColMonth, ColGroup, ColCategory, ColType}
	for s := 1; s <= core.WeekSlots; s++ {
		out = append(out, weekColumns(s)...)
	}
	return out
}

func weekColumns(slot int) []string {
	return []string{
		fmt.Sprintf("S%d_ME", slot),
		fmt.Sprintf("S%d_FA", slot),
		fmt.Sprintf("S%d_VI", slot),
	}
}

// ParseTitheRows decodes a raw table (header row first) into tithe rows.
// A present table without the Líder column is a schema mismatch, which
// callers treat like an empty table. Cell-level junk is skipped, not fatal:
// reads are best-effort the same way the dashboard's original loader was.
func ParseTitheRows(values [][]string) ([]core.TitheRow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	header := values[0]
	iMonth := indexOf(header, ColMonth)
	iLeader := indexOf(header, ColLeader)
	iCat := indexOf(header, ColCategory)
	iAmount := indexOf(header, ColAmount)
	iPaid := indexOf(header, ColPaid)
	if iLeader == -1 {
		return nil, fmt.Errorf("%w: %s is missing column %q", ErrSchemaMismatch, TitheTable, ColLeader)
	}
	var out []core.TitheRow
	for _, raw := range values[1:] {
		leader := strings.TrimSpace(safeGet(raw, iLeader))
		if leader == "" {
			continue
		}
		cents, err := core.ParseDecimalToCents(safeGet(raw, iAmount))
		if err != nil {
			cents = 0
		}
		paid := core.PaidFlag(strings.TrimSpace(safeGet(raw, iPaid)))
		if paid != core.PaidYes {
			paid = core.PaidNo
		}
		out = append(out, core.TitheRow{
			Month:    strings.TrimSpace(safeGet(raw, iMonth)),
			Leader:   leader,
			Category: core.Category(strings.TrimSpace(safeGet(raw, iCat))),
			Amount:   core.Money{Cents: cents},
			Paid:     paid,
		})
	}
	return out, nil
}

// ParseAttendanceRows decodes a raw table into attendance rows. The
// Discipulador column is the identifying column of the table; without it the
// whole table is rejected as a schema mismatch so the caller regenerates the
// fixed roster instead of merging.
func ParseAttendanceRows(values [][]string) ([]core.AttendanceRow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	header := values[0]
	iMonth := indexOf(header, ColMonth)
	iGroup := indexOf(header, ColGroup)
	iCat := indexOf(header, ColCategory)
	iType := indexOf(header, ColType)
	if iGroup == -1 {
		return nil, fmt.Errorf("%w: %s is missing column %q", ErrSchemaMismatch, AttendanceTable, ColGroup)
	}
	weekIdx := make([][]int, core.WeekSlots)
	for s := 1; s <= core.WeekSlots; s++ {
		cols := weekColumns(s)
		weekIdx[s-1] = []int{indexOf(header, cols[0]), indexOf(header, cols[1]), indexOf(header, cols[2])}
	}
	var out []core.AttendanceRow
	for _, raw := range values[1:] {
		leader := strings.TrimSpace(safeGet(raw, iGroup))
		if leader == "" {
			continue
		}
		row := core.AttendanceRow{
			Month:    strings.TrimSpace(safeGet(raw, iMonth)),
			Leader:   leader,
			Category: core.Category(strings.TrimSpace(safeGet(raw, iCat))),
			Type:     core.ActivityType(strings.TrimSpace(safeGet(raw, iType))),
		}
		for s := 0; s < core.WeekSlots; s++ {
			row.Weeks[s] = core.WeekSlot{
				Members:  parseCount(safeGet(raw, weekIdx[s][0])),
				Active:   parseCount(safeGet(raw, weekIdx[s][1])),
				Visitors: parseCount(safeGet(raw, weekIdx[s][2])),
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// EncodeTitheRows renders rows as a raw table, header included.
func EncodeTitheRows(rows []core.TitheRow) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, TitheHeader())
	for _, r := range rows {
		out = append(out, []string{
			r.Month,
			r.Leader,
			string(r.Category),
			formatCents(r.Amount.Cents),
			string(r.Paid),
		})
	}
	return out
}

// EncodeAttendanceRows renders rows as a raw table, header included.
func EncodeAttendanceRows(rows []core.AttendanceRow) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, AttendanceHeader())
	for _, r := range rows {
		cells := []string{r.Month, r.Leader, string(r.Category), string(r.Type)}
		for _, w := range r.Weeks {
			cells = append(cells,
				strconv.Itoa(w.Members),
				strconv.Itoa(w.Active),
				strconv.Itoa(w.Visitors))
		}
		out = append(out, cells)
	}
	return out
}

func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	// Some spreadsheet exports hand back "3.0" for integers.
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil && f >= 0 {
		return int(f + 0.5)
	}
	return 0
}

func formatCents(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", neg, cents/100, cents%100)
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
