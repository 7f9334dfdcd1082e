package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column names as they appear in the semáforo spreadsheets.
const (
	ColCall           = "CALL"
	ColComercial      = "COMERCIAL"
	ColCliente        = "CLIENTE"
	ColDia            = "DÍA"
	ColF2025          = "F2025"
	ColF2026          = "F2026"
	ColHL             = "HL"
	ColVigilancia     = "VIGILANCIA"
	ColImplant        = "IMPLANT"
	ColDenuncias      = "DENUNCIAS"
	ColSemaforo       = "SEMAFORO"
	ColNotas          = "NOTAS"
	ColCloser         = "CLOSER"
	ColEstado         = "ESTADO"
	ColCloserAsignado = "CLOSER ASIGNADO"
)

const (
	SemaforoRojo      = "ROJO"
	EstadoFinalizado  = "FINALIZADO"
	EstadoPasaCentral = "PASA CENTRAL"
)

// StoreColumns is the fixed descriptive column set of the assignment store.
// A save back-fills any of these that are missing with empty cells.
var StoreColumns = []string{
	ColCall, ColComercial, ColCliente, ColDia,
	ColF2025, ColF2026, ColHL, ColVigilancia,
	ColImplant, ColDenuncias, ColSemaforo,
	ColNotas, ColCloser, ColEstado,
}

// SourceColumns is the column set of a semáforo source table.
var SourceColumns = []string{
	ColCall, ColComercial, ColCliente, ColDia,
	ColF2025, ColF2026, ColHL, ColVigilancia,
	ColImplant, ColDenuncias, ColSemaforo, ColNotas,
}

// DateLayout is the normalized text form of date-like cells.
const DateLayout = "02/01/2006"

type CellKind string

const (
	KindEmpty  CellKind = ""
	KindText   CellKind = "t"
	KindNumber CellKind = "n"
	KindDate   CellKind = "d"
	KindBool   CellKind = "b"
)

// Cell is a tagged spreadsheet value. The zero value is the empty cell.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
	Bool   bool
}

func EmptyCell() Cell           { return Cell{} }
func TextCell(s string) Cell    { return Cell{Kind: KindText, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: KindNumber, Number: f} }
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }
func BoolCell(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }

func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty || (c.Kind == KindText && strings.TrimSpace(c.Text) == "")
}

// String coerces the cell to display text: dates as DD/MM/YYYY, booleans as
// the SI/NO checkbox tokens, numbers without trailing zeros.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindDate:
		return c.Date.Format(DateLayout)
	case KindBool:
		if c.Bool {
			return "SI"
		}
		return "NO"
	default:
		return ""
	}
}

type cellJSON struct {
	K CellKind        `json:"k,omitempty"`
	V json.RawMessage `json:"v,omitempty"`
}

func (c Cell) MarshalJSON() ([]byte, error) {
	var v any
	switch c.Kind {
	case KindEmpty:
		return []byte("null"), nil
	case KindText:
		v = c.Text
	case KindNumber:
		v = c.Number
	case KindDate:
		v = c.Date.Format(DateLayout)
	case KindBool:
		v = c.Bool
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(cellJSON{K: c.Kind, V: raw})
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var raw cellJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.K {
	case KindEmpty:
		*c = Cell{}
	case KindText:
		var s string
		if err := json.Unmarshal(raw.V, &s); err != nil {
			return err
		}
		*c = TextCell(s)
	case KindNumber:
		var f float64
		if err := json.Unmarshal(raw.V, &f); err != nil {
			return err
		}
		*c = NumberCell(f)
	case KindDate:
		var s string
		if err := json.Unmarshal(raw.V, &s); err != nil {
			return err
		}
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return err
		}
		*c = DateCell(t)
	case KindBool:
		var b bool
		if err := json.Unmarshal(raw.V, &b); err != nil {
			return err
		}
		*c = BoolCell(b)
	default:
		return fmt.Errorf("unknown cell kind %q", raw.K)
	}
	return nil
}

// Table is an ordered grid: a header row plus zero or more data rows. Rows
// are always padded to len(Columns).
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

func NewTable(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// AppendRow adds a row, padding or truncating to the table width.
func (t *Table) AppendRow(cells ...Cell) {
	row := make([]Cell, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

func (t Table) Get(row int, column string) Cell {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return Cell{}
	}
	return t.Rows[row][idx]
}

// Set writes a cell; the column must already exist.
func (t *Table) Set(row int, column string, c Cell) {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	t.Rows[row][idx] = c
}

// EnsureColumns appends any missing columns and back-fills existing rows
// with empty cells.
func (t *Table) EnsureColumns(names ...string) {
	for _, name := range names {
		if t.HasColumn(name) {
			continue
		}
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], Cell{})
		}
	}
}

// DropColumn removes a column and its cells; unknown names are a no-op.
func (t *Table) DropColumn(name string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i][:idx], t.Rows[i][idx+1:]...)
	}
}

func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// Select returns a new table holding the given rows, in the given order.
// Out-of-range indexes are skipped.
func (t Table) Select(rows []int) Table {
	out := NewTable(t.Columns...)
	for _, r := range rows {
		if r < 0 || r >= len(t.Rows) {
			continue
		}
		out.Rows = append(out.Rows, append([]Cell(nil), t.Rows[r]...))
	}
	return out
}

// Append concatenates other's rows onto t, aligning columns by name. Columns
// in other that t lacks are added (back-filled with empties for t's prior
// rows); columns other lacks stay empty for the appended rows.
func (t *Table) Append(other Table) {
	if len(t.Columns) == 0 && len(t.Rows) == 0 {
		*t = other.Clone()
		return
	}
	t.EnsureColumns(other.Columns...)
	for _, row := range other.Rows {
		dst := make([]Cell, len(t.Columns))
		for i, col := range other.Columns {
			if i >= len(row) {
				break
			}
			dst[t.ColumnIndex(col)] = row[i]
		}
		t.Rows = append(t.Rows, dst)
	}
}
