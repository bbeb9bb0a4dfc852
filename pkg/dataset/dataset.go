// Package dataset provides the in-memory table that dopant reads, mutates and
// writes. Storage is columnar: each named column holds one value per row.
//
// Cell values are plain Go values: nil for a missing cell, string, int64 and
// float64 after classification, and any other Go scalar before it.
//
//	ds := dataset.New("region", "amount")
//	_ = ds.AppendValues("north", 12.5)
//	_ = ds.AppendRow(map[string]interface{}{"region": "south"}) // amount missing
//
//	work := ds.Clone() // deep copy, safe to mutate
package dataset

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/ajitpratap0/dopant/pkg/errors"
)

// Column is a named, ordered run of cell values.
type Column struct {
	Name   string
	Values []interface{}
}

// Len returns the number of cells in the column
func (c *Column) Len() int { return len(c.Values) }

// MissingCount returns how many cells of the column are missing
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// AllMissing reports whether every cell is missing. An empty column counts.
func (c *Column) AllMissing() bool {
	return c.MissingCount() == len(c.Values)
}

// Dataset is an ordered set of equal-length columns.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty dataset with the given column names
func New(names ...string) *Dataset {
	d := &Dataset{index: make(map[string]int, len(names))}
	for _, name := range names {
		// duplicates are ignored, first wins
		_ = d.AddColumn(name, nil)
	}
	return d
}

// FromColumns builds a dataset from pre-filled columns. All columns must have
// the same length and distinct names.
func FromColumns(cols ...*Column) (*Dataset, error) {
	d := &Dataset{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			d.rows = len(c.Values)
		}
		if err := d.AddColumn(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// AddColumn appends a column. values may be nil for an empty dataset or must
// match the current row count; a nil slice on a non-empty dataset is filled
// with missing cells.
func (d *Dataset) AddColumn(name string, values []interface{}) error {
	if _, exists := d.index[name]; exists {
		return errors.Newf(errors.ErrorTypeData, "column %q already exists", name)
	}
	if values == nil {
		values = make([]interface{}, d.rows)
	}
	if len(d.columns) == 0 && d.rows == 0 {
		d.rows = len(values)
	}
	if len(values) != d.rows {
		return errors.Newf(errors.ErrorTypeData, "column %q has %d values, dataset has %d rows", name, len(values), d.rows).
			WithDetail("column", name)
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, &Column{Name: name, Values: values})
	return nil
}

// AppendRow appends a row given as a column-name mapping. Columns absent from
// the mapping receive a missing cell; keys that are not columns are rejected.
func (d *Dataset) AppendRow(row map[string]interface{}) error {
	for key := range row {
		if _, ok := d.index[key]; !ok {
			return errors.Newf(errors.ErrorTypeData, "unknown column %q", key)
		}
	}
	for _, c := range d.columns {
		c.Values = append(c.Values, row[c.Name])
	}
	d.rows++
	return nil
}

// AppendValues appends a row given positionally in column order.
func (d *Dataset) AppendValues(values ...interface{}) error {
	if len(values) != len(d.columns) {
		return errors.Newf(errors.ErrorTypeData, "row has %d values, dataset has %d columns", len(values), len(d.columns))
	}
	for i, c := range d.columns {
		c.Values = append(c.Values, values[i])
	}
	d.rows++
	return nil
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int { return d.rows }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// ColumnNames returns the column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Columns returns the columns in order. The slice must not be modified.
func (d *Dataset) Columns() []*Column { return d.columns }

// Value returns the cell at (row, column)
func (d *Dataset) Value(row int, column string) (interface{}, error) {
	c, err := d.cell(row, column)
	if err != nil {
		return nil, err
	}
	return c.Values[row], nil
}

// Set overwrites the cell at (row, column)
func (d *Dataset) Set(row int, column string, value interface{}) error {
	c, err := d.cell(row, column)
	if err != nil {
		return err
	}
	c.Values[row] = value
	return nil
}

func (d *Dataset) cell(row int, column string) (*Column, error) {
	c, ok := d.Column(column)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData, "unknown column %q", column)
	}
	if row < 0 || row >= d.rows {
		return nil, errors.Newf(errors.ErrorTypeData, "row %d out of range [0, %d)", row, d.rows)
	}
	return c, nil
}

// Row returns row i as a column-name mapping
func (d *Dataset) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(d.columns))
	for _, c := range d.columns {
		row[c.Name] = c.Values[i]
	}
	return row
}

// RowValues returns row i in column order
func (d *Dataset) RowValues(i int) []interface{} {
	row := make([]interface{}, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Clone returns a deep copy of the dataset. Cell values are scalars, so
// copying the slices is enough.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: make([]*Column, len(d.columns)),
		index:   make(map[string]int, len(d.index)),
		rows:    d.rows,
	}
	for i, c := range d.columns {
		values := make([]interface{}, len(c.Values))
		copy(values, c.Values)
		out.columns[i] = &Column{Name: c.Name, Values: values}
		out.index[c.Name] = i
	}
	return out
}

// Equal reports whether both datasets have the same columns, in the same
// order, holding identical values of identical types.
func (d *Dataset) Equal(other *Dataset) bool {
	if other == nil || d.rows != other.rows || len(d.columns) != len(other.columns) {
		return false
	}
	for i := 0; i < d.rows; i++ {
		if !d.RowEqual(other, i) {
			return false
		}
	}
	for j, c := range d.columns {
		if other.columns[j].Name != c.Name {
			return false
		}
	}
	return true
}

// RowEqual reports whether row i is identical in both datasets
func (d *Dataset) RowEqual(other *Dataset, i int) bool {
	if len(d.columns) != len(other.columns) || i >= d.rows || i >= other.rows {
		return false
	}
	for j, c := range d.columns {
		if !SameValue(c.Values[i], other.columns[j].Values[i]) {
			return false
		}
	}
	return true
}

// SameValue compares two cells by type and value. Two NaNs are the same cell.
func SameValue(a, b interface{}) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// IsMissing reports whether a cell holds no value: nil or a float NaN.
func IsMissing(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// FormatValue renders a cell as text. Missing cells render empty.
func FormatValue(v interface{}) string {
	if IsMissing(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// String renders a short description, used in log fields
func (d *Dataset) String() string {
	return fmt.Sprintf("dataset(%d rows x %d columns)", d.rows, len(d.columns))
}
