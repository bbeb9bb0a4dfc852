package doping

import "fmt"

// ColumnType is the role a column plays during synthesis
type ColumnType int

const (
	// Numeric columns hold int64 or float64 values (nil when missing)
	Numeric ColumnType = iota
	// Categorical columns hold string values
	Categorical
)

// String returns the lowercase type name
func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// ColumnTypes maps column name to its assigned type
type ColumnTypes map[string]ColumnType

// Event records one synthesized cell
type Event struct {
	Row    int         `json:"row"`
	Column string      `json:"column"`
	Prior  interface{} `json:"prior"`
	Value  interface{} `json:"value"`
	Novel  bool        `json:"novel"`
}

// Weight is the score contribution of the event
func (e Event) Weight() int {
	if e.Novel {
		return 2
	}
	return 1
}
