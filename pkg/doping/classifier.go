package doping

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ajitpratap0/dopant/pkg/dataset"
)

// Classify assigns a ColumnType to every column of ds and rewrites each
// column's storage to match: Categorical columns hold strings (missing cells
// become ""), Numeric columns hold int64 when every cell was already a Go
// integer, float64 otherwise, with missing cells kept as nil.
//
// A column is Numeric when all of its present values are Go numbers, or when
// every present value, with '-' and '.' removed, is a run of digits that
// parses as a number. Missing cells do not vote, so an empty or all-missing
// column is Numeric.
func Classify(ds *dataset.Dataset) ColumnTypes {
	types := make(ColumnTypes, ds.ColumnCount())
	for _, c := range ds.Columns() {
		if isNumericColumn(c.Values) {
			types[c.Name] = Numeric
			coerceNumeric(c)
		} else {
			types[c.Name] = Categorical
			coerceCategorical(c)
		}
	}
	return types
}

func isNumericColumn(values []interface{}) bool {
	allNumbers := true
	for _, v := range values {
		if dataset.IsMissing(v) {
			continue
		}
		if _, ok := numberValue(v); !ok {
			allNumbers = false
			break
		}
	}
	if allNumbers {
		return true
	}

	for _, v := range values {
		if dataset.IsMissing(v) {
			continue
		}
		if !looksNumeric(stringValue(v)) {
			return false
		}
	}
	return true
}

// looksNumeric applies the digit test and makes sure the value can actually
// be stored as a number afterwards ("1-2" passes the digit test, not the parse).
func looksNumeric(s string) bool {
	stripped := strings.NewReplacer("-", "", ".", "").Replace(s)
	if stripped == "" {
		return false
	}
	for i := 0; i < len(stripped); i++ {
		if stripped[i] < '0' || stripped[i] > '9' {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func coerceNumeric(c *dataset.Column) {
	integral := len(c.Values) > 0
	for _, v := range c.Values {
		if !isGoInteger(v) {
			integral = false
			break
		}
	}

	for i, v := range c.Values {
		if dataset.IsMissing(v) {
			c.Values[i] = nil
			continue
		}
		if integral {
			c.Values[i] = toInt64(v)
			continue
		}
		f, ok := numberValue(v)
		if !ok {
			f, _ = strconv.ParseFloat(stringValue(v), 64)
		}
		c.Values[i] = f
	}
}

func coerceCategorical(c *dataset.Column) {
	for i, v := range c.Values {
		if dataset.IsMissing(v) {
			c.Values[i] = ""
			continue
		}
		c.Values[i] = stringValue(v)
	}
}

// numberValue converts Go numeric and boolean kinds to float64
func numberValue(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// isGoInteger reports whether v is a Go integer that fits in an int64
func isGoInteger(v interface{}) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return true
	case uint:
		return uint64(x) <= math.MaxInt64
	case uint64:
		return x <= math.MaxInt64
	}
	return false
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	}
	return 0
}

// stringValue renders a cell the way it is stored in a categorical column
func stringValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// isWhole reports whether f can be stored in an int64 column unchanged
func isWhole(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}
