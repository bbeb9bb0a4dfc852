package doping

import (
	stderrors "errors"

	"github.com/ajitpratap0/dopant/pkg/errors"
)

// ErrInvalidOptions is the cause of every validation error returned by
// Transform. A call that fails validation modifies nothing.
var ErrInvalidOptions = stderrors.New("invalid doping options")

// Unbounded, as MaxColsPerModification, means "up to every column"
const Unbounded = -1

// Options control a single transform call
type Options struct {
	// NumRowsToModify is how many row draws are made, with replacement
	NumRowsToModify int `yaml:"num_rows_to_modify" json:"num_rows_to_modify" mapstructure:"num_rows_to_modify"`
	// MinColsPerModification is the fewest columns modified per drawn row
	MinColsPerModification int `yaml:"min_cols_per_modification" json:"min_cols_per_modification" mapstructure:"min_cols_per_modification"`
	// MaxColsPerModification is the most columns modified per drawn row; negative means all columns
	MaxColsPerModification int `yaml:"max_cols_per_modification" json:"max_cols_per_modification" mapstructure:"max_cols_per_modification"`
	// AllowNewCategoricalValues enables the novel-token branch
	AllowNewCategoricalValues bool `yaml:"allow_new_categorical_values" json:"allow_new_categorical_values" mapstructure:"allow_new_categorical_values"`
	// AllowNewNumericValues enables the above-maximum branch
	AllowNewNumericValues bool `yaml:"allow_new_numeric_values" json:"allow_new_numeric_values" mapstructure:"allow_new_numeric_values"`
	// RandomState seeds the call when non-negative
	RandomState int64 `yaml:"random_state" json:"random_state" mapstructure:"random_state"`
	// Verbose logs a progress line per drawn row at info level
	Verbose bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
}

// DefaultOptions returns the defaults: 10 rows, 1 to all columns, novel
// values allowed, unseeded, quiet.
func DefaultOptions() Options {
	return Options{
		NumRowsToModify:           10,
		MinColsPerModification:    1,
		MaxColsPerModification:    Unbounded,
		AllowNewCategoricalValues: true,
		AllowNewNumericValues:     true,
		RandomState:               -1,
		Verbose:                   false,
	}
}

// resolve validates o against a dataset shape and returns it with
// MaxColsPerModification made concrete.
func (o Options) resolve(rows, cols int) (Options, error) {
	if o.MaxColsPerModification < 0 {
		o.MaxColsPerModification = cols
	}

	invalid := func(msg string) error {
		return errors.Wrap(ErrInvalidOptions, errors.ErrorTypeValidation, msg).
			WithDetail("num_rows_to_modify", o.NumRowsToModify).
			WithDetail("min_cols_per_modification", o.MinColsPerModification).
			WithDetail("max_cols_per_modification", o.MaxColsPerModification).
			WithDetail("rows", rows).
			WithDetail("columns", cols)
	}

	switch {
	case o.NumRowsToModify < 1:
		return o, invalid("num_rows_to_modify must be at least 1")
	case o.NumRowsToModify > rows:
		return o, invalid("num_rows_to_modify must be at most the number of rows in the dataset")
	case o.MinColsPerModification < 1:
		return o, invalid("min_cols_per_modification must be at least 1")
	case o.MinColsPerModification > cols:
		return o, invalid("min_cols_per_modification must be at most the number of columns in the dataset")
	case o.MaxColsPerModification > cols:
		return o, invalid("max_cols_per_modification must be at most the number of columns in the dataset")
	case o.MinColsPerModification > o.MaxColsPerModification:
		return o, invalid("min_cols_per_modification must not exceed max_cols_per_modification")
	}
	return o, nil
}
