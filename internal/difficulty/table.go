package difficulty

import (
	"maps"
	"slices"
	"time"
)

// Range bounds the two operands of a puzzle. For subtraction the
// generator keeps a >= b; for division B bounds the divisor and A bounds
// the dividend.
type Range struct {
	AMin int `json:"a_min"`
	AMax int `json:"a_max"`
	BMin int `json:"b_min"`
	BMax int `json:"b_max"`
}

// LevelSpec holds the immutable attributes of one level.
type LevelSpec struct {
	Level        Level
	Description  string
	ExpectedTime time.Duration
	Ranges       map[Operation]Range
}

// Table is the read-only difficulty table. Construct it with NewTable or
// DefaultTable; a Table value always has all four levels defined.
type Table struct {
	specs map[Level]LevelSpec
}

// NewTable validates specs and builds a Table.
// Returns a *ConfigurationError describing every problem found.
func NewTable(specs []LevelSpec) (*Table, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}
	t := &Table{specs: make(map[Level]LevelSpec, len(specs))}
	for _, s := range specs {
		s.Ranges = maps.Clone(s.Ranges)
		t.specs[s.Level] = s
	}
	return t, nil
}

// DefaultTable returns the built-in level table.
func DefaultTable() *Table {
	t, err := NewTable(defaultSpecs())
	if err != nil {
		// The built-in table is validated by tests.
		panic(err)
	}
	return t
}

// WithExpectedTimes returns a validated copy of t with the expected times
// of the given levels replaced.
func (t *Table) WithExpectedTimes(overrides map[Level]time.Duration) (*Table, error) {
	specs := t.Specs()
	for i := range specs {
		if d, ok := overrides[specs[i].Level]; ok {
			specs[i].ExpectedTime = d
		}
	}
	for l := range overrides {
		if !l.Valid() {
			return nil, &ConfigurationError{Problems: []string{
				"expected time override for unknown level " + l.String(),
			}}
		}
	}
	return NewTable(specs)
}

// ExpectedTime returns how long a learner is expected to take on a
// puzzle at the given level. Always > 0 for a valid level.
func (t *Table) ExpectedTime(l Level) time.Duration {
	return t.specs[l].ExpectedTime
}

// NumberRange returns the operand bounds for op at level l.
func (t *Table) NumberRange(l Level, op Operation) (Range, bool) {
	r, ok := t.specs[l].Ranges[op]
	return r, ok
}

// AllowedOperations returns the operations permitted at level l in
// canonical order.
func (t *Table) AllowedOperations(l Level) []Operation {
	ops := slices.Collect(maps.Keys(t.specs[l].Ranges))
	slices.SortFunc(ops, func(a, b Operation) int {
		return opIndex(a) - opIndex(b)
	})
	return ops
}

// Spec returns the full specification of level l.
func (t *Table) Spec(l Level) (LevelSpec, bool) {
	s, ok := t.specs[l]
	if ok {
		s.Ranges = maps.Clone(s.Ranges)
	}
	return s, ok
}

// Specs returns copies of all level specs in ascending level order.
func (t *Table) Specs() []LevelSpec {
	out := make([]LevelSpec, 0, len(t.specs))
	for _, l := range Levels() {
		if s, ok := t.Spec(l); ok {
			out = append(out, s)
		}
	}
	return out
}

func defaultSpecs() []LevelSpec {
	return []LevelSpec{
		{
			Level:        Easy,
			Description:  "Single digits, small products",
			ExpectedTime: 10 * time.Second,
			Ranges: map[Operation]Range{
				Add: {1, 10, 1, 10},
				Sub: {1, 10, 1, 10},
				Mul: {1, 5, 1, 5},
				Div: {1, 5, 1, 5},
			},
		},
		{
			Level:        Medium,
			Description:  "Two-digit sums, times tables to 12",
			ExpectedTime: 15 * time.Second,
			Ranges: map[Operation]Range{
				Add: {10, 50, 10, 50},
				Sub: {10, 50, 10, 50},
				Mul: {2, 12, 2, 12},
				Div: {2, 12, 2, 12},
			},
		},
		{
			Level:        Hard,
			Description:  "Three-digit sums, two-digit products",
			ExpectedTime: 20 * time.Second,
			Ranges: map[Operation]Range{
				Add: {50, 200, 50, 200},
				Sub: {50, 200, 10, 100},
				Mul: {10, 25, 2, 15},
				Div: {10, 20, 2, 10},
			},
		},
		{
			Level:        Expert,
			Description:  "Large numbers, long division",
			ExpectedTime: 30 * time.Second,
			Ranges: map[Operation]Range{
				Add: {100, 1000, 100, 1000},
				Sub: {100, 1000, 50, 500},
				Mul: {15, 50, 10, 25},
				Div: {20, 100, 5, 20},
			},
		},
	}
}
