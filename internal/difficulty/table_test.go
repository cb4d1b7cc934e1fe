package difficulty

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultTable_ExpectedTimes(t *testing.T) {
	tbl := DefaultTable()
	tests := []struct {
		level Level
		want  time.Duration
	}{
		{Easy, 10 * time.Second},
		{Medium, 15 * time.Second},
		{Hard, 20 * time.Second},
		{Expert, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := tbl.ExpectedTime(tt.level); got != tt.want {
			t.Errorf("ExpectedTime(%s) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestDefaultTable_AllOperationsEveryLevel(t *testing.T) {
	tbl := DefaultTable()
	for _, l := range Levels() {
		ops := tbl.AllowedOperations(l)
		if len(ops) != 4 {
			t.Fatalf("AllowedOperations(%s) = %v, want 4 operations", l, ops)
		}
		for i, op := range AllOperations() {
			if ops[i] != op {
				t.Errorf("AllowedOperations(%s)[%d] = %s, want %s", l, i, ops[i], op)
			}
		}
	}
}

func TestDefaultTable_Ranges(t *testing.T) {
	tbl := DefaultTable()
	tests := []struct {
		level Level
		op    Operation
		want  Range
	}{
		{Easy, Add, Range{1, 10, 1, 10}},
		{Easy, Div, Range{1, 5, 1, 5}},
		{Medium, Mul, Range{2, 12, 2, 12}},
		{Hard, Sub, Range{50, 200, 10, 100}},
		{Hard, Div, Range{10, 20, 2, 10}},
		{Expert, Add, Range{100, 1000, 100, 1000}},
		{Expert, Mul, Range{15, 50, 10, 25}},
		{Expert, Div, Range{20, 100, 5, 20}},
	}
	for _, tt := range tests {
		got, ok := tbl.NumberRange(tt.level, tt.op)
		if !ok {
			t.Errorf("NumberRange(%s, %s) missing", tt.level, tt.op)
			continue
		}
		if got != tt.want {
			t.Errorf("NumberRange(%s, %s) = %+v, want %+v", tt.level, tt.op, got, tt.want)
		}
	}
}

func TestExpectedTime_IncreasesWithLevel(t *testing.T) {
	tbl := DefaultTable()
	prev := time.Duration(0)
	for _, l := range Levels() {
		got := tbl.ExpectedTime(l)
		if got <= prev {
			t.Errorf("ExpectedTime(%s) = %s, not greater than previous %s", l, got, prev)
		}
		prev = got
	}
}

func TestSpec_ReturnsCopy(t *testing.T) {
	tbl := DefaultTable()
	s, ok := tbl.Spec(Easy)
	if !ok {
		t.Fatal("Spec(Easy) missing")
	}
	s.Ranges[Add] = Range{0, 0, 0, 0}
	got, _ := tbl.NumberRange(Easy, Add)
	if got.AMax != 10 {
		t.Errorf("mutating Spec result changed the table: %+v", got)
	}
}

func TestNewTable_MissingLevel(t *testing.T) {
	specs := defaultSpecs()[:3]
	_, err := NewTable(specs)
	if err == nil {
		t.Fatal("expected error for missing Expert level")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "level Expert is missing") {
		t.Errorf("error = %q, want mention of missing Expert", err)
	}
}

func TestNewTable_AggregatesProblems(t *testing.T) {
	specs := defaultSpecs()
	specs[0].ExpectedTime = 0
	specs[1].Ranges = map[Operation]Range{Add: {10, 5, 1, 1}}
	specs[2].Ranges = nil

	_, err := NewTable(specs)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	if len(cfgErr.Problems) != 3 {
		t.Errorf("got %d problems, want 3: %v", len(cfgErr.Problems), cfgErr.Problems)
	}
	if !strings.HasPrefix(err.Error(), "difficulty table validation failed:") {
		t.Errorf("error = %q, want validation prefix", err)
	}
}

func TestNewTable_DuplicateLevel(t *testing.T) {
	specs := append(defaultSpecs(), defaultSpecs()[0])
	if _, err := NewTable(specs); err == nil || !strings.Contains(err.Error(), "duplicate level: Easy") {
		t.Errorf("err = %v, want duplicate level error", err)
	}
}

func TestNewTable_ZeroDivisor(t *testing.T) {
	specs := defaultSpecs()
	specs[0].Ranges[Div] = Range{1, 5, 0, 0}
	if _, err := NewTable(specs); err == nil || !strings.Contains(err.Error(), "divisor") {
		t.Errorf("err = %v, want divisor error", err)
	}
}

func TestWithExpectedTimes(t *testing.T) {
	tbl := DefaultTable()
	custom, err := tbl.WithExpectedTimes(map[Level]time.Duration{Hard: 25 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := custom.ExpectedTime(Hard); got != 25*time.Second {
		t.Errorf("ExpectedTime(Hard) = %s, want 25s", got)
	}
	if got := tbl.ExpectedTime(Hard); got != 20*time.Second {
		t.Errorf("original table changed: ExpectedTime(Hard) = %s", got)
	}

	if _, err := tbl.WithExpectedTimes(map[Level]time.Duration{Easy: -time.Second}); err == nil {
		t.Error("expected error for negative expected time")
	}
}
