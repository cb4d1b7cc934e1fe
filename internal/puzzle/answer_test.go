package puzzle

import (
	"errors"
	"testing"

	"github.com/abhisek/mathpace/internal/difficulty"
)

func TestCheckAnswer(t *testing.T) {
	p := &Puzzle{A: 3, B: 4, Op: difficulty.Add, Answer: 7}
	tests := []struct {
		input   string
		want    bool
		wantErr error
	}{
		{"7", true, nil},
		{"  7 ", true, nil},
		{"007", true, nil},
		{"+7", true, nil},
		{"8", false, nil},
		{"-7", false, nil},
		{"", false, ErrNotANumber},
		{"seven", false, ErrNotANumber},
		{"7.0", false, ErrNotANumber},
	}

	for _, tt := range tests {
		got, err := CheckAnswer(tt.input, p)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("CheckAnswer(%q) err = %v, want %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidators(t *testing.T) {
	table := difficulty.DefaultTable()
	tests := []struct {
		name      string
		p         Puzzle
		validator Validator
		wantErr   bool
	}{
		{"valid add", Puzzle{A: 3, B: 4, Op: difficulty.Add, Answer: 7, Level: difficulty.Easy}, &RangeValidator{}, false},
		{"add out of range", Puzzle{A: 30, B: 4, Op: difficulty.Add, Answer: 34, Level: difficulty.Easy}, &RangeValidator{}, true},
		{"swapped sub", Puzzle{A: 90, B: 60, Op: difficulty.Sub, Answer: 30, Level: difficulty.Hard}, &RangeValidator{}, false},
		{"divisor too big", Puzzle{A: 40, B: 40, Op: difficulty.Div, Answer: 1, Level: difficulty.Hard}, &RangeValidator{}, true},
		{"wrong answer", Puzzle{A: 3, B: 4, Op: difficulty.Mul, Answer: 7, Level: difficulty.Easy}, &ArithmeticValidator{}, true},
		{"inexact division", Puzzle{A: 7, B: 2, Op: difficulty.Div, Answer: 3, Level: difficulty.Easy}, &ArithmeticValidator{}, true},
		{"negative sub", Puzzle{A: 2, B: 5, Op: difficulty.Sub, Answer: -3, Level: difficulty.Easy}, &ArithmeticValidator{}, true},
		{"exact division", Puzzle{A: 12, B: 4, Op: difficulty.Div, Answer: 3, Level: difficulty.Easy}, &ArithmeticValidator{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator.Validate(&tt.p, table)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
