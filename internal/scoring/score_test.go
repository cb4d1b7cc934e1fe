package scoring

import (
	"math"
	"testing"
	"time"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestTimeScore_Steps(t *testing.T) {
	expected := 10 * time.Second
	tests := []struct {
		taken time.Duration
		want  float64
	}{
		{1 * time.Second, 1.0},
		{4999 * time.Millisecond, 1.0},
		{5 * time.Second, 0.8},
		{9 * time.Second, 0.8},
		{10 * time.Second, 0.6},
		{14 * time.Second, 0.6},
		{15 * time.Second, 0.3},
		{2 * time.Minute, 0.3},
	}
	for _, tt := range tests {
		got := TimeScore(tt.taken, expected)
		if !almostEqual(got, tt.want) {
			t.Errorf("TimeScore(%s, %s) = %f, want %f", tt.taken, expected, got, tt.want)
		}
	}
}

func TestScore_Perfect(t *testing.T) {
	// 1.0*0.7 + 1.0*0.3 = 1.0
	score := Score(1.0, 2*time.Second, 10*time.Second)
	if !almostEqual(score, 1.0) {
		t.Errorf("Score = %f, want 1.0", score)
	}
}

func TestScore_Mixed(t *testing.T) {
	// 0.667*0.7 + 0.8*0.3 = 0.4667 + 0.24 = 0.7067
	score := Score(2.0/3.0, 12*time.Second, 15*time.Second)
	if !almostEqual(score, 0.7067) {
		t.Errorf("Score = %f, want 0.7067", score)
	}
}

func TestScore_AllWrongSlow(t *testing.T) {
	// 0.0*0.7 + 0.3*0.3 = 0.09
	score := Score(0, time.Minute, 10*time.Second)
	if !almostEqual(score, 0.09) {
		t.Errorf("Score = %f, want 0.09", score)
	}
}

func TestScore_ClampsAccuracy(t *testing.T) {
	if s := Score(1.7, time.Second, 10*time.Second); s > 1.0 {
		t.Errorf("Score = %f, want <= 1.0", s)
	}
	if s := Score(-0.5, time.Minute, 10*time.Second); s < 0 {
		t.Errorf("Score = %f, want >= 0", s)
	}
}

func TestScore_Bounds(t *testing.T) {
	expected := 20 * time.Second
	for acc := 0.0; acc <= 1.0; acc += 0.05 {
		for ms := 100; ms <= 60000; ms += 700 {
			s := Score(acc, time.Duration(ms)*time.Millisecond, expected)
			if s < 0 || s > 1 {
				t.Fatalf("Score(%f, %dms) = %f, out of [0,1]", acc, ms, s)
			}
		}
	}
}

func TestScore_MonotonicInAccuracy(t *testing.T) {
	expected := 15 * time.Second
	for _, taken := range []time.Duration{time.Second, 10 * time.Second, 20 * time.Second, time.Minute} {
		prev := -1.0
		for acc := 0.0; acc <= 1.0; acc += 0.1 {
			s := Score(acc, taken, expected)
			if s < prev {
				t.Errorf("Score decreased with accuracy at taken=%s: %f < %f", taken, s, prev)
			}
			prev = s
		}
	}
}

func TestScore_MonotonicInSpeed(t *testing.T) {
	expected := 10 * time.Second
	for _, acc := range []float64{0, 0.33, 0.5, 0.9, 1} {
		prev := -1.0
		// Walk from slow to fast: the score must never drop.
		for ms := 40000; ms >= 100; ms -= 500 {
			s := Score(acc, time.Duration(ms)*time.Millisecond, expected)
			if s < prev {
				t.Errorf("Score decreased as time improved at acc=%f, %dms: %f < %f", acc, ms, s, prev)
			}
			prev = s
		}
	}
}

func TestTimeScore_ZeroExpectedIsNeutral(t *testing.T) {
	if got := TimeScore(time.Second, 0); !almostEqual(got, Neutral) {
		t.Errorf("TimeScore with zero expected = %f, want %f", got, Neutral)
	}
}
