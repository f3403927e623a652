package core

import "testing"

func TestGamma(t *testing.T) {
	if Gamma(0) != 0 {
		t.Errorf("Expected Gamma(0) = 0, got %v", Gamma(0))
	}
	g3 := Gamma(3)
	if g3 <= 3*MachineEpsilon || g3 > 3.0000001*MachineEpsilon {
		t.Errorf("Expected Gamma(3) just above 3 eps, got %v", g3)
	}
	if Gamma(5) <= g3 {
		t.Errorf("Expected Gamma to grow with n")
	}
}

func TestLog2Int(t *testing.T) {
	tests := []struct {
		v        int64
		expected int
	}{
		{-4, 0},
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{1000, 9},
		{1024, 10},
		{1 << 40, 40},
	}

	for _, tt := range tests {
		if got := Log2Int(tt.v); got != tt.expected {
			t.Errorf("Log2Int(%d): expected %d, got %d", tt.v, tt.expected, got)
		}
	}
}
