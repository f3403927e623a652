package core

import "math/bits"

// MachineEpsilon is half the spacing of float64 values around 1, the bound on
// relative rounding error of a single IEEE operation.
const MachineEpsilon = 0x1p-53

// Gamma returns the conservative bound on accumulated relative error after n
// floating-point operations: n*eps / (1 - n*eps).
func Gamma(n int) float64 {
	return float64(n) * MachineEpsilon / (1 - float64(n)*MachineEpsilon)
}

// slabPadding widens the far slab distance so rounding in the three
// subtractions and multiplications cannot reject a true hit.
var slabPadding = 1 + 2*Gamma(3)

// Log2Int returns floor(log2(v)) for v > 0 and 0 otherwise.
func Log2Int(v int64) int {
	if v <= 0 {
		return 0
	}
	return 63 - bits.LeadingZeros64(uint64(v))
}
