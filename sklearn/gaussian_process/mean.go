package gaussian_process

import "fmt"

// ConstantMean is a mean function that returns one learned scalar for every
// input. It is the standard prior mean for GP regression on normalized data.
type ConstantMean struct {
	Constant float64
}

// NewConstantMean creates a constant mean initialized at zero.
func NewConstantMean() *ConstantMean {
	return &ConstantMean{}
}

// Mean returns the prior mean at x.
func (m *ConstantMean) Mean(x []float64) float64 {
	return m.Constant
}

// String returns a representation of the mean function.
func (m *ConstantMean) String() string {
	return fmt.Sprintf("ConstantMean(%.4g)", m.Constant)
}
