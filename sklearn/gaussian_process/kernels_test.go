package gaussian_process

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewRBF(t *testing.T) {
	tests := []struct {
		name        string
		lengthscale float64
		wantErr     bool
	}{
		{name: "unit lengthscale", lengthscale: 1.0, wantErr: false},
		{name: "small lengthscale", lengthscale: 0.01, wantErr: false},
		{name: "zero lengthscale", lengthscale: 0.0, wantErr: true},
		{name: "negative lengthscale", lengthscale: -1.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewRBF(tt.lengthscale)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRBF() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(k.Lengthscale()-tt.lengthscale) > 1e-12 {
				t.Errorf("Lengthscale() = %v, want %v", k.Lengthscale(), tt.lengthscale)
			}
		})
	}
}

func TestRBFEval(t *testing.T) {
	tests := []struct {
		name        string
		lengthscale float64
		x           []float64
		z           []float64
		want        float64
		tolerance   float64
	}{
		{
			name:        "same point",
			lengthscale: 1.0,
			x:           []float64{1.0, 2.0},
			z:           []float64{1.0, 2.0},
			want:        1.0,
			tolerance:   1e-12,
		},
		{
			name:        "unit distance",
			lengthscale: 1.0,
			x:           []float64{0.0},
			z:           []float64{1.0},
			want:        math.Exp(-0.5),
			tolerance:   1e-12,
		},
		{
			name:        "lengthscale rescales distance",
			lengthscale: 2.0,
			x:           []float64{0.0},
			z:           []float64{2.0},
			want:        math.Exp(-0.5),
			tolerance:   1e-12,
		},
		{
			name:        "distant points decay toward zero",
			lengthscale: 0.1,
			x:           []float64{0.0},
			z:           []float64{10.0},
			want:        0.0,
			tolerance:   1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewRBF(tt.lengthscale)
			if err != nil {
				t.Fatalf("NewRBF() error = %v", err)
			}
			got := k.Eval(tt.x, tt.z)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Eval() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestRBFThetaRoundTrip(t *testing.T) {
	k, err := NewRBF(3.0)
	if err != nil {
		t.Fatalf("NewRBF() error = %v", err)
	}

	theta := k.Theta()
	if len(theta) != k.NumParams() {
		t.Fatalf("len(Theta()) = %d, want %d", len(theta), k.NumParams())
	}

	other, _ := NewRBF(1.0)
	if err := other.SetTheta(theta); err != nil {
		t.Fatalf("SetTheta() error = %v", err)
	}
	if math.Abs(other.Lengthscale()-3.0) > 1e-12 {
		t.Errorf("Lengthscale() after SetTheta = %v, want 3.0", other.Lengthscale())
	}

	if err := other.SetTheta([]float64{0.0, 1.0}); err == nil {
		t.Error("SetTheta() with wrong length should return an error")
	}
}

func TestRBFCloneIndependence(t *testing.T) {
	k, _ := NewRBF(1.0)
	clone := k.Clone()

	if err := clone.SetTheta([]float64{math.Log(5.0)}); err != nil {
		t.Fatalf("SetTheta() error = %v", err)
	}

	if math.Abs(k.Lengthscale()-1.0) > 1e-12 {
		t.Errorf("mutating clone changed original lengthscale: %v", k.Lengthscale())
	}
}

func TestScaleKernel(t *testing.T) {
	base, _ := NewRBF(1.0)
	k := NewScaleKernel(base)

	// Initial output scale is 1, so the scaled kernel matches the base.
	x := []float64{0.0}
	z := []float64{1.0}
	if math.Abs(k.Eval(x, z)-base.Eval(x, z)) > 1e-12 {
		t.Errorf("ScaleKernel with unit scale: Eval = %v, want %v", k.Eval(x, z), base.Eval(x, z))
	}

	if k.NumParams() != base.NumParams()+1 {
		t.Errorf("NumParams() = %d, want %d", k.NumParams(), base.NumParams()+1)
	}

	// Setting the output scale multiplies the base kernel.
	theta := k.Theta()
	theta[len(theta)-1] = math.Log(4.0)
	if err := k.SetTheta(theta); err != nil {
		t.Fatalf("SetTheta() error = %v", err)
	}
	want := 4.0 * base.Eval(x, z)
	if math.Abs(k.Eval(x, z)-want) > 1e-12 {
		t.Errorf("scaled Eval = %v, want %v", k.Eval(x, z), want)
	}

	clone := k.Clone()
	if err := clone.SetTheta([]float64{0.0, 0.0}); err != nil {
		t.Fatalf("SetTheta() on clone error = %v", err)
	}
	if math.Abs(k.OutputScale()-4.0) > 1e-12 {
		t.Errorf("mutating clone changed original output scale: %v", k.OutputScale())
	}
}

func TestKernelMatrixSym(t *testing.T) {
	k, _ := NewRBF(1.0)
	X := mat.NewDense(3, 1, []float64{0.0, 1.0, 2.0})

	K := KernelMatrixSym(k, X)

	r, c := K.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("Dims() = (%d, %d), want (3, 3)", r, c)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(K.At(i, i)-1.0) > 1e-12 {
			t.Errorf("diagonal K[%d][%d] = %v, want 1.0", i, i, K.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if math.Abs(K.At(i, j)-K.At(j, i)) > 1e-12 {
				t.Errorf("K not symmetric at (%d, %d)", i, j)
			}
		}
	}
	if math.Abs(K.At(0, 1)-math.Exp(-0.5)) > 1e-12 {
		t.Errorf("K[0][1] = %v, want %v", K.At(0, 1), math.Exp(-0.5))
	}
}

func TestCrossKernelMatrix(t *testing.T) {
	k, _ := NewRBF(1.0)
	X := mat.NewDense(2, 1, []float64{0.0, 1.0})
	Z := mat.NewDense(3, 1, []float64{0.0, 1.0, 2.0})

	K := CrossKernelMatrix(k, X, Z)

	r, c := K.Dims()
	if r != 2 || c != 3 {
		t.Fatalf("Dims() = (%d, %d), want (2, 3)", r, c)
	}
	if math.Abs(K.At(0, 0)-1.0) > 1e-12 {
		t.Errorf("K[0][0] = %v, want 1.0", K.At(0, 0))
	}
	if math.Abs(K.At(1, 2)-math.Exp(-0.5)) > 1e-12 {
		t.Errorf("K[1][2] = %v, want %v", K.At(1, 2), math.Exp(-0.5))
	}
}

func TestKernelDiag(t *testing.T) {
	base, _ := NewRBF(1.0)
	k := NewScaleKernel(base)
	theta := k.Theta()
	theta[len(theta)-1] = math.Log(2.5)
	if err := k.SetTheta(theta); err != nil {
		t.Fatalf("SetTheta() error = %v", err)
	}

	X := mat.NewDense(4, 2, []float64{
		0.0, 0.0,
		1.0, -1.0,
		2.0, 3.0,
		-4.0, 5.0,
	})
	diag := KernelDiag(k, X)

	if len(diag) != 4 {
		t.Fatalf("len(KernelDiag()) = %d, want 4", len(diag))
	}
	for i, v := range diag {
		if math.Abs(v-2.5) > 1e-12 {
			t.Errorf("diag[%d] = %v, want 2.5", i, v)
		}
	}
}
