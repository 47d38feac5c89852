package integrator

import (
	"errors"
	"math"
	"testing"
)

// decay integrates y' = -y from y(0)=1 up to x=5, whose solution is exp(-x).
type decay struct {
	x, y float64
}

func (d *decay) GetState() []float64 {
	return []float64{d.y}
}

func (d *decay) SetState(t float64, s []float64) {
	d.x = t
	d.y = s[0]
}

func (d *decay) Stop(t float64) bool {
	return t >= 5
}

func (d *decay) Func(t float64, s []float64) []float64 {
	return []float64{-s[0]}
}

func TestDoPri54Decay(t *testing.T) {
	d := &decay{y: 1}
	dp := NewDoPri54(0, d)
	steps, xEnd, err := dp.Solve()
	if err != nil {
		t.Fatalf("integration failed: %s", err)
	}
	if steps == 0 {
		t.Fatal("no steps accepted")
	}
	if xEnd < 5 {
		t.Fatalf("stopped early at x=%f", xEnd)
	}
	expected := math.Exp(-d.x)
	if math.Abs(d.y-expected) > 1e-5 {
		t.Fatalf("y(%f)=%e but expected %e", d.x, d.y, expected)
	}
}

func TestDoPri54AdaptsStep(t *testing.T) {
	d := &decay{y: 1}
	dp := NewDoPri54(0, d)
	dp.MaxStep = 5
	dp.InitStep = 1e-6
	steps, _, err := dp.Solve()
	if err != nil {
		t.Fatalf("integration failed: %s", err)
	}
	// A controller stuck at the initial step would need 5e6 steps.
	if steps > 1000 {
		t.Fatalf("step size did not grow, needed %d steps", steps)
	}
}

func TestDoPri54ToleranceFailure(t *testing.T) {
	d := &decay{y: 1}
	dp := NewDoPri54(0, d)
	dp.AbsTol = 1e-16
	dp.RelTol = 1e-16
	dp.MinStep = 1
	dp.MaxStep = 1
	dp.InitStep = 1
	_, _, err := dp.Solve()
	if err == nil {
		t.Fatal("expected a tolerance failure")
	}
	var stepErr StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
}
