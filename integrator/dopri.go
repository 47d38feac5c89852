package integrator

import (
	"fmt"
	"math"
)

// Dormand-Prince 5(4) embedded pair. The seventh stage is the FSAL stage of
// the fifth-order solution, so the error weights below are b5 - b4.
var (
	dpC = [7]float64{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}
	dpB = [7]float64{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84, 0}
	dpE = [7]float64{
		35./384 - 5179./57600,
		0,
		500./1113 - 7571./16695,
		125./192 - 393./640,
		-2187./6784 + 92097./339200,
		11./84 - 187./2100,
		-1. / 40,
	}
)

// StepError is returned when the adaptive stepper cannot satisfy the requested
// tolerance within the allowed number of consecutive step rejections, or when
// the step size underflows MinStep.
type StepError struct {
	X, Step    float64
	Rejections int
}

func (e StepError) Error() string {
	return fmt.Sprintf("integrator: tolerance not met at x=%g (step=%g after %d rejections)", e.X, e.Step, e.Rejections)
}

// DoPri54 defines an adaptive Dormand-Prince 5(4) integrator.
type DoPri54 struct {
	X0         float64    // The initial x0.
	InitStep   float64    // The initial step size.
	MinStep    float64    // Smallest step allowed before declaring failure.
	MaxStep    float64    // Largest step allowed (also bounds output resolution).
	AbsTol     float64    // Absolute local error tolerance.
	RelTol     float64    // Relative local error tolerance.
	MaxRejects int        // Consecutive rejected attempts allowed per step.
	MaxSteps   uint64     // Hard cap on accepted steps.
	Integrator Integrable // What is to be integrated.
}

// NewDoPri54 returns a new DoPri54 integrator instance with the default
// tolerances and step bounds.
func NewDoPri54(x0 float64, inte Integrable) (r *DoPri54) {
	if inte == nil {
		panic("config Integrator may not be nil")
	}
	return &DoPri54{
		X0:         x0,
		InitStep:   1e-2,
		MinStep:    1e-10,
		MaxStep:    0.1,
		AbsTol:     1e-6,
		RelTol:     1e-6,
		MaxRejects: 50,
		MaxSteps:   10000000,
		Integrator: inte,
	}
}

// Solve integrates until the Integrable requests a stop.
// Returns the number of accepted steps and the last X_i, or an error.
func (r *DoPri54) Solve() (uint64, float64, error) {
	if r.InitStep <= 0 || r.MinStep <= 0 || r.MaxStep < r.MinStep {
		panic("config step bounds must be positive with MinStep <= MaxStep")
	}
	xi := r.X0
	h := math.Min(r.InitStep, r.MaxStep)
	var accepted uint64
	rejects := 0
	k := make([][]float64, 7)

	for !r.Integrator.Stop(xi) {
		if accepted >= r.MaxSteps {
			return accepted, xi, StepError{X: xi, Step: h, Rejections: rejects}
		}
		state := r.Integrator.GetState()
		n := len(state)
		tState := make([]float64, n)

		for s := 0; s < 7; s++ {
			for i := 0; i < n; i++ {
				tState[i] = state[i]
				for j := 0; j < s; j++ {
					tState[i] += h * dpA[s][j] * k[j][i]
				}
			}
			k[s] = r.Integrator.Func(xi+dpC[s]*h, tState)
		}

		newState := make([]float64, n)
		errNorm := 0.0
		for i := 0; i < n; i++ {
			newState[i] = state[i]
			errEst := 0.0
			for s := 0; s < 7; s++ {
				newState[i] += h * dpB[s] * k[s][i]
				errEst += h * dpE[s] * k[s][i]
			}
			scale := r.AbsTol + r.RelTol*math.Max(math.Abs(state[i]), math.Abs(newState[i]))
			errNorm += (errEst / scale) * (errEst / scale)
		}
		errNorm = math.Sqrt(errNorm / float64(n))

		if errNorm <= 1 || h <= r.MinStep {
			if errNorm > 1 {
				// MinStep reached without meeting tolerance.
				return accepted, xi, StepError{X: xi, Step: h, Rejections: rejects}
			}
			xi += h
			r.Integrator.SetState(xi, newState)
			accepted++
			rejects = 0
		} else {
			rejects++
			if rejects > r.MaxRejects {
				return accepted, xi, StepError{X: xi, Step: h, Rejections: rejects}
			}
		}

		// Standard fifth-order controller with growth/shrink clamps.
		factor := 5.0
		if errNorm > 0 {
			factor = 0.9 * math.Pow(errNorm, -0.2)
			if factor > 5 {
				factor = 5
			} else if factor < 0.2 {
				factor = 0.2
			}
		}
		h *= factor
		if h > r.MaxStep {
			h = r.MaxStep
		} else if h < r.MinStep {
			h = r.MinStep
		}
	}

	return accepted, xi, nil
}
