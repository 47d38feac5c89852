package rocketdan

import (
	"errors"
	"math"

	kitlog "github.com/go-kit/kit/log"
)

const (
	minPortRatio     = 2.0 // A_port/A_t floor for a BATES stack
	erosivePortRatio = 3.0 // raised floor when L/D > 6
	erosiveLOverD    = 6.0
)

// BurnSample is one quasi-steady step of the internal ballistics simulation.
type BurnSample struct {
	Time            float64 // s
	ChamberPressure float64 // Pa
	Thrust          float64 // N
	BurnArea        float64 // m^2
	CoreDiameter    float64 // m
}

// BurnProfile is the time-resolved burn picture of a grain/nozzle pairing.
// Immutable once produced.
type BurnProfile struct {
	Samples            []BurnSample
	Duration           float64 // s, time at web burnout
	AvgPressure        float64 // Pa, time average
	PeakPressure       float64 // Pa
	AvgThrust          float64 // N
	TotalImpulse       float64 // N·s
	PropellantConsumed float64 // kg, integrated generation
}

// solveChamberPressure solves the quasi-steady mass balance
// rho_p·Ab·r(Pc) = Cd·Pc·At/c* for Pc. Pc appears on both sides through the
// burn-rate law, so the root is found by bisection; with 0 < n < 1 the
// balance has exactly one positive root. A root above the MEOP ceiling is an
// over-pressure failure, never clamped.
func solveChamberPressure(burnArea, t float64, m MotorSpec, throatArea float64) (float64, error) {
	balance := func(pc float64) float64 {
		return m.Density*burnArea*m.BurnRate(pc) - m.DischargeCoef*pc*throatArea/m.CStar
	}
	lo, hi := 1.0, m.MaxPressure
	if balance(lo) <= 0 {
		return 0, InvalidGeometryError{"burn area (chamber pressure collapses)", burnArea}
	}
	if balance(hi) > 0 {
		return 0, OverPressureError{Pressure: hi, Ceiling: m.MaxPressure, Time: t}
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if balance(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
		if (hi-lo)/hi < 1e-12 {
			break
		}
	}
	return (lo + hi) / 2, nil
}

// BurnSim marches a BATES grain through its burn: at every step the chamber
// pressure is solved from the mass balance, then the core and the segment
// end faces regress at the burn rate.
type BurnSim struct {
	Motor  MotorSpec
	Grain  GrainGeometry
	Nozzle NozzleDesign
	Step   float64 // s, quasi-steady march step

	logger kitlog.Logger
}

// NewBurnSim returns a burn simulation with a march step resolving the
// design burn time into ~2000 steps. A nil logger silences the run.
func NewBurnSim(m MotorSpec, g GrainGeometry, n NozzleDesign, logger kitlog.Logger) *BurnSim {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	step := m.BurnTime / 2000
	if step > 5e-3 {
		step = 5e-3
	} else if step < 1e-4 {
		step = 1e-4
	}
	return &BurnSim{Motor: m, Grain: g, Nozzle: n, Step: step, logger: kitlog.With(logger, "subsys", "ballistics")}
}

// Run simulates the burn until web burnout (core diameter reaches the outer
// diameter) or segment length exhaustion.
func (b *BurnSim) Run() (BurnProfile, error) {
	if err := b.Grain.Validate(); err != nil {
		return BurnProfile{}, err
	}
	g := b.Grain
	segs := float64(g.Segments)

	var p BurnProfile
	var pressInt float64
	t := 0.0
	maxSteps := int(20*b.Motor.BurnTime/b.Step) + 1000

	for step := 0; g.Web() > 0 && g.Length > 0; step++ {
		if step > maxSteps {
			return BurnProfile{}, NonConvergenceError{Op: "burn simulation", Iterations: step, Best: t, Miss: g.Web()}
		}
		burnArea := g.BurnArea()
		pc, err := solveChamberPressure(burnArea, t, b.Motor, b.Nozzle.ThroatArea)
		if err != nil {
			return BurnProfile{}, err
		}
		rate := b.Motor.BurnRate(pc)
		thrust := pc * b.Nozzle.ThroatArea * b.Nozzle.ThrustCoef * b.Motor.NozzleEfficiency

		p.Samples = append(p.Samples, BurnSample{Time: t, ChamberPressure: pc, Thrust: thrust, BurnArea: burnArea, CoreDiameter: g.CoreDiameter})
		if pc > p.PeakPressure {
			p.PeakPressure = pc
		}
		dt := b.Step
		pressInt += pc * dt
		p.TotalImpulse += thrust * dt
		p.PropellantConsumed += b.Motor.Density * burnArea * rate * dt

		// BATES regression: the bore grows and both end faces of every
		// segment recede at the burn rate.
		g.CoreDiameter += 2 * rate * dt
		g.Length -= 2 * segs * rate * dt
		t += dt
	}
	p.Duration = t
	if t > 0 {
		p.AvgPressure = pressInt / t
		p.AvgThrust = p.TotalImpulse / t
	}
	b.logger.Log("level", "debug", "status", "burnout", "t(s)", t, "Pc.avg(Pa)", p.AvgPressure,
		"Pc.peak(Pa)", p.PeakPressure, "impulse(N·s)", p.TotalImpulse)
	return p, nil
}

// SizeGrain inverts the ballistics relations: given the sized nozzle, the
// propellant mass and the chamber envelope (seed carries chamber diameter,
// liner thickness and segment count), it finds the BATES geometry whose burn
// duration matches the motor's design burn time.
//
// The outer diameter comes from the chamber minus the liner. The core
// diameter floor enforces the port-ratio rule (raised when L/D > 6, the
// erosive-burning correction); the length follows from mass conservation at
// every candidate. Burn duration decreases monotonically with core diameter
// (a thinner web and a larger initial surface), so the inner loop is a
// bisection on the core diameter.
func SizeGrain(m MotorSpec, nozzle NozzleDesign, propellantMass float64, seed GrainGeometry, burnTimeEps float64, maxIter int, logger kitlog.Logger) (GrainGeometry, BurnProfile, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	logger = kitlog.With(logger, "subsys", "grain")
	if err := seed.Validate(); err != nil {
		return GrainGeometry{}, BurnProfile{}, err
	}
	if propellantMass <= 0 {
		return GrainGeometry{}, BurnProfile{}, InvalidInputError{"propellant_mass", propellantMass, "must be positive"}
	}

	outer := seed.ChamberDiameter - 2*seed.LinerThickness
	if outer <= 0 {
		return GrainGeometry{}, BurnProfile{}, InvalidGeometryError{"grain outer diameter (liner exceeds chamber)", outer}
	}

	lengthFor := func(core float64) float64 {
		cross := math.Pi / 4 * (outer*outer - core*core)
		return propellantMass / (m.Density * cross)
	}
	geomFor := func(core float64) GrainGeometry {
		return GrainGeometry{
			CoreDiameter:    core,
			OuterDiameter:   outer,
			Length:          lengthFor(core),
			Segments:        seed.Segments,
			ChamberDiameter: seed.ChamberDiameter,
			LinerThickness:  seed.LinerThickness,
		}
	}

	coreFloor := math.Sqrt(4 * minPortRatio * nozzle.ThroatArea / math.Pi)
	if coreFloor >= outer {
		return GrainGeometry{}, BurnProfile{}, InvalidGeometryError{"grain core diameter (throat too large for the chamber)", coreFloor}
	}
	if geomFor(coreFloor).LOverD() > erosiveLOverD {
		coreFloor = math.Sqrt(4 * erosivePortRatio * nozzle.ThroatArea / math.Pi)
		if coreFloor >= outer {
			return GrainGeometry{}, BurnProfile{}, InvalidGeometryError{"grain core diameter (erosive correction exceeds chamber)", coreFloor}
		}
	}

	// Over-pressure at an interior candidate means the burn area
	// is too large, which only short candidates produce; steer the bisection
	// away instead of failing the whole design. The failure is kept so that a
	// bracket where an endpoint itself over-pressures surfaces as what it is.
	evaluate := func(core float64) (float64, BurnProfile, *OverPressureError, error) {
		profile, err := NewBurnSim(m, geomFor(core), nozzle, nil).Run()
		if err != nil {
			var op OverPressureError
			if errors.As(err, &op) {
				return 0, BurnProfile{}, &op, nil
			}
			return 0, BurnProfile{}, nil, err
		}
		return profile.Duration, profile, nil, nil
	}

	lo, hi := coreFloor, 0.95*outer
	durLo, profLo, opLo, err := evaluate(lo)
	if err != nil {
		return GrainGeometry{}, BurnProfile{}, err
	}
	durHi, _, _, err := evaluate(hi)
	if err != nil {
		return GrainGeometry{}, BurnProfile{}, err
	}
	if m.BurnTime > durLo || m.BurnTime < durHi {
		// Burn area grows with the core (bore and, through mass
		// conservation, length): the lo endpoint is the least
		// over-pressure-prone candidate, so its failure condemns the
		// whole range.
		if opLo != nil {
			return GrainGeometry{}, BurnProfile{}, *opLo
		}
		return geomFor(lo), profLo, NonConvergenceError{Op: "grain sizing", Iterations: 0, Best: durLo, Miss: durLo - m.BurnTime}
	}

	bestCore, bestMiss := lo, math.Abs(durLo-m.BurnTime)
	bestProfile := profLo
	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		dur, profile, _, err := evaluate(mid)
		if err != nil {
			return GrainGeometry{}, BurnProfile{}, err
		}
		if miss := math.Abs(dur - m.BurnTime); dur > 0 && miss < bestMiss {
			bestCore, bestMiss, bestProfile = mid, miss, profile
		}
		if math.Abs(dur-m.BurnTime) <= burnTimeEps {
			final := geomFor(mid)
			if err := checkChamberFit(m, final); err != nil {
				return GrainGeometry{}, BurnProfile{}, err
			}
			logger.Log("level", "info", "status", "sized", "core(mm)", mid*1e3, "outer(mm)", outer*1e3,
				"length(mm)", final.Length*1e3, "L/D", final.LOverD(), "burn(s)", dur)
			return final, profile, nil
		}
		if dur > m.BurnTime {
			lo = mid
		} else {
			hi = mid
		}
	}
	return geomFor(bestCore), bestProfile, NonConvergenceError{Op: "grain sizing", Iterations: maxIter, Best: bestProfile.Duration, Miss: bestMiss}
}

// checkChamberFit verifies the grain envelope against the chamber volume
// when one is specified.
func checkChamberFit(m MotorSpec, g GrainGeometry) error {
	if m.ChamberVolume <= 0 {
		return nil
	}
	envelope := math.Pi / 4 * g.OuterDiameter * g.OuterDiameter * g.Length
	if envelope > m.ChamberVolume {
		return InvalidGeometryError{"grain envelope volume (exceeds chamber)", envelope}
	}
	return nil
}
