package rocketdan

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

const (
	defaultThrustLo   = 10.0   // N, lower end of the initial search bracket
	defaultThrustHi   = 1000.0 // N, upper end of the initial search bracket
	bracketExpansions = 10     // doublings of the upper end before giving up
)

// Tolerances gathers every numerical tolerance of a design run. Passing them
// explicitly keeps every solver call reproducible.
type Tolerances struct {
	AltitudeEps      float64 // m, apogee match tolerance
	IntegratorAbsTol float64
	IntegratorRelTol float64
	BurnTimeEps      float64 // s, grain sizing burn-duration tolerance
}

// DefaultTolerances returns the stock tolerances.
func DefaultTolerances() Tolerances {
	return Tolerances{
		AltitudeEps:      1.0,
		IntegratorAbsTol: 1e-6,
		IntegratorRelTol: 1e-6,
		BurnTimeEps:      0.02,
	}
}

// IterationLimits bounds every iterative search of a design run.
type IterationLimits struct {
	OptimizerMaxIter   int
	GrainSolverMaxIter int
}

// DefaultIterationLimits returns the stock iteration budgets.
func DefaultIterationLimits() IterationLimits {
	return IterationLimits{OptimizerMaxIter: 50, GrainSolverMaxIter: 60}
}

// DesignConfig is the complete input record of one design attempt.
type DesignConfig struct {
	TargetAltitude float64 // m above the launch site
	Rocket         RocketSpec
	Motor          MotorSpec
	Grain          GrainGeometry // chamber envelope and segment count; core/outer/length are solved
	Tol            Tolerances
	Limits         IterationLimits
}

// Validate checks the whole record; no integration is attempted on failure.
func (c DesignConfig) Validate() error {
	if c.TargetAltitude <= 0 {
		return InvalidInputError{"target_altitude", c.TargetAltitude, "must be positive"}
	}
	if err := c.Rocket.Validate(); err != nil {
		return err
	}
	if err := c.Motor.Validate(); err != nil {
		return err
	}
	if err := c.Grain.Validate(); err != nil {
		return err
	}
	if c.Limits.OptimizerMaxIter <= 0 {
		return InvalidInputError{"limits.optimizer_max_iter", float64(c.Limits.OptimizerMaxIter), "must be positive"}
	}
	if c.Limits.GrainSolverMaxIter <= 0 {
		return InvalidInputError{"limits.grain_solver_max_iter", float64(c.Limits.GrainSolverMaxIter), "must be positive"}
	}
	return nil
}

// DesignResult aggregates everything of a converged design. It is created
// once, at optimizer convergence, and read-only afterward.
type DesignResult struct {
	Rocket RocketSpec
	Motor  MotorSpec
	Grain  GrainGeometry
	Nozzle NozzleDesign
	Burn   BurnProfile

	AvgThrust  float64 // N, the accepted search variable
	Iterations int     // optimizer iterations spent

	// Trajectory is the accepted constant-thrust run the optimizer converged
	// on; ProfileTrajectory replays the flight under the ballistics-derived
	// thrust curve.
	Trajectory        TrajectoryResult
	ProfileTrajectory TrajectoryResult
}

// Designer runs the outer thrust search and materializes the final design.
type Designer struct {
	cfg    DesignConfig
	logger kitlog.Logger
}

// NewDesigner returns a designer for the given configuration. A nil logger
// silences the run.
func NewDesigner(cfg DesignConfig, logger kitlog.Logger) *Designer {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Designer{cfg: cfg, logger: kitlog.With(logger, "subsys", "optimizer")}
}

// apogeeFor runs one constant-thrust integration. Each call owns a fresh
// FlightSim, so repeated evaluations share no state.
func (d *Designer) apogeeFor(thrust float64) (float64, TrajectoryResult, error) {
	curve := ConstantThrust{
		Force:          thrust,
		Duration:       d.cfg.Motor.BurnTime,
		PropellantMass: d.cfg.Rocket.PropellantMass,
	}
	sim := NewFlightSim(d.cfg.Rocket, curve, nil)
	sim.AbsTol = d.cfg.Tol.IntegratorAbsTol
	sim.RelTol = d.cfg.Tol.IntegratorRelTol
	traj, err := sim.Run()
	if err != nil {
		return 0, TrajectoryResult{}, err
	}
	return traj.Apogee, traj, nil
}

// SolveThrust finds the constant average thrust whose apogee matches the
// target, by bracketed bisection. The bracket is validated before the search:
// apogee must increase from the lower to the upper end and the target must
// lie between them, otherwise the design is infeasible.
func (d *Designer) SolveThrust() (float64, TrajectoryResult, int, error) {
	target := d.cfg.TargetAltitude
	lo, hi := defaultThrustLo, defaultThrustHi

	apoLo, _, err := d.apogeeFor(lo)
	if err != nil {
		return 0, TrajectoryResult{}, 0, err
	}
	apoHi, _, err := d.apogeeFor(hi)
	if err != nil {
		return 0, TrajectoryResult{}, 0, err
	}
	for n := 0; apoHi < target && n < bracketExpansions; n++ {
		hi *= 2
		if apoHi, _, err = d.apogeeFor(hi); err != nil {
			return 0, TrajectoryResult{}, 0, err
		}
	}
	// Monotonicity is physical for a drag/gravity-dominated ascent but is
	// checked, not assumed: a non-increasing bracket means no root can be
	// trusted.
	if apoHi <= apoLo || target <= apoLo || target > apoHi {
		return 0, TrajectoryResult{}, 0, InfeasibleDesignError{
			Target: target, ThrustLo: lo, ThrustHi: hi, ApogeeLo: apoLo, ApogeeHi: apoHi,
		}
	}

	var (
		best     float64
		bestTraj TrajectoryResult
		bestMiss = math.Inf(1)
	)
	for i := 1; i <= d.cfg.Limits.OptimizerMaxIter; i++ {
		mid := (lo + hi) / 2
		apo, traj, err := d.apogeeFor(mid)
		if err != nil {
			return 0, TrajectoryResult{}, i, err
		}
		if miss := math.Abs(apo - target); miss < bestMiss {
			best, bestTraj, bestMiss = mid, traj, miss
		}
		d.logger.Log("level", "debug", "iter", i, "thrust(N)", mid, "apogee(m)", apo)
		if math.Abs(apo-target) < d.cfg.Tol.AltitudeEps {
			return mid, traj, i, nil
		}
		if apo < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return best, bestTraj, d.cfg.Limits.OptimizerMaxIter, NonConvergenceError{
		Op:         "thrust search",
		Iterations: d.cfg.Limits.OptimizerMaxIter,
		Best:       best,
		Miss:       bestMiss,
	}
}

// Design runs the full inverse-design pipeline: thrust search, nozzle
// sizing, grain sizing, then the trajectory prediction under the
// ballistics-derived thrust curve.
func (d *Designer) Design() (*DesignResult, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}
	thrust, traj, iters, err := d.SolveThrust()
	if err != nil {
		return nil, err
	}
	d.logger.Log("level", "info", "status", "thrust found", "thrust(N)", thrust,
		"apogee(m)", traj.Apogee, "iterations", iters)

	ambient := AtmosphereAt(d.cfg.Rocket.LaunchAltitude).Pressure
	nozzle, err := SizeNozzle(thrust, ambient, d.cfg.Motor)
	if err != nil {
		return nil, err
	}
	grain, burn, err := SizeGrain(d.cfg.Motor, nozzle, d.cfg.Rocket.PropellantMass,
		d.cfg.Grain, d.cfg.Tol.BurnTimeEps, d.cfg.Limits.GrainSolverMaxIter, d.logger)
	if err != nil {
		return nil, err
	}

	profileSim := NewFlightSim(d.cfg.Rocket, NewProfileThrust(burn, d.cfg.Motor, nozzle), nil)
	profileSim.AbsTol = d.cfg.Tol.IntegratorAbsTol
	profileSim.RelTol = d.cfg.Tol.IntegratorRelTol
	profileTraj, err := profileSim.Run()
	if err != nil {
		return nil, err
	}
	d.logger.Log("level", "info", "status", "converged", "avg thrust(N)", thrust,
		"apogee(m)", traj.Apogee, "profile apogee(m)", profileTraj.Apogee,
		"burn(s)", burn.Duration, "throat(mm)", nozzle.ThroatDiameter*1e3)

	return &DesignResult{
		Rocket:            d.cfg.Rocket,
		Motor:             d.cfg.Motor,
		Grain:             grain,
		Nozzle:            nozzle,
		Burn:              burn,
		AvgThrust:         thrust,
		Iterations:        iters,
		Trajectory:        traj,
		ProfileTrajectory: profileTraj,
	}, nil
}
