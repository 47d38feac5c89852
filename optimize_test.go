package rocketdan

import (
	"errors"
	"math"
	"testing"
)

func TestSolveThrustRecoversKnownApogee(t *testing.T) {
	// Fly a known thrust, then ask the optimizer to find it back from the
	// apogee alone.
	const known = 60.0
	cfg := testConfig()
	curve := ConstantThrust{Force: known, Duration: cfg.Motor.BurnTime, PropellantMass: cfg.Rocket.PropellantMass}
	ref, err := NewFlightSim(cfg.Rocket, curve, nil).Run()
	if err != nil {
		t.Fatalf("reference flight failed: %s", err)
	}
	cfg.TargetAltitude = ref.Apogee

	thrust, traj, iters, err := NewDesigner(cfg, nil).SolveThrust()
	if err != nil {
		t.Fatalf("thrust search failed: %s", err)
	}
	if math.Abs(traj.Apogee-ref.Apogee) >= cfg.Tol.AltitudeEps {
		t.Fatalf("apogee %f m misses the %f m target beyond the tolerance", traj.Apogee, ref.Apogee)
	}
	if math.Abs(thrust-known) > 2 {
		t.Fatalf("recovered thrust %f N far from the flown %f N", thrust, known)
	}
	if iters <= 0 || iters > cfg.Limits.OptimizerMaxIter {
		t.Fatalf("iteration count %d outside the budget", iters)
	}
}

func TestDesignRejectsBadInput(t *testing.T) {
	cfg := testConfig()
	cfg.TargetAltitude = -5
	var invalid InvalidInputError
	if _, err := NewDesigner(cfg, nil).Design(); !errors.As(err, &invalid) {
		t.Fatalf("negative target accepted: %v", err)
	}

	cfg = testConfig()
	cfg.Rocket.PropellantMass = 0
	if _, err := NewDesigner(cfg, nil).Design(); !errors.As(err, &invalid) {
		t.Fatalf("zero propellant accepted: %v", err)
	}
}

func TestSolveThrustInfeasibleTarget(t *testing.T) {
	cfg := testConfig()
	cfg.TargetAltitude = 1e7
	_, _, _, err := NewDesigner(cfg, nil).SolveThrust()
	var infeasible InfeasibleDesignError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected an infeasibility failure, got %v", err)
	}
	if infeasible.ApogeeHi >= cfg.TargetAltitude {
		t.Fatalf("bracket claims to reach the target: %+v", infeasible)
	}
}

func TestSolveThrustReportsNonConvergence(t *testing.T) {
	cfg := testConfig()
	cfg.Tol.AltitudeEps = 1e-12
	cfg.Limits.OptimizerMaxIter = 2
	_, _, _, err := NewDesigner(cfg, nil).SolveThrust()
	var nc NonConvergenceError
	if !errors.As(err, &nc) {
		t.Fatalf("expected a non-convergence failure, got %v", err)
	}
	if nc.Iterations != 2 || nc.Best <= 0 {
		t.Fatalf("non-convergence error carries wrong context: %+v", nc)
	}
}

func TestDesignFullPipeline(t *testing.T) {
	cfg := testConfig()
	res, err := NewDesigner(cfg, nil).Design()
	if err != nil {
		t.Fatalf("design failed: %s", err)
	}
	if math.Abs(res.Trajectory.Apogee-cfg.TargetAltitude) >= cfg.Tol.AltitudeEps {
		t.Fatalf("design apogee %f m misses the %f m target", res.Trajectory.Apogee, cfg.TargetAltitude)
	}
	if res.AvgThrust <= 0 {
		t.Fatalf("non-positive average thrust %f N", res.AvgThrust)
	}
	if res.Nozzle.ThroatArea <= 0 || res.Nozzle.ExitArea <= res.Nozzle.ThroatArea {
		t.Fatalf("degenerate nozzle: %+v", res.Nozzle)
	}
	if res.Grain.CoreDiameter >= res.Grain.OuterDiameter {
		t.Fatalf("degenerate grain: %+v", res.Grain)
	}
	if math.Abs(res.Burn.Duration-cfg.Motor.BurnTime) > cfg.Tol.BurnTimeEps {
		t.Fatalf("burn duration %f s misses the %f s design", res.Burn.Duration, cfg.Motor.BurnTime)
	}
	if res.ProfileTrajectory.Apogee <= 0 {
		t.Fatalf("profile replay never left the pad: apogee %f m", res.ProfileTrajectory.Apogee)
	}
	// The profile replay flies the real curve; it should land in the same
	// neighborhood as the constant-thrust approximation.
	if rel := math.Abs(res.ProfileTrajectory.Apogee-cfg.TargetAltitude) / cfg.TargetAltitude; rel > 0.25 {
		t.Fatalf("profile apogee %f m drifts %f%% from the target", res.ProfileTrajectory.Apogee, 100*rel)
	}
}
