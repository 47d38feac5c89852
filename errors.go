package rocketdan

import "fmt"

// InvalidInputError reports a supplied design constant outside its physical
// domain. No solver is invoked when validation fails.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s=%g (%s)", e.Field, e.Value, e.Reason)
}

// InfeasibleDesignError reports that no thrust within the search bracket
// reaches the target apogee, even after bracket expansion.
type InfeasibleDesignError struct {
	Target             float64
	ThrustLo, ThrustHi float64
	ApogeeLo, ApogeeHi float64
}

func (e InfeasibleDesignError) Error() string {
	return fmt.Sprintf("infeasible design: target apogee %.1f m not bracketed by thrust [%.1f, %.1f] N (apogees [%.1f, %.1f] m)",
		e.Target, e.ThrustLo, e.ThrustHi, e.ApogeeLo, e.ApogeeHi)
}

// NonConvergenceError reports an exhausted iteration budget. Best carries the
// best candidate found and Miss its residual against the target.
type NonConvergenceError struct {
	Op         string
	Iterations int
	Best       float64
	Miss       float64
}

func (e NonConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations (best candidate %g, off by %g)",
		e.Op, e.Iterations, e.Best, e.Miss)
}

// OverPressureError reports a chamber pressure above the maximum expected
// operating pressure. The pressure is never clamped.
type OverPressureError struct {
	Pressure float64
	Ceiling  float64
	Time     float64
}

func (e OverPressureError) Error() string {
	return fmt.Sprintf("over-pressure: chamber pressure exceeds %.0f Pa ceiling at t=%.3f s (balance unsatisfied below %.0f Pa)",
		e.Ceiling, e.Time, e.Pressure)
}

// InvalidGeometryError reports a solved physical quantity outside its valid
// domain, such as a non-positive area or a subsonic exit Mach number.
type InvalidGeometryError struct {
	Quantity string
	Value    float64
}

func (e InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s=%g", e.Quantity, e.Value)
}

// IntegrationError reports a failed trajectory integration.
type IntegrationError struct {
	Time   float64
	Reason string
}

func (e IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%.4f s: %s", e.Time, e.Reason)
}
