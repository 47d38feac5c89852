package rocketdan

import (
	"math"
	"sort"

	kitlog "github.com/go-kit/kit/log"

	"github.com/castlmarial/rocket-nozzle-optimization-2026/integrator"
)

// maxFlightTime bounds a single run; a sounding rocket that has not reached
// apogee or ground by then is a degenerate input.
const maxFlightTime = 600.0

// ThrustCurve yields the thrust and propellant mass flow at flight time t.
type ThrustCurve interface {
	Thrust(t float64) (thrust, massFlow float64)
	BurnTime() float64
}

// ConstantThrust is the optimizer's search model: a constant average thrust
// over the burn duration, with a constant mass flow that depletes exactly the
// propellant mass.
type ConstantThrust struct {
	Force          float64 // N
	Duration       float64 // s
	PropellantMass float64 // kg
}

// Thrust implements the ThrustCurve interface.
func (c ConstantThrust) Thrust(t float64) (float64, float64) {
	if t > c.Duration {
		return 0, 0
	}
	return c.Force, c.PropellantMass / c.Duration
}

// BurnTime implements the ThrustCurve interface.
func (c ConstantThrust) BurnTime() float64 {
	return c.Duration
}

// FlightState is one accepted integration sample.
type FlightState struct {
	Time     float64 // s
	Altitude float64 // m above the launch site
	Velocity float64 // m/s, positive up
	Mass     float64 // kg
	Thrust   float64 // N
	Drag     float64 // N, positive opposing the velocity
}

// TrajectoryResult is the immutable outcome of one integration run.
type TrajectoryResult struct {
	States      []FlightState
	Apogee      float64 // m above the launch site
	ApogeeTime  float64 // s
	BurnoutTime float64 // s
	MaxVelocity float64 // m/s
	ImpactTime  float64 // s, 0 unless descent was simulated to the ground
}

// FlightSim integrates the vertical equations of motion for one flight. Each
// run owns its own state; create a fresh FlightSim per run.
type FlightSim struct {
	Rocket  RocketSpec
	Curve   ThrustCurve
	AbsTol  float64
	RelTol  float64
	Descend bool // continue past apogee down to ground impact

	logger    kitlog.Logger
	t         float64
	state     []float64 // altitude, velocity, mass
	states    []FlightState
	apogeeHit bool
	apogee    float64
	apogeeDT  float64
	burnout   float64
	maxVel    float64
	impactDT  float64
	failure   error
}

// NewFlightSim returns a fresh simulation at rest on the pad with a full
// propellant load. A nil logger silences the run.
func NewFlightSim(rocket RocketSpec, curve ThrustCurve, logger kitlog.Logger) *FlightSim {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &FlightSim{
		Rocket: rocket,
		Curve:  curve,
		AbsTol: 1e-6,
		RelTol: 1e-6,
		logger: kitlog.With(logger, "subsys", "flight"),
		state:  []float64{0, 0, rocket.LiftoffMass()},
	}
}

// GetState implements the integrator.Integrable interface.
func (f *FlightSim) GetState() []float64 {
	s := make([]float64, 3)
	copy(s, f.state)
	return s
}

// Func implements the integrator.Integrable interface. The state is
// (altitude, velocity, mass); drag uses v·|v| so its sign opposes the
// velocity during descent as well.
func (f *FlightSim) Func(t float64, s []float64) []float64 {
	alt, vel, mass := s[0], s[1], s[2]
	thrust, massFlow := f.Curve.Thrust(t)
	if mass <= f.Rocket.DryMass {
		// Propellant exhausted: the motor can no longer produce anything.
		mass = f.Rocket.DryMass
		thrust = 0
		massFlow = 0
	}
	rho := AtmosphereAt(f.Rocket.LaunchAltitude + math.Max(alt, 0)).Density
	drag := 0.5 * rho * vel * math.Abs(vel) * f.Rocket.DragCoef * f.Rocket.RefArea
	accel := (thrust-drag)/mass - G0
	if alt <= 0 && vel <= 0 && accel < 0 {
		// Held on the pad: thrust below weight does not push into the ground.
		return []float64{0, 0, -massFlow}
	}
	return []float64{vel, accel, -massFlow}
}

// SetState implements the integrator.Integrable interface. It records the
// accepted sample, clamps the mass at the dry mass, and detects the apogee
// crossing by linear interpolation between the bracketing steps.
func (f *FlightSim) SetState(t float64, s []float64) {
	prevT, prev := f.t, f.state
	f.t = t
	f.state = s

	if s[2] <= 0 {
		f.failure = IntegrationError{Time: t, Reason: "mass went non-positive"}
		return
	}
	if s[2] < f.Rocket.DryMass {
		s[2] = f.Rocket.DryMass
	}
	if f.burnout == 0 && (s[2] <= f.Rocket.DryMass || t >= f.Curve.BurnTime()) {
		f.burnout = t
	}
	if !f.apogeeHit && prev[1] > 0 && s[1] <= 0 {
		frac := prev[1] / (prev[1] - s[1])
		f.apogeeDT = prevT + frac*(t-prevT)
		f.apogee = prev[0] + frac*(s[0]-prev[0])
		f.apogeeHit = true
	}
	if s[1] > f.maxVel {
		f.maxVel = s[1]
	}
	if f.Descend && f.apogeeHit && s[0] <= 0 && f.impactDT == 0 {
		f.impactDT = t
	}

	thrust, _ := f.Curve.Thrust(t)
	if s[2] <= f.Rocket.DryMass {
		thrust = 0
	}
	rho := AtmosphereAt(f.Rocket.LaunchAltitude + math.Max(s[0], 0)).Density
	drag := 0.5 * rho * s[1] * math.Abs(s[1]) * f.Rocket.DragCoef * f.Rocket.RefArea
	f.states = append(f.states, FlightState{Time: t, Altitude: s[0], Velocity: s[1], Mass: s[2], Thrust: thrust, Drag: drag})
}

// Stop implements the integrator.Integrable interface.
func (f *FlightSim) Stop(t float64) bool {
	if f.failure != nil {
		return true
	}
	if t > maxFlightTime {
		f.failure = IntegrationError{Time: t, Reason: "no termination event within the flight time bound"}
		return true
	}
	if !f.apogeeHit && t > f.Curve.BurnTime() && f.state[0] <= 0 && f.state[1] <= 0 {
		// Never left the pad: the flight is over with a zero apogee.
		f.apogeeHit = true
		f.apogeeDT = t
		return true
	}
	if !f.apogeeHit {
		return false
	}
	if !f.Descend {
		return true
	}
	return f.impactDT > 0
}

// Run integrates the flight from the pad. The ascent always ends at apogee;
// with Descend set the run continues to ground impact.
func (f *FlightSim) Run() (TrajectoryResult, error) {
	if err := f.Rocket.Validate(); err != nil {
		return TrajectoryResult{}, err
	}
	f.states = append(f.states, FlightState{Mass: f.state[2]})

	dp := integrator.NewDoPri54(0, f)
	dp.AbsTol = f.AbsTol
	dp.RelTol = f.RelTol
	steps, tEnd, err := dp.Solve()
	if f.failure != nil {
		return TrajectoryResult{}, f.failure
	}
	if err != nil {
		return TrajectoryResult{}, IntegrationError{Time: tEnd, Reason: err.Error()}
	}
	f.logger.Log("level", "debug", "status", "finished", "t(s)", tEnd, "steps", steps,
		"apogee(m)", f.apogee, "vmax(m/s)", f.maxVel)
	return TrajectoryResult{
		States:      f.states,
		Apogee:      f.apogee,
		ApogeeTime:  f.apogeeDT,
		BurnoutTime: f.burnout,
		MaxVelocity: f.maxVel,
		ImpactTime:  f.impactDT,
	}, nil
}

// ProfileThrust replays a ballistics-derived burn profile as a thrust curve.
// Thrust is interpolated linearly between samples; the mass flow is the
// quasi-steady throat flow Cd·Pc·At/c*.
type ProfileThrust struct {
	times    []float64
	thrusts  []float64
	flows    []float64
	duration float64
}

// NewProfileThrust builds a thrust curve from a burn profile.
func NewProfileThrust(p BurnProfile, m MotorSpec, n NozzleDesign) ProfileThrust {
	pt := ProfileThrust{duration: p.Duration}
	for _, s := range p.Samples {
		pt.times = append(pt.times, s.Time)
		pt.thrusts = append(pt.thrusts, s.Thrust)
		pt.flows = append(pt.flows, m.DischargeCoef*s.ChamberPressure*n.ThroatArea/m.CStar)
	}
	return pt
}

// Thrust implements the ThrustCurve interface.
func (p ProfileThrust) Thrust(t float64) (float64, float64) {
	if len(p.times) == 0 || t > p.duration || t > p.times[len(p.times)-1] {
		return 0, 0
	}
	i := sort.SearchFloat64s(p.times, t)
	if i == 0 {
		return p.thrusts[0], p.flows[0]
	}
	frac := (t - p.times[i-1]) / (p.times[i] - p.times[i-1])
	thrust := p.thrusts[i-1] + frac*(p.thrusts[i]-p.thrusts[i-1])
	flow := p.flows[i-1] + frac*(p.flows[i]-p.flows[i-1])
	return thrust, flow
}

// BurnTime implements the ThrustCurve interface.
func (p ProfileThrust) BurnTime() float64 {
	return p.duration
}
