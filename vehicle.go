package rocketdan

import "math"

// RocketSpec describes the airframe. Specs are supplied as input and never
// mutated by the solvers.
type RocketSpec struct {
	DryMass        float64 // kg, airframe without propellant
	PropellantMass float64 // kg
	RefArea        float64 // m^2, reference cross section for drag
	DragCoef       float64 // dimensionless
	LaunchAltitude float64 // m above sea level
}

// LiftoffMass returns the total mass on the pad.
func (s RocketSpec) LiftoffMass() float64 {
	return s.DryMass + s.PropellantMass
}

// Validate returns an InvalidInputError for the first constant outside its
// physical domain.
func (s RocketSpec) Validate() error {
	switch {
	case s.DryMass <= 0:
		return InvalidInputError{"rocket.dry_mass", s.DryMass, "must be positive"}
	case s.PropellantMass <= 0:
		return InvalidInputError{"rocket.propellant_mass", s.PropellantMass, "must be positive"}
	case s.RefArea <= 0:
		return InvalidInputError{"rocket.reference_area", s.RefArea, "must be positive"}
	case s.DragCoef < 0:
		return InvalidInputError{"rocket.drag_coefficient", s.DragCoef, "may not be negative"}
	case s.LaunchAltitude < 0:
		return InvalidInputError{"rocket.launch_altitude", s.LaunchAltitude, "below sea level"}
	}
	return nil
}

// Propellant holds the combustion constants of a solid propellant. The burn
// rate follows r = a·(Pc/1 MPa)^n, so BurnRateCoef is in m/s per MPa^n.
type Propellant struct {
	Name         string
	Density      float64 // kg/m^3
	CStar        float64 // m/s, characteristic exhaust velocity
	BurnRateCoef float64 // m/s per MPa^n
	BurnRateExp  float64 // dimensionless, 0 < n < 1 for a stable burn
	HeatRatio    float64 // specific heat ratio of the combustion gas
}

// KNSB is potassium nitrate / sorbitol, per Nakka's published data.
var KNSB = Propellant{
	Name:         "KNSB",
	Density:      1641.0,
	CStar:        895.0,
	BurnRateCoef: 8.26e-3,
	BurnRateExp:  0.319,
	HeatRatio:    1.226,
}

// NewGenericPropellant returns a propellant from raw combustion constants.
func NewGenericPropellant(density, cStar, a, n, k float64) Propellant {
	return Propellant{Name: "generic", Density: density, CStar: cStar, BurnRateCoef: a, BurnRateExp: n, HeatRatio: k}
}

// BurnRate returns the burn rate in m/s at chamber pressure pc (Pa).
func (p Propellant) BurnRate(pc float64) float64 {
	return p.BurnRateCoef * math.Pow(pc/1e6, p.BurnRateExp)
}

// MotorSpec describes the motor: propellant, nozzle performance targets and
// the chamber envelope.
type MotorSpec struct {
	Propellant
	BurnTime         float64 // s, design burn duration
	MaxPressure      float64 // Pa, maximum expected operating pressure (MEOP)
	PressureRatio    float64 // average-to-maximum chamber pressure ratio
	ExpansionRatio   float64 // Ae/At design target
	NozzleEfficiency float64 // empirical thrust correction, (0, 1]
	DischargeCoef    float64 // throat discharge coefficient, (0, 1]
	ChamberVolume    float64 // m^3, 0 means unconstrained
}

// AvgPressure returns the design average chamber pressure.
func (m MotorSpec) AvgPressure() float64 {
	return m.PressureRatio * m.MaxPressure
}

// Validate returns an InvalidInputError for the first constant outside its
// physical domain.
func (m MotorSpec) Validate() error {
	switch {
	case m.Density <= 0:
		return InvalidInputError{"motor.density", m.Density, "must be positive"}
	case m.CStar <= 0:
		return InvalidInputError{"motor.c_star", m.CStar, "must be positive"}
	case m.BurnRateCoef <= 0:
		return InvalidInputError{"motor.burn_rate_coef", m.BurnRateCoef, "must be positive"}
	case m.BurnRateExp <= 0 || m.BurnRateExp >= 1:
		return InvalidInputError{"motor.burn_rate_exp", m.BurnRateExp, "stable burn requires 0 < n < 1"}
	case m.HeatRatio <= 1:
		return InvalidInputError{"motor.specific_heat_ratio", m.HeatRatio, "must exceed 1"}
	case m.BurnTime <= 0:
		return InvalidInputError{"motor.burn_time", m.BurnTime, "must be positive"}
	case m.MaxPressure <= 0:
		return InvalidInputError{"motor.max_pressure", m.MaxPressure, "must be positive"}
	case m.PressureRatio <= 0 || m.PressureRatio > 1:
		return InvalidInputError{"motor.pressure_ratio", m.PressureRatio, "must be in (0, 1]"}
	case m.ExpansionRatio <= 1:
		return InvalidInputError{"motor.expansion_ratio", m.ExpansionRatio, "supersonic nozzle requires Ae/At > 1"}
	case m.NozzleEfficiency <= 0 || m.NozzleEfficiency > 1:
		return InvalidInputError{"motor.nozzle_efficiency", m.NozzleEfficiency, "must be in (0, 1]"}
	case m.DischargeCoef <= 0 || m.DischargeCoef > 1:
		return InvalidInputError{"motor.discharge_coef", m.DischargeCoef, "must be in (0, 1]"}
	case m.ChamberVolume < 0:
		return InvalidInputError{"motor.chamber_volume", m.ChamberVolume, "may not be negative"}
	}
	return nil
}

// GrainGeometry describes a BATES grain stack: Segments cylindrical segments
// of equal length, burning on the core and on both end faces.
type GrainGeometry struct {
	CoreDiameter    float64 // m
	OuterDiameter   float64 // m
	Length          float64 // m, total propellant length across all segments
	Segments        int
	ChamberDiameter float64 // m, casing inner diameter
	LinerThickness  float64 // m
}

// Web returns the remaining radial web thickness.
func (g GrainGeometry) Web() float64 {
	return (g.OuterDiameter - g.CoreDiameter) / 2
}

// PropellantVolume returns the solid volume of the stack.
func (g GrainGeometry) PropellantVolume() float64 {
	return math.Pi / 4 * (g.OuterDiameter*g.OuterDiameter - g.CoreDiameter*g.CoreDiameter) * g.Length
}

// BurnArea returns the instantaneous burn surface: the core bore plus both
// end faces of every segment.
func (g GrainGeometry) BurnArea() float64 {
	face := math.Pi / 4 * (g.OuterDiameter*g.OuterDiameter - g.CoreDiameter*g.CoreDiameter)
	bore := math.Pi * g.CoreDiameter * g.Length
	return bore + 2*float64(g.Segments)*face
}

// PortArea returns the core bore cross section.
func (g GrainGeometry) PortArea() float64 {
	return math.Pi / 4 * g.CoreDiameter * g.CoreDiameter
}

// LOverD returns the length-to-diameter ratio of the stack.
func (g GrainGeometry) LOverD() float64 {
	return g.Length / g.OuterDiameter
}

// Validate returns an InvalidInputError or InvalidGeometryError for the first
// dimension outside its domain.
func (g GrainGeometry) Validate() error {
	switch {
	case g.ChamberDiameter <= 0:
		return InvalidInputError{"grain.chamber_diameter", g.ChamberDiameter, "must be positive"}
	case g.LinerThickness < 0:
		return InvalidInputError{"grain.liner_thickness", g.LinerThickness, "may not be negative"}
	case g.Segments <= 0:
		return InvalidInputError{"grain.segments", float64(g.Segments), "must be positive"}
	}
	if g.OuterDiameter > 0 && g.CoreDiameter >= g.OuterDiameter {
		return InvalidGeometryError{"grain core diameter >= outer diameter", g.CoreDiameter}
	}
	return nil
}
