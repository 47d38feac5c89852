package rocketdan

import "math"

/* Isentropic nozzle sizing. The chain is: exit Mach from the design expansion
ratio (supersonic branch of the area-Mach relation), exit pressure ratio from
the isentropic relation, thrust coefficient, then absolute areas from the
thrust requirement F = Pc·At·CF·η. */

// NozzleDesign is the sized nozzle for an accepted design. Produced once and
// immutable thereafter.
type NozzleDesign struct {
	ThroatArea     float64 // m^2
	ExitArea       float64 // m^2
	ThroatDiameter float64 // m
	ExitDiameter   float64 // m
	ExpansionRatio float64 // Ae/At
	ExitMach       float64
	PressureRatio  float64 // Pe/Pc
	ThrustCoef     float64
	Isp            float64 // s, physical specific impulse c*·CF·η/g0
}

// areaMachRatio returns A/At for exit Mach m and specific heat ratio k.
func areaMachRatio(m, k float64) float64 {
	term := (2 / (k + 1)) * (1 + (k-1)/2*m*m)
	return math.Pow(term, (k+1)/(2*(k-1))) / m
}

// exitMachFromArea solves the area-Mach relation for the supersonic branch.
// The relation is strictly increasing for M > 1, so a bisection on [1, 50]
// converges unconditionally.
func exitMachFromArea(areaRatio, k float64) (float64, error) {
	if areaRatio <= 1 {
		return 0, InvalidGeometryError{"expansion ratio (supersonic branch needs Ae/At > 1)", areaRatio}
	}
	lo, hi := 1.0, 50.0
	if areaMachRatio(hi, k) < areaRatio {
		return 0, InvalidGeometryError{"expansion ratio (exit Mach above solver bracket)", areaRatio}
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if areaMachRatio(mid, k) < areaRatio {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-12 {
			break
		}
	}
	return (lo + hi) / 2, nil
}

// thrustCoefficient returns CF for heat ratio k, exit pressure ratio Pe/Pc,
// ambient-to-chamber ratio Pa/Pc and expansion ratio epsilon.
func thrustCoefficient(k, peRatio, paRatio, epsilon float64) float64 {
	momentum := (2 * k * k / (k - 1)) *
		math.Pow(2/(k+1), (k+1)/(k-1)) *
		(1 - math.Pow(peRatio, (k-1)/k))
	return math.Sqrt(momentum) + (peRatio-paRatio)*epsilon
}

// SizeNozzle sizes the throat and exit for the required thrust. The ambient
// pressure is taken at the launch altitude; the chamber pressure used for
// sizing is the design average (PressureRatio·MaxPressure).
func SizeNozzle(thrust, ambientPressure float64, m MotorSpec) (NozzleDesign, error) {
	if thrust <= 0 {
		return NozzleDesign{}, InvalidInputError{"thrust", thrust, "must be positive"}
	}
	k := m.HeatRatio
	exitMach, err := exitMachFromArea(m.ExpansionRatio, k)
	if err != nil {
		return NozzleDesign{}, err
	}
	peRatio := math.Pow(1+(k-1)/2*exitMach*exitMach, -k/(k-1))
	cf := thrustCoefficient(k, peRatio, ambientPressure/m.MaxPressure, m.ExpansionRatio)
	if cf <= 0 || math.IsNaN(cf) {
		return NozzleDesign{}, InvalidGeometryError{"thrust coefficient", cf}
	}
	throatArea := thrust / (cf * m.NozzleEfficiency * m.AvgPressure())
	if throatArea <= 0 || math.IsInf(throatArea, 0) || math.IsNaN(throatArea) {
		return NozzleDesign{}, InvalidGeometryError{"throat area", throatArea}
	}
	exitArea := throatArea * m.ExpansionRatio
	return NozzleDesign{
		ThroatArea:     throatArea,
		ExitArea:       exitArea,
		ThroatDiameter: math.Sqrt(4 * throatArea / math.Pi),
		ExitDiameter:   math.Sqrt(4 * exitArea / math.Pi),
		ExpansionRatio: m.ExpansionRatio,
		ExitMach:       exitMach,
		PressureRatio:  peRatio,
		ThrustCoef:     cf,
		Isp:            m.CStar * cf * m.NozzleEfficiency / G0,
	}, nil
}
