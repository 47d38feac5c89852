package rocketdan

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestExitMachRoundTrip(t *testing.T) {
	for _, mach := range []float64{1.5, 2.5, 3.1, 4.0} {
		for _, k := range []float64{1.13, 1.226, 1.4} {
			eps := areaMachRatio(mach, k)
			solved, err := exitMachFromArea(eps, k)
			if err != nil {
				t.Fatalf("M=%f k=%f: %s", mach, k, err)
			}
			if !scalar.EqualWithinAbs(solved, mach, 1e-8) {
				t.Fatalf("M=%f k=%f: recovered %f", mach, k, solved)
			}
		}
	}
}

func TestExitMachSubsonicRatio(t *testing.T) {
	_, err := exitMachFromArea(0.9, 1.226)
	var geom InvalidGeometryError
	if !errors.As(err, &geom) {
		t.Fatalf("expected InvalidGeometryError, got %v", err)
	}
}

func TestSizeNozzleThrustRoundTrip(t *testing.T) {
	m := testMotor()
	const thrust = 250.0
	nz, err := SizeNozzle(thrust, 101325, m)
	if err != nil {
		t.Fatalf("sizing failed: %s", err)
	}
	if nz.ThroatArea <= 0 || nz.ExitArea <= 0 {
		t.Fatalf("non-positive areas: At=%e Ae=%e", nz.ThroatArea, nz.ExitArea)
	}
	if nz.ExitMach <= 1 {
		t.Fatalf("subsonic exit Mach %f", nz.ExitMach)
	}
	if !scalar.EqualWithinRel(nz.ExitArea/nz.ThroatArea, m.ExpansionRatio, 1e-12) {
		t.Fatalf("expansion ratio %f", nz.ExitArea/nz.ThroatArea)
	}
	// F = Pc·At·CF·η must reproduce the requirement.
	back := m.AvgPressure() * nz.ThroatArea * nz.ThrustCoef * m.NozzleEfficiency
	if !scalar.EqualWithinRel(back, thrust, 1e-9) {
		t.Fatalf("thrust round trip: %f != %f", back, thrust)
	}
	if nz.Isp <= 0 || nz.Isp > 300 {
		t.Fatalf("implausible Isp %f for a KN propellant", nz.Isp)
	}
}

func TestSizeNozzleIspRoundTrip(t *testing.T) {
	m := testMotor()
	nz, err := SizeNozzle(250, 101325, m)
	if err != nil {
		t.Fatalf("sizing failed: %s", err)
	}
	// Isp must equal delivered thrust over weight flow: F/(mdot·g0) with
	// F = Pc·At·CF·η and mdot = Cd·Pc·At/c*.
	thrust := m.AvgPressure() * nz.ThroatArea * nz.ThrustCoef * m.NozzleEfficiency
	massFlow := m.DischargeCoef * m.AvgPressure() * nz.ThroatArea / m.CStar
	if got := thrust / (massFlow * G0); !scalar.EqualWithinRel(got, nz.Isp, 1e-9) {
		t.Fatalf("Isp %f s inconsistent with F/(mdot*g0) = %f s", nz.Isp, got)
	}
}

func TestSizeNozzleRejectsNonPositiveThrust(t *testing.T) {
	var invalid InvalidInputError
	if _, err := SizeNozzle(0, 101325, testMotor()); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}
