package rocketdan

// Shared fixtures: a small KNSB motor and airframe whose design converges
// inside the default thrust bracket.

func testRocket() RocketSpec {
	return RocketSpec{
		DryMass:        1.0,
		PropellantMass: 0.3,
		RefArea:        0.005,
		DragCoef:       0.5,
		LaunchAltitude: 0,
	}
}

func testMotor() MotorSpec {
	return MotorSpec{
		Propellant:       KNSB,
		BurnTime:         1.2,
		MaxPressure:      4e6,
		PressureRatio:    0.6,
		ExpansionRatio:   7.414,
		NozzleEfficiency: 0.92,
		DischargeCoef:    1.0,
	}
}

func testGrainSeed() GrainGeometry {
	return GrainGeometry{
		ChamberDiameter: 0.075,
		LinerThickness:  0.002,
		Segments:        1,
	}
}

func testConfig() DesignConfig {
	return DesignConfig{
		TargetAltitude: 1000,
		Rocket:         testRocket(),
		Motor:          testMotor(),
		Grain:          testGrainSeed(),
		Tol:            DefaultTolerances(),
		Limits:         DefaultIterationLimits(),
	}
}
