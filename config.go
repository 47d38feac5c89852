package rocketdan

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadDesignConfig reads a design configuration from a TOML file. Tolerances
// and iteration limits default to the stock values when omitted; the motor's
// combustion constants default to the named propellant when one is given.
func LoadDesignConfig(path string) (DesignConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	tol := DefaultTolerances()
	limits := DefaultIterationLimits()
	v.SetDefault("tolerances.altitude_eps_m", tol.AltitudeEps)
	v.SetDefault("tolerances.integrator_abs_tol", tol.IntegratorAbsTol)
	v.SetDefault("tolerances.integrator_rel_tol", tol.IntegratorRelTol)
	v.SetDefault("tolerances.burn_time_eps_s", tol.BurnTimeEps)
	v.SetDefault("limits.optimizer_max_iter", limits.OptimizerMaxIter)
	v.SetDefault("limits.grain_solver_max_iter", limits.GrainSolverMaxIter)
	v.SetDefault("motor.discharge_coef", 1.0)
	v.SetDefault("motor.nozzle_efficiency", 0.92)
	v.SetDefault("grain.segments", 1)

	if err := v.ReadInConfig(); err != nil {
		return DesignConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}

	prop, err := propellantByName(v.GetString("motor.propellant"))
	if err != nil {
		return DesignConfig{}, err
	}
	// Explicit combustion constants override the catalog entry.
	if v.IsSet("motor.density_kg_m3") {
		prop.Density = v.GetFloat64("motor.density_kg_m3")
	}
	if v.IsSet("motor.c_star_m_s") {
		prop.CStar = v.GetFloat64("motor.c_star_m_s")
	}
	if v.IsSet("motor.burn_rate_coef") {
		prop.BurnRateCoef = v.GetFloat64("motor.burn_rate_coef")
	}
	if v.IsSet("motor.burn_rate_exp") {
		prop.BurnRateExp = v.GetFloat64("motor.burn_rate_exp")
	}
	if v.IsSet("motor.specific_heat_ratio") {
		prop.HeatRatio = v.GetFloat64("motor.specific_heat_ratio")
	}

	cfg := DesignConfig{
		TargetAltitude: v.GetFloat64("target_altitude_m"),
		Rocket: RocketSpec{
			DryMass:        v.GetFloat64("rocket.dry_mass_kg"),
			PropellantMass: v.GetFloat64("rocket.propellant_mass_kg"),
			RefArea:        v.GetFloat64("rocket.reference_area_m2"),
			DragCoef:       v.GetFloat64("rocket.drag_coefficient"),
			LaunchAltitude: v.GetFloat64("rocket.launch_altitude_m"),
		},
		Motor: MotorSpec{
			Propellant:       prop,
			BurnTime:         v.GetFloat64("motor.burn_time_s"),
			MaxPressure:      v.GetFloat64("motor.max_chamber_pressure_pa"),
			PressureRatio:    v.GetFloat64("motor.avg_to_max_pressure_ratio"),
			ExpansionRatio:   v.GetFloat64("motor.expansion_ratio"),
			NozzleEfficiency: v.GetFloat64("motor.nozzle_efficiency"),
			DischargeCoef:    v.GetFloat64("motor.discharge_coef"),
			ChamberVolume:    v.GetFloat64("motor.chamber_volume_m3"),
		},
		Grain: GrainGeometry{
			ChamberDiameter: v.GetFloat64("grain.chamber_diameter_mm") / 1e3,
			LinerThickness:  v.GetFloat64("grain.liner_thickness_mm") / 1e3,
			Segments:        v.GetInt("grain.segments"),
		},
		Tol: Tolerances{
			AltitudeEps:      v.GetFloat64("tolerances.altitude_eps_m"),
			IntegratorAbsTol: v.GetFloat64("tolerances.integrator_abs_tol"),
			IntegratorRelTol: v.GetFloat64("tolerances.integrator_rel_tol"),
			BurnTimeEps:      v.GetFloat64("tolerances.burn_time_eps_s"),
		},
		Limits: IterationLimits{
			OptimizerMaxIter:   v.GetInt("limits.optimizer_max_iter"),
			GrainSolverMaxIter: v.GetInt("limits.grain_solver_max_iter"),
		},
	}
	return cfg, nil
}

// propellantByName resolves a catalog propellant. An empty name returns an
// empty Propellant so that the explicit constants must carry the motor.
func propellantByName(name string) (Propellant, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "":
		return Propellant{Name: "custom"}, nil
	case "KNSB":
		return KNSB, nil
	}
	return Propellant{}, fmt.Errorf("unknown propellant %q", name)
}
