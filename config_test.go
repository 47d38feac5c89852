package rocketdan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDesignConfig(t *testing.T) {
	cfg, err := LoadDesignConfig("testdata/design.toml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1000.0, cfg.TargetAltitude)
	assert.Equal(t, 1.0, cfg.Rocket.DryMass)
	assert.Equal(t, 0.3, cfg.Rocket.PropellantMass)
	assert.Equal(t, 0.005, cfg.Rocket.RefArea)
	assert.Equal(t, 0.5, cfg.Rocket.DragCoef)

	assert.Equal(t, "KNSB", cfg.Motor.Name)
	assert.Equal(t, KNSB.Density, cfg.Motor.Density)
	assert.Equal(t, KNSB.CStar, cfg.Motor.CStar)
	assert.Equal(t, 1.2, cfg.Motor.BurnTime)
	assert.Equal(t, 4.0e6, cfg.Motor.MaxPressure)
	assert.Equal(t, 0.6, cfg.Motor.PressureRatio)
	assert.Equal(t, 7.414, cfg.Motor.ExpansionRatio)

	assert.InDelta(t, 0.075, cfg.Grain.ChamberDiameter, 1e-12)
	assert.InDelta(t, 0.002, cfg.Grain.LinerThickness, 1e-12)
}

func TestLoadDesignConfigDefaults(t *testing.T) {
	cfg, err := LoadDesignConfig("testdata/design.toml")
	require.NoError(t, err)

	// Omitted keys fall back to the stock values.
	assert.Equal(t, DefaultTolerances(), cfg.Tol)
	assert.Equal(t, DefaultIterationLimits(), cfg.Limits)
	assert.Equal(t, 1.0, cfg.Motor.DischargeCoef)
	assert.Equal(t, 0.92, cfg.Motor.NozzleEfficiency)
	assert.Equal(t, 1, cfg.Grain.Segments)
}

func TestLoadDesignConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.toml")
	data := []byte(`target_altitude_m = 500.0

[rocket]
dry_mass_kg = 2.0
propellant_mass_kg = 0.5
reference_area_m2 = 0.008
drag_coefficient = 0.45

[motor]
burn_time_s = 2.0
max_chamber_pressure_pa = 5.0e6
avg_to_max_pressure_ratio = 0.7
expansion_ratio = 6.0
density_kg_m3 = 1800.0
c_star_m_s = 920.0
burn_rate_coef = 5.0e-3
burn_rate_exp = 0.4
specific_heat_ratio = 1.2
nozzle_efficiency = 0.85

[grain]
chamber_diameter_mm = 54.0
liner_thickness_mm = 1.5
segments = 3

[tolerances]
altitude_eps_m = 0.5

[limits]
optimizer_max_iter = 80
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadDesignConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Motor.Name)
	assert.Equal(t, 1800.0, cfg.Motor.Density)
	assert.Equal(t, 920.0, cfg.Motor.CStar)
	assert.Equal(t, 5.0e-3, cfg.Motor.BurnRateCoef)
	assert.Equal(t, 0.4, cfg.Motor.BurnRateExp)
	assert.Equal(t, 1.2, cfg.Motor.HeatRatio)
	assert.Equal(t, 0.85, cfg.Motor.NozzleEfficiency)
	assert.Equal(t, 3, cfg.Grain.Segments)
	assert.Equal(t, 0.5, cfg.Tol.AltitudeEps)
	assert.Equal(t, 80, cfg.Limits.OptimizerMaxIter)
	// Untouched defaults survive a partial tolerance table.
	assert.Equal(t, DefaultTolerances().BurnTimeEps, cfg.Tol.BurnTimeEps)
	assert.Equal(t, DefaultIterationLimits().GrainSolverMaxIter, cfg.Limits.GrainSolverMaxIter)
}

func TestLoadDesignConfigUnknownPropellant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.toml")
	require.NoError(t, os.WriteFile(path, []byte("[motor]\npropellant = \"unobtainium\"\n"), 0644))

	_, err := LoadDesignConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unobtainium")
}

func TestLoadDesignConfigMissingFile(t *testing.T) {
	_, err := LoadDesignConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
