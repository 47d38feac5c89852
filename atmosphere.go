package rocketdan

import "math"

const (
	// G0 is the standard gravitational acceleration in m/s^2.
	G0 = 9.80665

	seaLevelTemperature = 288.15   // K
	seaLevelPressure    = 101325.0 // Pa
	temperatureLapse    = 0.0065   // K/m in the troposphere
	tropopauseAltitude  = 11000.0  // m
	airGasConstant      = 287.05   // J/(kg·K)
	airHeatRatio        = 1.4
	tropoExponent       = 5.2561 // g0 / (lapse · R)
)

// tropopauseTemperature and tropopausePressure are the values of the
// troposphere law at its upper boundary. Basing the isothermal layer on them
// keeps density and pressure continuous across 11 km.
var (
	tropopauseTemperature = seaLevelTemperature - temperatureLapse*tropopauseAltitude
	tropopausePressure    = seaLevelPressure * math.Pow(tropopauseTemperature/seaLevelTemperature, tropoExponent)
)

// Atmosphere holds the ISA properties at a given geometric altitude.
type Atmosphere struct {
	Density      float64 // kg/m^3
	Pressure     float64 // Pa
	Temperature  float64 // K
	SpeedOfSound float64 // m/s
}

// AtmosphereAt returns the ISA properties at the given altitude above sea
// level, in meters. Altitudes below sea level are clamped to sea level.
// Above the tropopause the isothermal exponential law is carried upward,
// which over-extends the model past ~20 km but stays finite and monotonic.
func AtmosphereAt(altitude float64) Atmosphere {
	if altitude < 0 {
		altitude = 0
	}
	var temp, pres float64
	if altitude < tropopauseAltitude {
		temp = seaLevelTemperature - temperatureLapse*altitude
		pres = seaLevelPressure * math.Pow(temp/seaLevelTemperature, tropoExponent)
	} else {
		temp = tropopauseTemperature
		pres = tropopausePressure * math.Exp(-G0*(altitude-tropopauseAltitude)/(airGasConstant*temp))
	}
	return Atmosphere{
		Density:      pres / (airGasConstant * temp),
		Pressure:     pres,
		Temperature:  temp,
		SpeedOfSound: math.Sqrt(airHeatRatio * airGasConstant * temp),
	}
}
