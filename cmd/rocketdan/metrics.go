package main

import (
	"github.com/prometheus/client_golang/prometheus"

	rocketdan "github.com/castlmarial/rocket-nozzle-optimization-2026"
)

var (
	apogeeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketdan_design_apogee_meters",
		Help: "Predicted apogee of the accepted design",
	})
	thrustGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketdan_design_avg_thrust_newton",
		Help: "Average thrust of the accepted design",
	})
	burnTimeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketdan_design_burn_time_seconds",
		Help: "Simulated burn duration of the sized grain",
	})
	chamberPressureGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketdan_design_avg_chamber_pressure_pascal",
		Help: "Average chamber pressure over the burn",
	})
	throatDiameterGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketdan_design_throat_diameter_meters",
		Help: "Nozzle throat diameter of the accepted design",
	})
	ispGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rocketdan_design_isp_seconds",
		Help: "Physical specific impulse of the accepted design",
	})
)

func init() {
	prometheus.MustRegister(apogeeGauge, thrustGauge, burnTimeGauge,
		chamberPressureGauge, throatDiameterGauge, ispGauge)
}

func publishMetrics(r *rocketdan.DesignResult) {
	apogeeGauge.Set(r.Trajectory.Apogee)
	thrustGauge.Set(r.AvgThrust)
	burnTimeGauge.Set(r.Burn.Duration)
	chamberPressureGauge.Set(r.Burn.AvgPressure)
	throatDiameterGauge.Set(r.Nozzle.ThroatDiameter)
	ispGauge.Set(r.Nozzle.Isp)
}
