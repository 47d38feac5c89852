package main

import (
	"encoding/json"
	"net/http"

	rocketdan "github.com/castlmarial/rocket-nozzle-optimization-2026"
)

// designHandler serves a read-only JSON view of the accepted design.
func designHandler(r *rocketdan.DesignResult) http.HandlerFunc {
	view := struct {
		AvgThrust  float64                 `json:"avg_thrust_newton"`
		Apogee     float64                 `json:"apogee_meters"`
		ApogeeTime float64                 `json:"apogee_time_seconds"`
		Iterations int                     `json:"optimizer_iterations"`
		Nozzle     rocketdan.NozzleDesign  `json:"nozzle"`
		Grain      rocketdan.GrainGeometry `json:"grain"`
		BurnTime   float64                 `json:"burn_time_seconds"`
		Impulse    float64                 `json:"total_impulse_newton_seconds"`
	}{
		AvgThrust:  r.AvgThrust,
		Apogee:     r.Trajectory.Apogee,
		ApogeeTime: r.Trajectory.ApogeeTime,
		Iterations: r.Iterations,
		Nozzle:     r.Nozzle,
		Grain:      r.Grain,
		BurnTime:   r.Burn.Duration,
		Impulse:    r.Burn.TotalImpulse,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(view)
	}
}

// trajectoryHandler serves the raw sample sequence of the accepted run.
func trajectoryHandler(r *rocketdan.DesignResult) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(r.Trajectory.States)
	}
}
