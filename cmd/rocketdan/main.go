package main

import (
	"flag"
	"net/http"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	rocketdan "github.com/castlmarial/rocket-nozzle-optimization-2026"
)

var (
	configPath = flag.String("config", "design.toml", "path to the design configuration file")
	serveAddr  = flag.String("serve", "", "if set, serve the accepted design and /metrics on this address")
)

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "app", "rocketdan")

	cfg, err := rocketdan.LoadDesignConfig(*configPath)
	if err != nil {
		logger.Log("level", "critical", "subsys", "config", "err", err)
		os.Exit(1)
	}

	result, err := rocketdan.NewDesigner(cfg, logger).Design()
	if err != nil {
		logger.Log("level", "critical", "subsys", "design", "err", err)
		os.Exit(1)
	}

	logger.Log("level", "notice", "status", "design accepted",
		"target(m)", cfg.TargetAltitude,
		"apogee(m)", result.Trajectory.Apogee,
		"avg thrust(N)", result.AvgThrust,
		"Isp(s)", result.Nozzle.Isp,
		"throat(mm)", result.Nozzle.ThroatDiameter*1e3,
		"exit(mm)", result.Nozzle.ExitDiameter*1e3,
		"core(mm)", result.Grain.CoreDiameter*1e3,
		"grain length(mm)", result.Grain.Length*1e3,
		"burn(s)", result.Burn.Duration,
		"Pc.avg(MPa)", result.Burn.AvgPressure/1e6)

	if *serveAddr == "" {
		return
	}

	publishMetrics(result)
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/design", designHandler(result)).Methods("GET")
	r.HandleFunc("/trajectory", trajectoryHandler(result)).Methods("GET")
	logger.Log("level", "info", "subsys", "http", "listening", *serveAddr)
	if err := http.ListenAndServe(*serveAddr, r); err != nil {
		logger.Log("level", "critical", "subsys", "http", "err", err)
		os.Exit(1)
	}
}
