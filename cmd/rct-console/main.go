package main

import (
	"flag"
	"fmt"
	"os"

	"rct/console"
	"rct/pkg/config"
	"rct/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Config file path (optional)")
	teamNumber := flag.Int("team", -1, "FRC team number (overrides config)")
	port := flag.Int("port", 0, "Controller port (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, err := config.LoadConsoleConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *teamNumber >= 0 {
		cfg.TeamNumber = *teamNumber
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	// Logs go to stderr so they never interleave with terminal output.
	logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format, os.Stderr)
	log := logger.Get()

	consoleMgr := console.NewANSIManager(os.Stdin, os.Stdout)
	system := console.NewLocalSystem(consoleMgr, cfg.TeamNumber, cfg.Port)
	router := console.NewRouter(consoleMgr, system)

	console.PrintlnSys(consoleMgr, fmt.Sprintf("Robot Command Terminal - team %d", cfg.TeamNumber))
	if err := system.Connect(); err != nil {
		log.ErrorWithErr("initial connection failed", err)
		console.PrintlnErr(consoleMgr, fmt.Sprintf("Could not reach the controller: %v", err))
		console.PrintlnErr(consoleMgr, "Local commands still work; use 'netstat' to watch for the controller coming up.")
	}

	console.Run(consoleMgr, system, router)
}
