package main

import (
	"flag"
	"fmt"
	"os"

	"rct/controller"
	"rct/pkg/config"
	"rct/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Config file path (optional)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, err := config.LoadControllerConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Address = *addr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format, os.Stdout)
	log := logger.Get()

	// The robot program normally populates these during robot init;
	// running standalone we register a representative set so the
	// terminal has something to inspect.
	subsystems := controller.NewRegistry[*controller.Subsystem]("subsystem")
	devices := controller.NewRegistry[*controller.Device]("device")
	seedRegistries(subsystems, devices)

	server, err := controller.NewServer(cfg, subsystems, devices)
	if err != nil {
		log.ErrorWithErr("failed to initialize server", err)
		os.Exit(1)
	}
	defer server.Close()

	if err := server.Run(); err != nil {
		log.ErrorWithErr("server stopped", err)
		os.Exit(1)
	}
}

func seedRegistries(subsystems *controller.Registry[*controller.Subsystem], devices *controller.Registry[*controller.Device]) {
	_ = subsystems.Add("drive", &controller.Subsystem{
		Name: "drive", Description: "Differential drivetrain", Status: "idle",
	})
	_ = subsystems.Add("intake", &controller.Subsystem{
		Name: "intake", Description: "Game piece intake", Status: "idle",
	})
	_ = devices.Add("talon-left", &controller.Device{Name: "talon-left", Type: "motor", Port: 1})
	_ = devices.Add("talon-right", &controller.Device{Name: "talon-right", Type: "motor", Port: 2})
	_ = devices.Add("gyro", &controller.Device{Name: "gyro", Type: "sensor", Port: 0})
}
