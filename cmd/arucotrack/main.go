package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/turretlab/arucotrack/internal/config"
	"github.com/turretlab/arucotrack/internal/influx"
	"github.com/turretlab/arucotrack/internal/logging"
	"github.com/turretlab/arucotrack/internal/mode"
	"github.com/turretlab/arucotrack/internal/model"
	"github.com/turretlab/arucotrack/internal/monitor"
	"github.com/turretlab/arucotrack/internal/protocol"
	"github.com/turretlab/arucotrack/internal/queue"
	"github.com/turretlab/arucotrack/internal/session"
	"github.com/turretlab/arucotrack/internal/storage"
	"github.com/turretlab/arucotrack/internal/target"
	"github.com/turretlab/arucotrack/internal/transmit"
	"github.com/turretlab/arucotrack/internal/vision"
	"github.com/turretlab/arucotrack/internal/worker"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "arucotrack"
)

func main() {
	var (
		configDir = flag.String("config", ".", "directory containing arucotrack.cfg.json")
		headless  = flag.Bool("headless", false, "run without a preview window, keys come from stdin")
		device    = flag.Int("device", -1, "camera device index, overrides config")
		version   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s (built %s)\n", AppName, Version, BuildDate)
		return
	}

	if err := run(*configDir, *headless, *device); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run(configDir string, headless bool, deviceOverride int) error {
	sessionStart := time.Now()

	slogManager := logging.NewSlogManager()
	slogManager.Setup(nil, "info")
	logger := slogManager.Logger()

	if err := config.Load(configDir); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config")
	}
	if deviceOverride >= 0 {
		viper.Set("camera.device", deviceOverride)
	}
	if headless {
		viper.Set("ui.headless", true)
	}

	logsDir := config.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, AppName, sessionStart)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
	} else {
		defer logFile.Close()
	}

	logLevel := config.GetString("logLevel")
	slogManager.Setup(logFile, logLevel)
	logger = slogManager.Logger()
	logger.Info("Begin logging in logs directory", "path", logFilePath)
	logger.Info("Starting up...", "version", Version, "build", BuildDate)

	sessionCtx := session.NewContext()
	logger.Info("Session started", "runID", sessionCtx.RunID())

	modeCtx := mode.NewContext()

	// UDP transmitter
	sender, err := transmit.New(transmit.Config{
		Address:     config.GetString("udp.address"),
		DeltaPort:   config.GetInt("udp.deltaPort"),
		ModePort:    config.GetInt("udp.modePort"),
		Format:      protocol.ParseFormat(config.GetString("send.format")),
		MinInterval: config.GetDuration("send.minInterval"),
	}, logging.NewComponentLogger("transmit", logFile, logLevel))
	if err != nil {
		return fmt.Errorf("creating UDP sender: %w", err)
	}
	defer sender.Close()

	// Track-log storage behind a queue so the capture loop never blocks on I/O
	storageCfg := config.GetStorage()
	backend, err := storage.NewBackend(storage.FactoryConfig{
		Type:       storageCfg.Type,
		OutputDir:  storageCfg.OutputDir,
		SqlitePath: storageCfg.SqlitePath,
		Logger:     logging.NewComponentLogger("storage", logFile, logLevel),
	})
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	logger.Info("Storage backend initialized", "type", storageCfg.Type)

	trackQueue := queue.New[*model.TrackRecord]()
	flusher := worker.NewFlusher(trackQueue, backend, slogManager, time.Second)
	flusher.Start()

	// optional InfluxDB performance sink
	var perfWriter monitor.PerfWriter
	if config.GetBool("influx.enabled") {
		influxManager := influx.NewManager(
			logging.NewComponentLogger("influx", logFile, logLevel),
			logging.LogFilePath(logsDir, AppName+".influx_backup", sessionStart)+".gz",
		)
		if err := influxManager.Connect(); err != nil {
			logger.Warn("InfluxDB sink unavailable", "error", err)
		} else {
			perfWriter = influxManager
			defer influxManager.Close()
		}
	}

	monitorService := monitor.NewService(monitor.Dependencies{
		LogManager:  slogManager,
		Session:     sessionCtx,
		ModeContext: modeCtx,
		Queue:       trackQueue,
		Flusher:     flusher,
		StatusDir:   logsDir,
		Interval:    config.GetDuration("monitor.interval"),
		PerfWriter:  perfWriter,
	})
	monitorService.Start()
	defer monitorService.Stop()

	// vision pipeline
	detector, err := vision.NewDetector(config.GetString("detector.dictionary"))
	if err != nil {
		return fmt.Errorf("creating detector: %w", err)
	}
	defer detector.Close()

	camera, err := vision.OpenCamera(
		config.GetInt("camera.device"),
		config.GetInt("camera.width"),
		config.GetInt("camera.height"),
	)
	if err != nil {
		return fmt.Errorf("opening camera: %w", err)
	}
	defer camera.Close()

	var poser *vision.PoseEstimator
	if calibFile := config.GetString("detector.calibrationFile"); calibFile != "" {
		calib, err := vision.LoadCalibration(calibFile)
		if err != nil {
			logger.Warn("Calibration unavailable, pose estimation disabled", "error", err)
		} else {
			poser = vision.NewPoseEstimator(config.GetFloat64("detector.markerSizeMM"), calib)
			defer poser.Close()
			logger.Info("Pose estimation enabled", "calibration", calibFile)
		}
	}

	a := &app{
		logger:        logger,
		slogManager:   slogManager,
		session:       sessionCtx,
		modeCtx:       modeCtx,
		sender:        sender,
		queue:         trackQueue,
		monitor:       monitorService,
		camera:        camera,
		detector:      detector,
		poser:         poser,
		targets:       target.NewSet(),
		seen:          target.NewSet(),
		smoother:      target.NewSmoother(config.GetInt("target.trailLen"), 1.0/30.0),
		killThreshold: config.GetFloat64("target.killThresholdPx"),
		headless:      config.GetBool("ui.headless"),
		stdin:         os.Stdin,
	}
	if err := a.setupKeys(); err != nil {
		return fmt.Errorf("setting up key dispatcher: %w", err)
	}

	// announce the starting mode so listeners see Idle before any delta
	sender.SendMode(modeCtx.Get())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Signal received, shutting down", "signal", sig)
		a.requestQuit()
	}()

	runErr := a.run()

	// drain and persist before reporting loop errors
	if err := flusher.Close(); err != nil {
		logger.Error("Error flushing track records", "error", err)
	}
	if err := backend.Close(); err != nil {
		logger.Error("Error closing storage backend", "error", err)
	}

	sent, skipped := sender.Stats()
	logger.Info("Shutdown complete",
		"uptime", sessionCtx.Uptime().Round(time.Second),
		"sent", sent,
		"skipped", skipped,
	)
	return runErr
}
