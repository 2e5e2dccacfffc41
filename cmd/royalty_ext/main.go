package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Falloutization/royalty/internal/config"
	"github.com/Falloutization/royalty/internal/database"
	"github.com/Falloutization/royalty/internal/defs"
	"github.com/Falloutization/royalty/internal/dispatcher"
	"github.com/Falloutization/royalty/internal/handlers"
	"github.com/Falloutization/royalty/internal/logging"
	"github.com/Falloutization/royalty/internal/monitor"
	intOtel "github.com/Falloutization/royalty/internal/otel"
	"github.com/Falloutization/royalty/internal/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.1.0"
	BuildDate               string = "unknown"

	ExtensionName string = "royalty_ext"
)

var (
	// ConfigDir is where royalty.cfg.json is looked up.
	ConfigDir string

	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// Catalog holds the loaded defs
	Catalog *defs.Catalog

	dbManager       *database.Manager
	storageBackend  storage.Backend
	handlerService  *handlers.Service
	eventDispatcher *dispatcher.Dispatcher
	monitorService  *monitor.Service
)

// setup loads configuration, opens logging, storage and the hook registry.
func setup() error {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	if err := config.Load(ConfigDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	var err error
	LogFile, LogFilePath, err = logging.OpenLogFile(viper.GetString("logsDir"), ExtensionName, SessionStartTime)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
		LogFile = nil
	}

	setupOTel()

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	var logWriter io.Writer
	if LogFile != nil {
		logWriter = LogFile
	}
	SlogManager.Setup(logWriter, viper.GetString("logLevel"), otelLogProvider)
	SlogManager.ActiveQuest = func() (int, bool) {
		if handlerService != nil {
			return handlerService.GetQuestContext().Active()
		}
		return 0, false
	}
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath, "version", CurrentExtensionVersion, "build", BuildDate)

	zlog := newZerolog(logWriter)

	Catalog, err = defs.Load(viper.GetString("defs.path"))
	if err != nil {
		return fmt.Errorf("failed to load defs: %w", err)
	}
	Logger.Info("Loaded defs", "path", viper.GetString("defs.path"), "factions", len(Catalog.FactionDefs()))

	if err := initStorage(zlog); err != nil {
		return err
	}

	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	handlerService = handlers.NewService(handlers.Dependencies{
		Catalog:    Catalog,
		Backend:    storageBackend,
		LogManager: SlogManager,
		Hooks:      config.GetHooksConfig(),
		Landing:    config.GetLandingConfig(),
	}, handlers.NewQuestContext())
	handlerService.Register(eventDispatcher)

	monitorCfg := config.GetMonitorConfig()
	monitorService = monitor.NewService(monitor.Dependencies{
		LogManager: SlogManager,
		ThingCache: handlerService.ThingCache(),
		Hooks:      eventDispatcher.Hooks,
		Pending:    journalPending,
		StatusFile: monitorCfg.StatusFile,
		Interval:   monitorCfg.Interval,
	})
	monitorService.Start()

	return nil
}

// journalPending reports buffered journal records for backends that buffer.
func journalPending() int {
	if p, ok := storageBackend.(interface{ Pending() int }); ok {
		return p.Pending()
	}
	return 0
}

func setupOTel() {
	otelCfg := config.GetOTelConfig()
	if !otelCfg.Enabled {
		return
	}

	var w io.Writer
	if LogFile != nil {
		w = LogFile
	}
	var err error
	OTelProvider, err = intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    w,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		Logger.Error("Failed to initialize OTel provider", "error", err)
		OTelProvider = nil
		return
	}
	if otelCfg.Endpoint != "" {
		Logger.Info("OTel provider initialized", "file", LogFilePath, "endpoint", otelCfg.Endpoint)
	} else {
		Logger.Info("OTel provider initialized", "file", LogFilePath)
	}
}

// newZerolog returns the logger used by the dispatcher and the database
// manager. It writes JSON lines next to the slog output.
func newZerolog(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "dispatcher").Logger()
}

func initStorage(zlog zerolog.Logger) error {
	storageCfg := config.GetStorageConfig()
	if storageCfg.Type != "memory" {
		dbManager = database.NewManager(zlog.With().Str("component", "database").Logger())
	}

	var err error
	storageBackend, err = storage.NewBackend(storageCfg, dbManager, CurrentExtensionVersion, Logger)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := storageBackend.Init(); err != nil {
		return fmt.Errorf("failed to init storage backend: %w", err)
	}
	Logger.Info("Storage initialized", "type", storageCfg.Type)
	return nil
}

// shutdown flushes the journal and the log pipeline.
func shutdown() {
	if monitorService != nil {
		monitorService.Stop()
		if err := monitorService.WriteStatus(); err != nil {
			Logger.Error("Failed to write final status", "error", err)
		}
	}
	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down otel: %v\n", err)
		}
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}
