package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/fanctl/amdfan/internal/api"
	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/controller"
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/statistics"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serverShutdownTimeout = 5 * time.Second

type SessionConfig struct {
	CurveFile string

	// DevicePath is the hwmon directory to control, empty selects the first amdgpu device below HwmonRoot
	DevicePath string
	HwmonRoot  string
	Sensor     hwmon.SensorType

	TickRate           time.Duration
	MaxTransientErrors int
	Guard              controller.GuardOptions

	DbPath     string
	Statistics configuration.StatisticsConfig
	Api        configuration.ApiConfig
	Profiling  configuration.ProfilingConfig
}

func NewSessionConfig(config configuration.Configuration) SessionConfig {
	return SessionConfig{
		HwmonRoot:          config.HwmonRoot,
		Sensor:             config.Sensor,
		TickRate:           config.TickRate,
		MaxTransientErrors: config.MaxTransientErrors,
		Guard: controller.GuardOptions{
			Retries: config.Revert.Retries,
			Backoff: config.Revert.Backoff,
		},
		DbPath:     config.DbPath,
		Statistics: config.Statistics,
		Api:        config.Api,
		Profiling:  config.Profiling,
	}
}

// RunSession controls the fan of a single device until ctx is done, an interrupt
// signal is received or the device fails. Automatic fan control is restored on every
// one of these paths.
func RunSession(ctx context.Context, config SessionConfig) (err error) {
	table, err := curves.LoadFile(config.CurveFile)
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		ui.Warning("Curve %s has no points, fans will run at full speed", config.CurveFile)
	} else if !table.IsMonotonic() {
		ui.Warning("Curve %s is not monotonic, fans will slow down while the temperature rises", config.CurveFile)
	}
	ui.Info("Loaded curve with %d points from %s", table.Len(), config.CurveFile)

	devicePath := config.DevicePath
	if devicePath == "" {
		devicePath, err = hwmon.FindFirstDevice(config.HwmonRoot)
		if err != nil {
			return err
		}
		ui.Info("Using amdgpu device at %s", devicePath)
	}

	device, err := hwmon.Open(devicePath, config.Sensor)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := device.Close(); closeErr != nil {
			ui.Warning("Error closing device %s: %v", devicePath, closeErr)
		}
	}()

	sessions := openSessionStore(config.DbPath)
	err = sessions.checkPrevious(devicePath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	relay := controller.NewInterruptRelay(func() error {
		return controller.ReleaseActiveManualControl(config.Guard)
	}, cancel)
	go relay.Run()
	defer relay.Stop()

	manual, err := controller.AcquireManualControl(devicePath, config.Guard)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, manual.Release())
		if manual.RevertFailed() {
			ui.Warning("Keeping session record of %s, run 'amdfan device reset' once the device is usable again", devicePath)
			return
		}
		sessions.remove(devicePath)
	}()

	sessions.record(devicePath, config.CurveFile, device.Sensor())

	var g run.Group
	{
		fanController := controller.NewFanController(device, table, controller.Options{
			TickRate:           config.TickRate,
			MaxTransientErrors: config.MaxTransientErrors,
			Sensor:             device.Sensor().String(),
		})

		g.Add(func() error {
			defer controller.ReleaseOnPanic(config.Guard)
			err := fanController.Run(ctx)
			ui.Info("Fan controller for %s stopped.", devicePath)
			return err
		}, func(err error) {
			cancel()
		})
	}

	var registerer prometheus.Registerer
	if config.Statistics.Enabled {
		registerer = prometheus.DefaultRegisterer
		devicePaths := []string{devicePath}
		for _, collector := range []prometheus.Collector{
			statistics.NewControllerCollector(devicePaths),
			statistics.NewSensorCollector(devicePaths),
			statistics.NewFanCollector(devicePaths),
			statistics.NewCurveCollector(table),
		} {
			if err := statistics.Register(collector); err != nil {
				ui.Warning("Cannot register statistics collector: %v", err)
			}
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: fmt.Sprintf(":%d", config.Statistics.Port), Handler: mux}
		addServer(&g, ctx, cancel, "statistics", server.ListenAndServe, server.Shutdown)
	}

	if config.Api.Enabled {
		rest := api.CreateRestService(table, api.Options{Registerer: registerer})
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)
		addServer(&g, ctx, cancel, "api", func() error {
			return rest.Start(addr)
		}, rest.Shutdown)
	}

	if config.Profiling.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		server := &http.Server{Addr: fmt.Sprintf("%s:%d", config.Profiling.Host, config.Profiling.Port), Handler: mux}
		addServer(&g, ctx, cancel, "profiling", server.ListenAndServe, server.Shutdown)
	}

	return g.Run()
}

// addServer runs a server next to the fan controller. A server that fails to start
// is logged and does not end the session.
func addServer(g *run.Group, ctx context.Context, cancel context.CancelFunc, name string, start func() error, shutdown func(ctx context.Context) error) {
	g.Add(func() error {
		ui.Info("Starting %s server...", name)
		if err := start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ui.Error("Cannot start %s server (%v)", name, err)
		}
		<-ctx.Done()
		return nil
	}, func(err error) {
		cancel()
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer timeoutCancel()
		if err := shutdown(timeoutCtx); err != nil {
			ui.Warning("Error stopping %s server: %v", name, err)
		} else {
			ui.Info("Stopped %s server.", name)
		}
	})
}
