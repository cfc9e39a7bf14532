package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/fanctl/amdfan/internal/util"
)

const (
	DefaultTickRate           = 5 * time.Second
	DefaultMaxTransientErrors = 3

	temperatureWindowSize = 12
)

// Device is the part of a hwmon device the controller needs
type Device interface {
	Path() string
	ReadTemperature() (int16, error)
	WriteDuty(duty uint8) error
}

type FanController interface {
	// Run updates the fan speed on every tick until ctx is done or a terminal error occurs
	Run(ctx context.Context) error
	UpdateFanSpeed() error
	GetState() State
}

type Options struct {
	TickRate time.Duration

	// MaxTransientErrors is the number of consecutive failed ticks that are tolerated.
	// 0 stops the controller on the first error.
	MaxTransientErrors int
	Sensor             string
}

type fanController struct {
	device             Device
	table              *curves.Table
	tickRate           time.Duration
	maxTransientErrors int

	state             State
	consecutiveErrors int
	tempWindow        *rolling.PointPolicy
	status            Status
}

func NewFanController(device Device, table *curves.Table, options Options) FanController {
	tickRate := options.TickRate
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &fanController{
		device:             device,
		table:              table,
		tickRate:           tickRate,
		maxTransientErrors: max(options.MaxTransientErrors, 0),
		state:              StateStopped,
		tempWindow:         util.CreateRollingWindow(temperatureWindowSize),
		status: Status{
			Device: device.Path(),
			Sensor: options.Sensor,
			State:  StateStopped.String(),
		},
	}
}

func (f *fanController) GetState() State {
	return f.state
}

func (f *fanController) Run(ctx context.Context) error {
	f.setState(StateRunning)
	defer f.setState(StateStopped)

	ui.Info("Starting controller loop for %s (tick rate: %s)", f.device.Path(), f.tickRate)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping controller loop for %s", f.device.Path())
			return nil
		case <-timer.C:
		}

		// a stop that raced with the timer wins
		if ctx.Err() != nil {
			ui.Info("Stopping controller loop for %s", f.device.Path())
			return nil
		}

		err := f.UpdateFanSpeed()
		if err != nil {
			err = f.handleError(err)
			if err != nil {
				return err
			}
		}

		timer.Reset(f.tickRate)
	}
}

// UpdateFanSpeed reads the temperature once and writes the matching duty
func (f *fanController) UpdateFanSpeed() error {
	temp, err := f.device.ReadTemperature()
	if err != nil {
		return err
	}

	duty := f.table.Interpolate(temp)
	ui.Debug("%s: %d°C -> %d (%.1f%%)", f.device.Path(), temp, duty, curves.DutyToPercent(duty))

	err = f.device.WriteDuty(duty)
	if err != nil {
		return err
	}

	f.consecutiveErrors = 0
	f.tempWindow.Append(float64(temp))

	f.status.Temperature = temp
	f.status.AvgTemperature = util.GetWindowAvg(f.tempWindow)
	f.status.Duty = duty
	f.status.Ticks++
	f.status.ConsecutiveErrors = 0
	f.status.LastError = ""
	f.publishStatus()

	return nil
}

// handleError returns nil if the controller may continue with the next tick
func (f *fanController) handleError(err error) error {
	f.status.LastError = err.Error()

	if IsStructuralError(err) {
		f.publishStatus()
		return fmt.Errorf("device %s is no longer usable: %w", f.device.Path(), err)
	}

	f.consecutiveErrors++
	f.status.TransientErrors++
	f.status.ConsecutiveErrors = f.consecutiveErrors
	f.publishStatus()

	if f.consecutiveErrors > f.maxTransientErrors {
		return fmt.Errorf("giving up on %s after %d consecutive errors: %w", f.device.Path(), f.consecutiveErrors, err)
	}

	ui.Warning("Error in controller loop for %s (%d/%d): %v", f.device.Path(), f.consecutiveErrors, f.maxTransientErrors, err)
	return nil
}

func (f *fanController) setState(state State) {
	f.state = state
	f.status.State = state.String()
	if state == StateRunning {
		f.status.StartedAt = time.Now()
	}
	f.publishStatus()
}

func (f *fanController) publishStatus() {
	f.status.UpdatedAt = time.Now()
	StatusMap.Set(f.status.Device, f.status)
}
