package controller

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/ui"
)

var (
	ErrManualControlActive = errors.New("manual fan control is already active")
	ErrRevertFailed        = errors.New("failed to restore automatic fan control")
)

type GuardOptions struct {
	// Retries is the number of attempts made to restore automatic fan control.
	Retries int
	// Backoff is the time to wait between two attempts.
	Backoff time.Duration
}

var DefaultGuardOptions = GuardOptions{
	Retries: 3,
	Backoff: 1 * time.Second,
}

type modeFile interface {
	io.WriterAt
	io.Closer
}

// manualControlSlot holds the open pwm1_enable handle while manual control is active.
// It is the only state shared between the session and the interrupt relay.
type manualControlSlot struct {
	mu   sync.Mutex
	path string
	file modeFile
	// revertErr is kept after a failed revert and returned to every later caller
	revertErr error
}

// the process can only control a single device at a time
var activeManualControl = &manualControlSlot{}

// ManualControl switches a device to manual fan control for as long as it is held.
// Release restores automatic control and must be called on every exit path.
type ManualControl struct {
	devicePath string
	slot       *manualControlSlot
	options    GuardOptions
}

// AcquireManualControl switches the device at devicePath to manual fan control.
func AcquireManualControl(devicePath string, options GuardOptions) (*ManualControl, error) {
	return acquireManualControl(activeManualControl, devicePath, options, openModeFile)
}

func openModeFile(path string) (modeFile, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

func acquireManualControl(
	slot *manualControlSlot,
	devicePath string,
	options GuardOptions,
	open func(path string) (modeFile, error),
) (*ManualControl, error) {
	// the slot stays locked until the handle is published, so a concurrent
	// release either sees nothing (manual mode was never entered) or the handle
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.file != nil {
		return nil, fmt.Errorf("%w on %s", ErrManualControlActive, slot.path)
	}

	path := hwmon.EnablePath(devicePath)
	file, err := open(path)
	if err != nil {
		return nil, &hwmon.DeviceError{Op: hwmon.OpWriteMode, Path: path, Err: err}
	}

	if _, err := file.WriteAt(hwmon.ControlModeManual.Bytes(), 0); err != nil {
		_ = file.Close()
		return nil, &hwmon.DeviceError{Op: hwmon.OpWriteMode, Path: path, Err: err}
	}

	slot.path = path
	slot.file = file
	slot.revertErr = nil

	ui.Info("Enabled manual fan control on %s", devicePath)

	return &ManualControl{
		devicePath: devicePath,
		slot:       slot,
		options:    options,
	}, nil
}

// Release restores automatic fan control. Only the first call performs any I/O,
// later calls return its result immediately. Concurrent callers block until the first one is done.
func (m *ManualControl) Release() error {
	return m.slot.release(m.options)
}

// Active reports whether manual control has not been released yet.
func (m *ManualControl) Active() bool {
	m.slot.mu.Lock()
	defer m.slot.mu.Unlock()
	return m.slot.file != nil
}

// RevertFailed reports whether restoring automatic control was attempted and failed,
// independent of which caller performed the attempt.
func (m *ManualControl) RevertFailed() bool {
	m.slot.mu.Lock()
	defer m.slot.mu.Unlock()
	return m.slot.revertErr != nil
}

func (m *ManualControl) DevicePath() string {
	return m.devicePath
}

// ReleaseActiveManualControl restores automatic control of whichever device
// is currently under manual control, if any.
func ReleaseActiveManualControl(options GuardOptions) error {
	return activeManualControl.release(options)
}

// ReleaseOnPanic restores automatic control when the calling goroutine panics,
// then continues panicking. It must be deferred directly.
func ReleaseOnPanic(options GuardOptions) {
	activeManualControl.releaseAfterPanic(recover(), options)
}

func (s *manualControlSlot) releaseAfterPanic(recovered any, options GuardOptions) {
	if recovered == nil {
		return
	}
	ui.Error("Fan control panicked: %v", recovered)
	_ = s.release(options)
	panic(recovered)
}

func (s *manualControlSlot) release(options GuardOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, path := s.file, s.path
	if file == nil {
		return s.revertErr
	}
	s.file = nil
	defer func() {
		_ = file.Close()
	}()

	retries := max(options.Retries, 1)
	for attempt := 1; attempt <= retries; attempt++ {
		_, err := file.WriteAt(hwmon.ControlModeAutomatic.Bytes(), 0)
		if err == nil {
			ui.Info("Restored automatic fan control (%s)", path)
			return nil
		}

		ui.Error("Setting automatic fan control failed: %v", err)
		if attempt < retries {
			ui.Warning("Retrying in %s (%d/%d)", options.Backoff, attempt, retries)
			time.Sleep(options.Backoff)
		}
	}

	s.revertErr = fmt.Errorf("%w (%s)", ErrRevertFailed, path)
	ui.Error("WARNING: Restoring automatic fan control failed after %d attempts. "+
		"Reboot the system or restore it manually: echo 2 > %s", retries, path)
	ui.NotifyError("amdfan: fans left in manual mode",
		fmt.Sprintf("Automatic fan control could not be restored. Reboot or run: echo 2 > %s", path))

	return s.revertErr
}
