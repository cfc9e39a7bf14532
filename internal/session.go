package internal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fanctl/amdfan/internal/controller"
	"github.com/fanctl/amdfan/internal/hwmon"
	"github.com/fanctl/amdfan/internal/persistence"
	"github.com/fanctl/amdfan/internal/ui"
	"golang.org/x/sys/unix"
)

// sessionStore records which devices are under manual control.
// Failing to use the database never stops a session.
type sessionStore struct {
	persistence persistence.Persistence
}

func openSessionStore(dbPath string) *sessionStore {
	pers := persistence.NewPersistence(dbPath)
	err := pers.Init()
	if err != nil {
		ui.Warning("Session records are disabled, cannot use %s: %v", dbPath, err)
		return &sessionStore{}
	}
	return &sessionStore{persistence: pers}
}

// checkPrevious fails if another live process controls the device
func (s *sessionStore) checkPrevious(devicePath string) error {
	if s.persistence == nil {
		return nil
	}

	record, err := s.persistence.LoadSession(devicePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		ui.Warning("Cannot read session record of %s: %v", devicePath, err)
		return nil
	}

	if record.Pid != os.Getpid() && IsProcessAlive(record.Pid) {
		return fmt.Errorf("%w: %s is controlled by process %d", controller.ErrManualControlActive, devicePath, record.Pid)
	}

	ui.Warning("A previous session (pid %d, started %s) did not restore automatic fan control of %s",
		record.Pid, record.StartedAt.Format(time.RFC3339), devicePath)
	return nil
}

func (s *sessionStore) record(devicePath string, curveFile string, sensor hwmon.SensorType) {
	if s.persistence == nil {
		return
	}
	err := s.persistence.SaveSession(persistence.SessionRecord{
		DevicePath: devicePath,
		Pid:        os.Getpid(),
		Sensor:     sensor.String(),
		CurveFile:  curveFile,
		StartedAt:  time.Now(),
	})
	if err != nil {
		ui.Warning("Cannot save session record of %s: %v", devicePath, err)
	}
}

func (s *sessionStore) remove(devicePath string) {
	if s.persistence == nil {
		return
	}
	err := s.persistence.DeleteSession(devicePath)
	if err != nil {
		ui.Warning("Cannot delete session record of %s: %v", devicePath, err)
	}
}

// IsProcessAlive reports whether a process with the given pid exists
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// ResetStaleSessions restores automatic fan control of every recorded device
// whose controlling process is gone, and returns the devices that were reset.
func ResetStaleSessions(dbPath string) ([]string, error) {
	pers := persistence.NewPersistence(dbPath)
	if err := pers.Init(); err != nil {
		return nil, err
	}
	records, err := pers.LoadSessions()
	if err != nil {
		return nil, err
	}

	var reset []string
	var errs []error
	for _, record := range records {
		if record.Pid != os.Getpid() && IsProcessAlive(record.Pid) {
			ui.Info("Skipping %s, still controlled by process %d", record.DevicePath, record.Pid)
			continue
		}

		err := hwmon.WriteControlMode(record.DevicePath, hwmon.ControlModeAutomatic)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = pers.DeleteSession(record.DevicePath)
		if err != nil {
			errs = append(errs, err)
		}
		reset = append(reset, record.DevicePath)
	}

	return reset, errors.Join(errs...)
}
