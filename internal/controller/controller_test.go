package controller

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fanctl/amdfan/internal/curves"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

var errBusy = errors.New("device or resource busy")

type fakeDevice struct {
	mu    sync.Mutex
	path  string
	temps []int16

	// readErrors are returned, in order, before temps are read
	readErrors []error
	writeErr   error
	duties     []uint8
	reads      int
}

func (d *fakeDevice) Path() string {
	return d.path
}

func (d *fakeDevice) ReadTemperature() (int16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	if len(d.readErrors) > 0 {
		err := d.readErrors[0]
		d.readErrors = d.readErrors[1:]
		if err != nil {
			return 0, err
		}
	}
	if len(d.temps) == 0 {
		return 0, errBusy
	}
	temp := d.temps[0]
	if len(d.temps) > 1 {
		d.temps = d.temps[1:]
	}
	return temp, nil
}

func (d *fakeDevice) WriteDuty(duty uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.duties = append(d.duties, duty)
	return nil
}

func (d *fakeDevice) writtenDuties() []uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint8{}, d.duties...)
}

func exampleTable(t *testing.T) *curves.Table {
	table, err := curves.Build([]string{
		"10 => 10",
		"40 => 40",
		"70 => 70",
		"100 => 100",
	})
	assert.NoError(t, err)
	return table
}

func TestUpdateFanSpeed_WritesInterpolatedDuty(t *testing.T) {
	// GIVEN
	device := &fakeDevice{path: "/test/hwmon0", temps: []int16{55}}
	controller := NewFanController(device, exampleTable(t), Options{Sensor: "junction"})

	// WHEN
	err := controller.UpdateFanSpeed()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []uint8{140}, device.writtenDuties())

	status, ok := GetStatus("/test/hwmon0")
	assert.True(t, ok)
	assert.Equal(t, int16(55), status.Temperature)
	assert.Equal(t, uint8(140), status.Duty)
	assert.Equal(t, uint64(1), status.Ticks)
	assert.Equal(t, "junction", status.Sensor)
}

func TestUpdateFanSpeed_ReadErrorWritesNothing(t *testing.T) {
	// GIVEN
	device := &fakeDevice{path: "/test/hwmon1", readErrors: []error{errBusy}}
	controller := NewFanController(device, exampleTable(t), Options{})

	// WHEN
	err := controller.UpdateFanSpeed()

	// THEN
	assert.ErrorIs(t, err, errBusy)
	assert.Empty(t, device.writtenDuties())
}

func TestRun_StopsOnCancel(t *testing.T) {
	// GIVEN
	device := &fakeDevice{path: "/test/hwmon2", temps: []int16{25}}
	controller := NewFanController(device, exampleTable(t), Options{TickRate: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() {
		result <- controller.Run(ctx)
	}()

	// WHEN
	assert.Eventually(t, func() bool {
		return len(device.writtenDuties()) == 1
	}, time.Second, time.Millisecond)
	cancel()

	// THEN
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("controller did not stop within the tick period")
	}
	assert.Equal(t, []uint8{63}, device.writtenDuties())
	assert.Equal(t, StateStopped, controller.GetState())
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	// GIVEN
	device := &fakeDevice{path: "/test/hwmon3", temps: []int16{25}}
	controller := NewFanController(device, exampleTable(t), Options{TickRate: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := controller.Run(ctx)

	// THEN
	assert.NoError(t, err)
	assert.Empty(t, device.writtenDuties())
}

func TestRun_StructuralErrorIsTerminal(t *testing.T) {
	for _, structural := range []error{
		os.ErrNotExist,
		os.ErrPermission,
		&os.PathError{Op: "read", Path: "/test/temp2_input", Err: unix.ENODEV},
	} {
		// GIVEN
		device := &fakeDevice{path: "/test/hwmon4", readErrors: []error{structural}, temps: []int16{25}}
		controller := NewFanController(device, exampleTable(t), Options{TickRate: time.Millisecond, MaxTransientErrors: 3})

		// WHEN
		err := controller.Run(context.Background())

		// THEN
		assert.ErrorIs(t, err, structural)
		assert.Equal(t, 1, device.reads)
		assert.Empty(t, device.writtenDuties())
	}
}

func TestRun_TransientErrorsAreRetried(t *testing.T) {
	// GIVEN
	device := &fakeDevice{
		path:       "/test/hwmon5",
		readErrors: []error{errBusy, errBusy, nil},
		temps:      []int16{80},
	}
	controller := NewFanController(device, exampleTable(t), Options{TickRate: time.Millisecond, MaxTransientErrors: 2})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- controller.Run(ctx)
	}()

	// WHEN
	assert.Eventually(t, func() bool {
		return len(device.writtenDuties()) > 0
	}, time.Second, time.Millisecond)
	cancel()

	// THEN
	assert.NoError(t, <-result)
	assert.Equal(t, uint8(203), device.writtenDuties()[0])

	status, _ := GetStatus("/test/hwmon5")
	assert.Equal(t, uint64(2), status.TransientErrors)
	assert.Equal(t, 0, status.ConsecutiveErrors)
}

func TestRun_TooManyTransientErrors(t *testing.T) {
	// GIVEN
	device := &fakeDevice{path: "/test/hwmon6"}
	controller := NewFanController(device, exampleTable(t), Options{TickRate: time.Millisecond, MaxTransientErrors: 3})

	// WHEN
	err := controller.Run(context.Background())

	// THEN
	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 4, device.reads)
}

func TestRun_ZeroToleranceFailsOnFirstError(t *testing.T) {
	// GIVEN
	device := &fakeDevice{path: "/test/hwmon7", temps: []int16{50}, writeErr: errBusy}
	controller := NewFanController(device, exampleTable(t), Options{TickRate: time.Millisecond, MaxTransientErrors: 0})

	// WHEN
	err := controller.Run(context.Background())

	// THEN
	assert.ErrorIs(t, err, errBusy)
	assert.Equal(t, 1, device.reads)

	status, ok := GetStatus("/test/hwmon7")
	assert.True(t, ok)
	assert.Equal(t, StateStopped.String(), status.State)
	assert.Equal(t, errBusy.Error(), status.LastError)
}

func TestIsStructuralError(t *testing.T) {
	assert.True(t, IsStructuralError(os.ErrNotExist))
	assert.True(t, IsStructuralError(&os.PathError{Op: "open", Path: "/x", Err: unix.ENOENT}))
	assert.True(t, IsStructuralError(&os.PathError{Op: "write", Path: "/x", Err: unix.ENXIO}))
	assert.True(t, IsStructuralError(os.ErrClosed))
	assert.False(t, IsStructuralError(errBusy))
	assert.False(t, IsStructuralError(&os.PathError{Op: "write", Path: "/x", Err: unix.EINVAL}))
}
