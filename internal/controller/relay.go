package controller

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/fanctl/amdfan/internal/ui"
	"golang.org/x/sys/unix"
)

var InterruptSignals = []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP, unix.SIGQUIT}

// InterruptRelay restores automatic fan control as soon as the process is asked to stop,
// without waiting for the controller loop to notice.
type InterruptRelay struct {
	signals chan os.Signal
	release func() error
	cancel  context.CancelFunc
	exit    func(code int)

	done     chan struct{}
	stopOnce sync.Once
}

// NewInterruptRelay registers for interrupt signals. The first signal calls release
// and then cancel, any further signal calls release and exits the process.
func NewInterruptRelay(release func() error, cancel context.CancelFunc) *InterruptRelay {
	relay := newInterruptRelay(make(chan os.Signal, 2), release, cancel, os.Exit)
	signal.Notify(relay.signals, InterruptSignals...)
	return relay
}

func newInterruptRelay(signals chan os.Signal, release func() error, cancel context.CancelFunc, exit func(code int)) *InterruptRelay {
	return &InterruptRelay{
		signals: signals,
		release: release,
		cancel:  cancel,
		exit:    exit,
		done:    make(chan struct{}),
	}
}

// Run handles signals until Stop is called
func (r *InterruptRelay) Run() {
	received := 0
	for {
		select {
		case <-r.done:
			return
		case sig := <-r.signals:
			received++
			if received == 1 {
				ui.Warning("Received %s, restoring automatic fan control...", sig)
				if err := r.release(); err != nil {
					ui.Error("%v", err)
				}
				r.cancel()
				continue
			}

			ui.Warning("Received %s again, exiting immediately", sig)
			if err := r.release(); err != nil {
				ui.Error("%v", err)
			}
			r.exit(1)
			return
		}
	}
}

func (r *InterruptRelay) Stop() {
	r.stopOnce.Do(func() {
		signal.Stop(r.signals)
		close(r.done)
	})
}
