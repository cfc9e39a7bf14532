package controller

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	default:
		return "stopped"
	}
}

// Status is a snapshot of a controller, published after every tick.
type Status struct {
	Device            string    `json:"device"`
	Sensor            string    `json:"sensor"`
	State             string    `json:"state"`
	Temperature       int16     `json:"temperature"`
	AvgTemperature    float64   `json:"avgTemperature"`
	Duty              uint8     `json:"duty"`
	Ticks             uint64    `json:"ticks"`
	TransientErrors   uint64    `json:"transientErrors"`
	ConsecutiveErrors int       `json:"consecutiveErrors"`
	LastError         string    `json:"lastError,omitempty"`
	StartedAt         time.Time `json:"startedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// StatusMap maps device paths to the latest Status of their controller
var StatusMap = cmap.New[Status]()

func GetStatus(devicePath string) (Status, bool) {
	return StatusMap.Get(devicePath)
}
