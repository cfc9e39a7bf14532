package configuration

import "time"

// RevertConfig controls how often restoring automatic fan control is attempted
type RevertConfig struct {
	Retries int           `json:"retries"`
	Backoff time.Duration `json:"backoff"`
}
