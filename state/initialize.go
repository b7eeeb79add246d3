package state

import (
	"time"

	"cssd/generator"
	"cssd/style"
)

// newLocalEnv creates a new LocalEnv instance with default values, builtin
// registry self-check runs here so broken tables stop the program early.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:    time.Now(),
		Registry: style.Default(),
		Options:  generator.DefaultOptions(),
	}
}
