// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cssd/config"
	"cssd/generator"
	"cssd/style"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	Registry *style.Registry

	// used by generate and edit subcommands, command line flags on top of
	// configuration
	Options generator.Options

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

// Generator returns generator bound to program registry and logger.
func (e *LocalEnv) Generator() *generator.Generator {
	return generator.New(e.Registry, e.Log)
}

// DefaultOptions returns generation options configured by user.
func (e *LocalEnv) DefaultOptions() generator.Options {
	if e.Cfg == nil {
		return generator.DefaultOptions()
	}
	return generator.Options{
		Important:                  e.Cfg.Generator.Important,
		IncludeAdditionalSelectors: e.Cfg.Generator.IncludeAdditionalSelectors,
	}
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
