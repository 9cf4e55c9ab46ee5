package model

import (
	"io"
	"log/slog"
	"maps"
	"sync"
)

// NextRelease is the version computed by the orchestrator
type NextRelease struct {
	Version string `json:"version"`
	Channel string `json:"channel,omitempty"`
}

// RunContext is supplied by the orchestrator for one lifecycle call and must not be
// retained after the call returns.
type RunContext struct {
	Cwd    string
	Env    map[string]string
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// NextRelease is nil during verifyConditions
	NextRelease *NextRelease
}

// Getenv returns the value of key in the run environment
func (c *RunContext) Getenv(key string) string {
	if c.Env == nil {
		return ""
	}
	return c.Env[key]
}

// WithCwd returns a shallow copy of the context rooted at dir
func (c *RunContext) WithCwd(dir string) *RunContext {
	copied := *c
	copied.Cwd = dir
	return &copied
}

// WithSyncOutput returns a shallow copy whose output streams serialize writes with
// one shared lock. npm subprocesses of concurrent packages write through it.
func (c *RunContext) WithSyncOutput() *RunContext {
	copied := *c
	mu := &sync.Mutex{}
	if c.Stdout != nil {
		copied.Stdout = &syncWriter{mu: mu, w: c.Stdout}
	}
	if c.Stderr != nil {
		copied.Stderr = &syncWriter{mu: mu, w: c.Stderr}
	}
	return &copied
}

type syncWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Log returns the context logger, or slog.Default() when none was supplied
func (c *RunContext) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// NpmExec builds the invocation settings shared by every npm subprocess. extraEnv is
// layered over the run environment.
func (c *RunContext) NpmExec(userConfig string, extraEnv map[string]string) NpmExec {
	env := make(map[string]string, len(c.Env)+len(extraEnv))
	maps.Copy(env, c.Env)
	maps.Copy(env, extraEnv)

	stdout, stderr := c.Stdout, c.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	return NpmExec{
		Dir:        c.Cwd,
		Env:        env,
		Stdout:     stdout,
		Stderr:     stderr,
		UserConfig: userConfig,
	}
}

// NpmExec holds what every npm invocation needs besides its own arguments
type NpmExec struct {
	Dir        string
	Env        map[string]string
	Stdout     io.Writer
	Stderr     io.Writer
	UserConfig string
}
