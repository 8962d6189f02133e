package analysis

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/clausewise/core/internal/config"
)

// SessionState is the externally observable state of the backend session.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateLive
	StateInvalid
)

func (s SessionState) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateInvalid:
		return "invalid"
	default:
		return "uninitialized"
	}
}

// textGenerator is the minimal handle the session manager caches.
type textGenerator interface {
	GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

// livenessPrompt is the trivial round-trip used to probe a handle.
const livenessPrompt = "Reply with the single word: ok"

// SessionManager owns the single process-wide handle to the
// generative-model backend. All state transitions happen under one
// mutex, so concurrent requests cannot clobber a freshly built handle
// or probe twice.
type SessionManager struct {
	mu        sync.Mutex
	cfg       config.AnalysisConfig
	log       *zap.Logger
	construct func(Credentials) (textGenerator, error)

	handle textGenerator
	state  SessionState
}

func NewSessionManager(cfg config.AnalysisConfig, log *zap.Logger) *SessionManager {
	m := &SessionManager{cfg: cfg, log: log, state: StateUninitialized}
	m.construct = func(creds Credentials) (textGenerator, error) {
		return newProviderGenerator(cfg, creds)
	}
	return m
}

// State reports the current session state.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset discards the cached handle; the next Acquire rebuilds it from
// scratch, identity check included.
func (m *SessionManager) Reset() {
	m.mu.Lock()
	m.handle = nil
	m.state = StateUninitialized
	m.mu.Unlock()
	m.log.Info("analysis session reset")
}

// Acquire returns a live handle. A cached handle is probed first; a
// failed probe invalidates it and a fresh one is built in the same
// critical section. Configuration and identity errors are fatal and
// propagate without retry.
func (m *SessionManager) Acquire(ctx context.Context) (textGenerator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateLive && m.handle != nil {
		_, err := m.handle.GenerateText(ctx, "", livenessPrompt, 8)
		if err == nil {
			return m.handle, nil
		}
		m.log.Warn("analysis session liveness probe failed", zap.Error(err))
		m.handle = nil
		m.state = StateInvalid
	}

	handle, err := m.buildLocked(ctx)
	if err != nil {
		m.handle = nil
		m.state = StateUninitialized
		return nil, err
	}
	m.handle = handle
	m.state = StateLive
	return handle, nil
}

// buildLocked runs the Uninitialized → Live path: acquire credentials,
// verify the principal, construct the handle, and probe once before
// marking it live. Caller holds the mutex.
func (m *SessionManager) buildLocked(ctx context.Context) (textGenerator, error) {
	if len(m.cfg.EnabledProviders()) == 0 {
		return nil, fmt.Errorf("%w: no enabled providers", ErrConfig)
	}

	var creds Credentials
	if m.cfg.CredentialsFile != "" {
		var err error
		creds, err = loadCredentials(m.cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
	}

	// The principal check runs on every fresh construction so a
	// misconfigured environment can never silently talk to the wrong
	// backend identity.
	if m.cfg.ExpectedPrincipal != "" && creds.Principal != m.cfg.ExpectedPrincipal {
		return nil, fmt.Errorf("%w: resolved principal %q, expected %q",
			ErrIdentityMismatch, creds.Principal, m.cfg.ExpectedPrincipal)
	}

	handle, err := m.construct(creds)
	if err != nil {
		return nil, fmt.Errorf("%w: construct backend handle: %v", ErrConfig, err)
	}

	if _, err := handle.GenerateText(ctx, "", livenessPrompt, 8); err != nil {
		return nil, fmt.Errorf("backend reachability probe failed: %w", err)
	}

	m.log.Info("analysis session established")
	return handle, nil
}
