// Package logging routes engine log records through named channels.
//
// A Channel pairs a name with a minimum severity. Records below the channel's
// severity are dropped before any formatting happens. Channels are
// registered lazily on first use, each getting its own logger tagged with the
// channel name.
//
// The package keeps a process-wide Manager behind Initialize, Shutdown, Log
// and For. Logging before Initialize or after Shutdown is a silent no-op.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/hupe1980/corekit"
)

// Channel identifies a log source and its minimum severity.
type Channel struct {
	Name     string
	Severity Severity
}

// NewChannel returns a channel.
func NewChannel(name string, severity Severity) Channel {
	return Channel{Name: name, Severity: severity}
}

// Temp is a catch-all channel for ad-hoc diagnostics.
var Temp = NewChannel("Temp", All)

// Manager owns the handler and the per-channel loggers. It is safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	handler  slog.Handler
	channels map[string]*corekit.Logger
}

// NewManager returns an uninitialized manager.
func NewManager() *Manager {
	return &Manager{}
}

// Initialize makes m emit records through handler. A nil handler writes text
// to stderr with every severity enabled. Initializing twice replaces the
// handler and drops the registered channels.
func (m *Manager) Initialize(handler slog.Handler) {
	if handler == nil {
		handler = NewTextHandler(os.Stderr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
	m.channels = make(map[string]*corekit.Logger)
}

// Shutdown drops every channel. Later records are discarded until the next
// Initialize.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = nil
	m.channels = nil
}

// Initialized reports whether m currently emits records.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handler != nil
}

// Log formats and emits a record on channel if severity is at or above the
// channel's severity.
func (m *Manager) Log(channel Channel, severity Severity, format string, args ...any) {
	if severity < channel.Severity || severity >= Off {
		return
	}
	logger := m.Logger(channel)
	if logger == nil {
		return
	}
	level := severity.Level()
	if !logger.Enabled(level) {
		return
	}
	logger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Logger returns the logger of channel, registering it on first use. It
// returns nil when m is not initialized; a nil *corekit.Logger discards
// records and can be handed to containers as is.
func (m *Manager) Logger(channel Channel) *corekit.Logger {
	m.mu.RLock()
	if m.handler == nil {
		m.mu.RUnlock()
		return nil
	}
	logger, ok := m.channels[channel.Name]
	m.mu.RUnlock()
	if ok {
		return logger
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handler == nil {
		return nil
	}
	if logger, ok := m.channels[channel.Name]; ok {
		return logger
	}
	logger = corekit.NewLogger(&channelHandler{
		Handler: m.handler,
		min:     channel.Severity.Level(),
	}).WithChannel(channel.Name)
	m.channels[channel.Name] = logger
	return logger
}

// channelHandler applies the channel's minimum severity on top of the
// shared handler.
type channelHandler struct {
	slog.Handler
	min slog.Level
}

func (h *channelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && h.Handler.Enabled(ctx, level)
}

func (h *channelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &channelHandler{Handler: h.Handler.WithAttrs(attrs), min: h.min}
}

func (h *channelHandler) WithGroup(name string) slog.Handler {
	return &channelHandler{Handler: h.Handler.WithGroup(name), min: h.min}
}

// NewTextHandler returns a text handler on w with every severity enabled and
// trace/fatal levels printed by name.
func NewTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: replaceLevel,
	})
}

// NewJSONHandler is the JSON counterpart of NewTextHandler.
func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: replaceLevel,
	})
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	switch level, _ := a.Value.Any().(slog.Level); level {
	case LevelTrace:
		a.Value = slog.StringValue("TRACE")
	case LevelFatal:
		a.Value = slog.StringValue("FATAL")
	}
	return a
}

var defaultManager = NewManager()

// Default returns the process-wide manager.
func Default() *Manager { return defaultManager }

// Initialize initializes the process-wide manager.
func Initialize(handler slog.Handler) { defaultManager.Initialize(handler) }

// Shutdown shuts the process-wide manager down.
func Shutdown() { defaultManager.Shutdown() }

// Log logs through the process-wide manager.
func Log(channel Channel, severity Severity, format string, args ...any) {
	defaultManager.Log(channel, severity, format, args...)
}

// For returns the logger of channel from the process-wide manager, or nil
// before Initialize.
func For(channel Channel) *corekit.Logger { return defaultManager.Logger(channel) }
