package logger

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zap.AtomicLevel) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapLoggerWithCore(core), logs
}

func TestZapLoggerFields(t *testing.T) {
	l, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))

	l.Info("NOTE", "Note created", map[string]interface{}{"note_id": 7})
	l.Error("NOTE", "Insert failed", map[string]interface{}{"error": errors.New("disk full")})
	l.Debug("NOTE", "No details", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	info := entries[0].ContextMap()
	assert.Equal(t, "NOTE", info["module"])
	assert.Equal(t, map[string]interface{}{"note_id": 7}, info["details"])

	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)

	assert.Equal(t, map[string]interface{}{}, entries[2].ContextMap()["details"])
}

func TestZapLoggerLevelFilter(t *testing.T) {
	l, logs := observed(zap.NewAtomicLevelAt(zap.WarnLevel))

	l.Debug("NOTE", "hidden", nil)
	l.Info("NOTE", "hidden", nil)
	l.Warn("NOTE", "shown", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestWatermillAdapter(t *testing.T) {
	l, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))
	adapter := NewWatermillAdapter(l).With(watermill.LogFields{"topic": "NOTE_CREATED"})

	adapter.Trace("tick", nil)
	adapter.Error("handler failed", errors.New("boom"), watermill.LogFields{"attempt": 1})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "EVENT_BUS", entries[0].ContextMap()["module"])

	details, ok := entries[1].ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "NOTE_CREATED", details["topic"])
	assert.Equal(t, 1, details["attempt"])
	assert.Equal(t, "boom", details["error"])
}
