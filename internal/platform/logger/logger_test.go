package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSensitiveKeysAreRedacted(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("account created", "account_id", 7, "email", "someone@lab.example", "database_dsn", "postgres://u:p@h/db")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, int64(7), fields["account_id"])
		assert.Equal(t, "[REDACTED]", fields["email"])
		assert.Equal(t, "[REDACTED]", fields["database_dsn"])
	}
}

func TestWithKeepsRedaction(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("repo", "AccountRepository")

	l.Debug("lookup", "email", "x@y.z")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "AccountRepository", fields["repo"])
		assert.Equal(t, "[REDACTED]", fields["email"])
	}
}
