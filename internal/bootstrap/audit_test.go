package bootstrap_test

import (
	"context"
	"testing"

	"go-fleet/internal/bootstrap"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := bootstrap.NewZapAuditLogger("go-fleet-api", zap.New(core))

	audit.Log(context.Background(), bootstrap.AuditLog{
		Action:  bootstrap.AuditServerStart,
		Message: "HTTP server started",
		Meta:    map[string]any{"port": "5000"},
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		e := entries[0]
		assert.Equal(t, "audit", e.LoggerName)
		fields := e.ContextMap()
		assert.Equal(t, "go-fleet-api", fields["service"])
		assert.Equal(t, bootstrap.AuditServerStart, fields["action"])
		assert.Equal(t, "HTTP server started", fields["message"])
	}
}
