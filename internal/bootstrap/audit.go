package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	AuditServerStart    = "SERVER_START"
	AuditServerShutdown = "SERVER_SHUTDOWN"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

// ZapAuditLogger writes audit entries to the "audit" child of a zap logger,
// tagged with the process that emitted them.
type ZapAuditLogger struct {
	service string
	logger  *zap.Logger
}

func NewZapAuditLogger(service string, logger ...*zap.Logger) *ZapAuditLogger {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &ZapAuditLogger{service: service, logger: l.Named("audit")}
}

func (l *ZapAuditLogger) Log(_ context.Context, entry AuditLog) {
	l.logger.Info("audit event",
		zap.String("service", l.service),
		zap.Time("at", time.Now().UTC()),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
