package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// TelemetryStatus classifies how a command ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to telemetry callbacks once a command returns.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry runs after every execution of a handler.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs each outcome through logger with its duration.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger, info.Fields), info.Status, info.Error, "duration_ms", info.Duration.Milliseconds())
	}
}

func statusOf(ctx context.Context, err error) TelemetryStatus {
	switch {
	case err != nil:
		return TelemetryStatusFailed
	case ctx.Err() != nil:
		return TelemetryStatusContextError
	default:
		return TelemetryStatusSuccess
	}
}

func logOutcome(logger interfaces.Logger, status TelemetryStatus, err error, args ...any) {
	if status == TelemetryStatusSuccess {
		logger.Info("wiki.command.done", args...)
		return
	}
	logger.Error("wiki.command."+string(status), append(args, "error", err)...)
}
