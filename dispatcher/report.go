package dispatcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/json"
)

func (d *Dispatcher) report(ctx context.Context, r *run, err CommandError) {
	attrs := []any{
		slog.String("kind", string(err.Kind())),
		slog.String("stage", r.stage.String()),
		slog.String("author_id", r.msg.AuthorID().String()),
		slog.String("detail", errorDetail(err)),
	}
	if r.guildID != nil {
		attrs = append(attrs, slog.String("guild_id", r.guildID.String()))
	}

	if err.Kind() == KindInternalError {
		d.logger.Error("Command dispatch failed", append(attrs, slog.Any("error", err))...)
	} else {
		d.logger.Debug("Command dispatch failed", append(attrs, slog.Any("error", err))...)
	}

	if d.onError == nil {
		return
	}

	if sinkErr := d.callSink(ctx, err, r); sinkErr != nil {
		d.logger.Warn("Error handler failed",
			slog.String("kind", string(err.Kind())),
			slog.Any("error", sinkErr),
		)
	}
}

func (d *Dispatcher) callSink(ctx context.Context, err CommandError, r *run) (sinkErr error) {
	defer func() {
		if p := recover(); p != nil {
			sinkErr = fmt.Errorf("error handler panic: %v", p)
		}
	}()
	return d.onError(ctx, err, r.msg)
}

// errorDetail renders the structured fields of err as JSON for logs.
func errorDetail(err CommandError) string {
	detail := map[string]any{
		"kind": err.Kind(),
	}
	if cmd := commandOf(err); cmd != nil {
		detail["command"] = cmd.Name()
	}

	switch e := err.(type) {
	case *UnknownCommandError:
		detail["name"] = e.Name
	case *MissingPermissionsError:
		detail["required"] = e.Required
		detail["actual"] = e.Actual
	case *InvalidArgumentsError:
		detail["argument_error"] = e.Err.Kind()
		detail["argument"] = e.Err
	case *RunError:
		detail["cause"] = e.Cause.Error()
	case *InternalError:
		detail["cause"] = e.Cause.Error()
	}

	data, marshalErr := json.Marshal(detail)
	if marshalErr != nil {
		return fmt.Sprintf(`{"kind":%q}`, err.Kind())
	}
	return string(data)
}
