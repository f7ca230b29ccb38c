package logx

import (
	"context"

	"pkt.systems/ncmctl/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	actionKey contextKey = iota
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithAction annotates the logger with the action name if present.
func WithAction(ctx context.Context, action string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if action != "" {
		if current, ok := ctx.Value(actionKey).(string); ok && current == action {
			return log
		}
		log = log.With("action", action)
	}
	return log
}

// WithSearch annotates the logger with search keyword and result kind.
func WithSearch(log pslog.Logger, keyword string, kind schema.ResultKind) pslog.Logger {
	if keyword != "" {
		log = log.With("keyword", keyword)
	}
	if kind != "" {
		log = log.With("kind", string(kind))
	}
	return log
}

// WithIndex annotates the logger with a search result display index.
func WithIndex(log pslog.Logger, index string) pslog.Logger {
	if index != "" {
		log = log.With("index", index)
	}
	return log
}

// ContextWithAction stores the action marker on the context for log de-duplication.
func ContextWithAction(ctx context.Context, action string) context.Context {
	if ctx == nil || action == "" {
		return ctx
	}
	return context.WithValue(ctx, actionKey, action)
}

// ContextWithActionLogger attaches the logger and action marker to the context.
func ContextWithActionLogger(ctx context.Context, log pslog.Logger, action string) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithAction(ctx, action)
}
