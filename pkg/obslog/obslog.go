// Package obslog wraps zap into the small logging surface the planner's
// components need: a package-level, nil-safe default and per-category
// child loggers matching the trace categories of spec.md §4.6
// (parser|verbs|actions|daemons|thief).
package obslog

import "go.uber.org/zap"

// Category names a planner trace category. Components log at this level
// via Logger.Category(cat) so a caller can toggle verbosity per category
// by configuring zap's level independently — this package does not
// implement the toggle itself, it only tags log lines so an external
// zap.Config (or a filtering core) can act on them.
type Category string

const (
	CategoryParser  Category = "parser"
	CategoryVerbs   Category = "verbs"
	CategoryActions Category = "actions"
	CategoryDaemons Category = "daemons"
	CategoryThief   Category = "thief"
)

// Logger is the planner-facing logging handle. The zero Logger is safe to
// use and discards everything, so components can take a Logger by value
// without callers having to wire zap in tests.
type Logger struct {
	z *zap.SugaredLogger
}

// New wraps z. Passing nil is equivalent to the zero Logger (a no-op).
func New(z *zap.Logger) Logger {
	if z == nil {
		return Logger{}
	}
	return Logger{z: z.Sugar()}
}

// NoOp returns a Logger that discards everything, for tests and library
// callers that don't want planner logging.
func NoOp() Logger { return Logger{} }

// Category returns a child Logger tagged with cat, or the no-op Logger if
// the receiver has no underlying zap logger.
func (l Logger) Category(cat Category) Logger {
	if l.z == nil {
		return l
	}
	return Logger{z: l.z.With("category", string(cat))}
}

// With returns a child Logger with the given key/value pairs attached.
func (l Logger) With(kv ...interface{}) Logger {
	if l.z == nil {
		return l
	}
	return Logger{z: l.z.With(kv...)}
}

func (l Logger) Debugw(msg string, kv ...interface{}) {
	if l.z != nil {
		l.z.Debugw(msg, kv...)
	}
}

func (l Logger) Infow(msg string, kv ...interface{}) {
	if l.z != nil {
		l.z.Infow(msg, kv...)
	}
}

func (l Logger) Warnw(msg string, kv ...interface{}) {
	if l.z != nil {
		l.z.Warnw(msg, kv...)
	}
}

func (l Logger) Errorw(msg string, kv ...interface{}) {
	if l.z != nil {
		l.z.Errorw(msg, kv...)
	}
}
