package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the logger every lanekit command shares. Timestamps use
// a sub-second clock ("15:04:05.00") so pipeline stages under a second
// apart still read in order.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one unit of work, typically a pipeline stage, and reports
// the elapsed duration when it finishes. Single-goroutine use only.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts the clock. Call done when the work completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, e.g.
// "Rendered 2 formats (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey keeps this package's context values from colliding with other
// packages'.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. The serve mux uses this to hand each
// request the server's logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default() when
// none was set, so callers never need a nil check.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
