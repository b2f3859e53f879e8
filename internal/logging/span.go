package logging

import (
	"time"

	"go.uber.org/zap"
)

// Span is a logged interval with explicit lifecycle records, so the
// structured sink captures more than leaf log lines. Start/end/close events
// go out at debug level; the console filter hides them by default while the
// file sink keeps the full history.
type Span struct {
	logger *zap.Logger
	start  time.Time
}

// BeginSpan opens a span and emits its start record.
func BeginSpan(name string, fields ...zap.Field) *Span {
	logger := zap.L().With(zap.String("span", name)).With(fields...)
	logger.Debug("span start")
	return &Span{logger: logger, start: time.Now()}
}

// End emits the end and close records with the elapsed duration. err, when
// non-nil, is attached to the end record.
func (s *Span) End(err error) {
	elapsed := time.Since(s.start)
	if err != nil {
		s.logger.Debug("span end", zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		s.logger.Debug("span end", zap.Duration("elapsed", elapsed))
	}
	s.logger.Debug("span close")
}
