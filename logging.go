package session

import "github.com/rs/zerolog"

// zerologAdapter bridges the package Logger interface to a zerolog.Logger so
// hosts that standardize on zerolog can plug their logger in unchanged.
type zerologAdapter struct {
	log zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger in the Logger interface.
func NewZerologLogger(log zerolog.Logger) Logger {
	return zerologAdapter{log: log}
}

func (z zerologAdapter) Debug(format string, args ...any) {
	z.log.Debug().Msgf(format, args...)
}

func (z zerologAdapter) Info(format string, args ...any) {
	z.log.Info().Msgf(format, args...)
}

func (z zerologAdapter) Warn(format string, args ...any) {
	z.log.Warn().Msgf(format, args...)
}

func (z zerologAdapter) Error(format string, args ...any) {
	z.log.Error().Msgf(format, args...)
}
