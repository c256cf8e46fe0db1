package delivery

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleSender logs codes instead of delivering them.
type ConsoleSender struct {
	logger zerolog.Logger
}

func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) SendCode(_ context.Context, email, code string) error {
	s.logger.Info().Str("email", email).Str("otp", code).Msg("one-time code issued")
	return nil
}
