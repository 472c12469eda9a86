// README: zerolog construction; console writer in development, JSON otherwise.
package infra

import (
	"os"

	"github.com/rs/zerolog"
)

func NewLogger(dev bool) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if dev {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}
