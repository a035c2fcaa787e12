package testutil

import (
	"io"

	"github.com/dtroode/accounts-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithFormat(io.Discard, 0, "text")
}
