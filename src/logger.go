package mt63

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ //nolint:exhaustruct
	Prefix: "mt63",
})

// SetLogger replaces the package logger, for example to change the
// level or send it somewhere other than stderr.
func SetLogger(l *log.Logger) {
	logger = l
}

func Logger() *log.Logger {
	return logger
}
