package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Leveled logging facade used across the service. Backed by zerolog so the
// output is structured JSON; call sites keep the simple printf-style API.
// Init(level) should be called early during startup (LOG_LEVEL env).

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown or empty values fall back to info.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log = log.Level(lvl)
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debugf(format string, v ...interface{}) {
	l := get()
	l.Debug().Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	l := get()
	l.Info().Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	l := get()
	l.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	l := get()
	l.Error().Msgf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	l := get()
	l.Fatal().Msgf(format, v...)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	return get().GetLevel().String()
}
