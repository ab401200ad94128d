package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level int

const (
	FATAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

var zerologLevels = map[Level]zerolog.Level{
	FATAL:   zerolog.FatalLevel,
	ERROR:   zerolog.ErrorLevel,
	WARNING: zerolog.WarnLevel,
	INFO:    zerolog.InfoLevel,
	DEBUG:   zerolog.DebugLevel,
}

// ParseLevel returns the level for names like debug, info, warn or error.
func ParseLevel(name string) (Level, error) {
	l, err := zerolog.ParseLevel(name)
	if err != nil {
		return INFO, err
	}
	switch l {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return DEBUG, nil
	case zerolog.InfoLevel, zerolog.NoLevel:
		return INFO, nil
	case zerolog.WarnLevel:
		return WARNING, nil
	case zerolog.ErrorLevel:
		return ERROR, nil
	}
	return FATAL, nil
}

var (
	mu   sync.Mutex
	base = newBase(os.Stderr)
)

func newBase(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
	return zerolog.New(console).With().Timestamp().Logger()
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level := base.GetLevel()
	base = newBase(w).Level(level)
}

// SetLevel sets the minimum level of all loggers.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(zerologLevels[level])
}

// SetQuiet only prints warnings and errors.
func SetQuiet(quiet bool) {
	if quiet {
		SetLevel(WARNING)
	} else {
		SetLevel(INFO)
	}
}

func current() *zerolog.Logger {
	mu.Lock()
	l := base
	mu.Unlock()
	return &l
}

func Debugf(msg string, args ...interface{}) {
	current().Debug().Msgf(msg, args...)
}

func Infof(msg string, args ...interface{}) {
	current().Info().Msgf(msg, args...)
}

func Warnf(msg string, args ...interface{}) {
	current().Warn().Msgf(msg, args...)
}

func Errorf(msg string, args ...interface{}) {
	current().Error().Msgf(msg, args...)
}

type Logger struct {
	Component string

	mu    sync.Mutex
	steps map[string]time.Time
}

func NewLogger(component string) *Logger {
	return &Logger{Component: component}
}

func (l *Logger) event(level Level) *zerolog.Event {
	z := current()
	var e *zerolog.Event
	switch level {
	case FATAL:
		// no os.Exit here, Fatal/Fatalf exit after the message is written
		e = z.WithLevel(zerolog.FatalLevel)
	case ERROR:
		e = z.Error()
	case WARNING:
		e = z.Warn()
	case DEBUG:
		e = z.Debug()
	default:
		e = z.Info()
	}
	if l.Component != "" {
		e = e.Str("component", l.Component)
	}
	return e
}

func (l *Logger) Print(args ...interface{}) {
	l.event(INFO).Msg(fmt.Sprint(args...))
}

func (l *Logger) Printf(msg string, args ...interface{}) {
	l.event(INFO).Msgf(msg, args...)
}

// Infof is the same as Printf.
func (l *Logger) Infof(msg string, args ...interface{}) {
	l.event(INFO).Msgf(msg, args...)
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.event(DEBUG).Msgf(msg, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.event(WARNING).Msg(fmt.Sprint(args...))
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	l.event(WARNING).Msgf(msg, args...)
}

// Warningf is the same as Warnf.
func (l *Logger) Warningf(msg string, args ...interface{}) {
	l.event(WARNING).Msgf(msg, args...)
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.event(ERROR).Msgf(msg, args...)
}

func (l *Logger) Fatal(args ...interface{}) {
	l.event(FATAL).Msg(fmt.Sprint(args...))
	os.Exit(1)
}

func (l *Logger) Fatalf(msg string, args ...interface{}) {
	l.event(FATAL).Msgf(msg, args...)
	os.Exit(1)
}

func (l *Logger) Printfl(level Level, msg string, args ...interface{}) {
	l.event(level).Msgf(msg, args...)
}

// StartStep logs the start of a long running step. StopStep with the
// returned name logs its duration.
func (l *Logger) StartStep(msg string) string {
	l.mu.Lock()
	if l.steps == nil {
		l.steps = make(map[string]time.Time)
	}
	l.steps[msg] = time.Now()
	l.mu.Unlock()
	l.event(INFO).Msg(msg)
	return msg
}

func (l *Logger) StopStep(msg string) {
	l.mu.Lock()
	start, ok := l.steps[msg]
	delete(l.steps, msg)
	l.mu.Unlock()
	if !ok {
		l.event(WARNING).Msgf("step %q was never started", msg)
		return
	}
	l.event(INFO).Dur("took", time.Since(start)).Msg(msg)
}
