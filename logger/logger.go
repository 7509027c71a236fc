package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Format names accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger is a zerolog logger bound to one service. Derived loggers share
// the output and level of their parent.
type Logger struct {
	zl      zerolog.Logger
	service string
}

var (
	globalMu sync.RWMutex
	global   *Logger
)

// Init installs the process-wide logger built from cfg.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	l := New(&cfg, cfg.ServiceName)
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the logger installed by Init. Before Init it
// returns an info-level console logger on stderr.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	cfg := Config{}
	cfg.ApplyDefaults()
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New(&cfg, "")
	}
	return global
}

// WithComponent derives a component logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// New builds a logger writing to the output cfg names.
func New(cfg *Config, service string) *Logger {
	return newLogger(cfg, service, outputWriter(cfg.Output))
}

func newLogger(cfg *Config, service string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var zc zerolog.Context
	switch strings.ToLower(cfg.Format) {
	case FormatConsole, FormatPretty:
		zc = zerolog.New(consoleWriter(w, cfg.NoColor)).Level(level).With()
	default:
		zc = zerolog.New(w).Level(level).With()
		if service != "" {
			zc = zc.Str("service", service)
		}
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		// emit and the level method sit between the caller and Msg.
		zc = zc.CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 2)
	}
	return &Logger{zl: zc.Logger(), service: service}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithComponent tags every entry with the subsystem that wrote it.
func (l *Logger) WithComponent(name string) *Logger {
	return l.with(FieldComponent, name)
}

// WithRunID tags every entry with the scheduling run it belongs to.
func (l *Logger) WithRunID(id string) *Logger {
	return l.with(FieldRunID, id)
}

func (l *Logger) with(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger(), service: l.service}
}

// Debug logs at debug level. Every fields map is merged into the entry.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	if event == nil {
		return
	}
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

var levelColors = map[string]int{
	zerolog.LevelDebugValue: 36,
	zerolog.LevelInfoValue:  32,
	zerolog.LevelWarnValue:  33,
	zerolog.LevelErrorValue: 31,
	zerolog.LevelFatalValue: 35,
}

// consoleWriter renders "15:04:05 [INF] message key:value".
func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			tag := strings.ToUpper(lvl)
			if len(tag) > 3 {
				tag = tag[:3]
			}
			tag = "[" + tag + "]"
			if c, ok := levelColors[lvl]; ok && !noColor {
				return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, tag)
			}
			return tag
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
}
