package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// SetupLogger function setup logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// slogLogger adapts the process-wide slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// Debug implements Logger.Debug.
func (l *slogLogger) Debug(msg string, fields ...any) { l.logger.Debug(msg, fields...) }

// Info implements Logger.Info.
func (l *slogLogger) Info(msg string, fields ...any) { l.logger.Info(msg, fields...) }

// Warn implements Logger.Warn.
func (l *slogLogger) Warn(msg string, fields ...any) { l.logger.Warn(msg, fields...) }

// Error implements Logger.Error.
func (l *slogLogger) Error(msg string, fields ...any) { l.logger.Error(msg, fields...) }

// With implements Logger.With.
func (l *slogLogger) With(fields ...any) Logger {
	return &slogLogger{logger: l.logger.With(fields...), level: l.level}
}

// Enabled implements Logger.Enabled.
func (l *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return l.logger.Enabled(ctx, slog.Level(level))
}

// defaultProvider is the process-wide LoggerProvider used by GetLogger and
// GetLoggerWithName. It writes JSON records to stderr so library logging
// never mixes with the tutorial binaries' stdout contract.
type defaultProvider struct {
	mu     sync.Mutex
	level  *slog.LevelVar
	logger *slog.Logger
}

var provider = newDefaultProvider()

func newDefaultProvider() *defaultProvider {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return &defaultProvider{
		level:  level,
		logger: slog.New(handler),
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *defaultProvider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &slogLogger{logger: p.logger, level: p.level}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *defaultProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *defaultProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level.Set(slog.Level(level))
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	return provider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name.
//
// Example:
//
//	logger := log.GetLoggerWithName("gaussian_process.sgpr")
func GetLoggerWithName(name string) Logger {
	return provider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the default logger.
func SetLevel(level Level) {
	provider.SetLevel(level)
}
