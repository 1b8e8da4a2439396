package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/pathlint/internal/utils/flags"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	loggerNameConstant                   = "pathlint"
)

// LogLevel is the minimum severity written to the diagnostic log.
type LogLevel string

const (
	LogLevelDebug LogLevel = logLevelDebugStringConstant
	LogLevelInfo  LogLevel = logLevelInfoStringConstant
	LogLevelWarn  LogLevel = logLevelWarnStringConstant
	LogLevelError LogLevel = logLevelErrorStringConstant

	// DefaultLogLevel keeps the diagnostic log quiet unless something fails.
	DefaultLogLevel = LogLevelError
)

// LogFormat selects the diagnostic log encoding.
type LogFormat string

const (
	LogFormatStructured LogFormat = logFormatStructuredStringConstant
	LogFormatConsole    LogFormat = logFormatConsoleStringConstant

	DefaultLogFormat = LogFormatConsole
)

// LogLevelChoices lists the accepted log levels from most to least verbose.
func LogLevelChoices() []string {
	return []string{logLevelDebugStringConstant, logLevelInfoStringConstant, logLevelWarnStringConstant, logLevelErrorStringConstant}
}

// LogFormatChoices lists the accepted log formats.
func LogFormatChoices() []string {
	return []string{logFormatStructuredStringConstant, logFormatConsoleStringConstant}
}

// UnmarshalText accepts any letter case. Blank values resolve to DefaultLogLevel.
func (level *LogLevel) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*level = DefaultLogLevel
		return nil
	}
	matchedChoice, matched := flags.MatchChoice(string(text), LogLevelChoices())
	if !matched {
		return fmt.Errorf(unsupportedLogLevelTemplateConstant, text)
	}
	*level = LogLevel(matchedChoice)
	return nil
}

// UnmarshalText accepts any letter case. Blank values resolve to DefaultLogFormat.
func (format *LogFormat) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*format = DefaultLogFormat
		return nil
	}
	matchedChoice, matched := flags.MatchChoice(string(text), LogFormatChoices())
	if !matched {
		return fmt.Errorf(unsupportedLogFormatTemplateConstant, text)
	}
	*format = LogFormat(matchedChoice)
	return nil
}

func (level LogLevel) zapLevel() (zapcore.Level, error) {
	switch level {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, level)
	}
}

func (format LogFormat) encoder() (zapcore.Encoder, error) {
	encoderConfiguration := zap.NewProductionEncoderConfig()
	switch format {
	case LogFormatStructured:
		return zapcore.NewJSONEncoder(encoderConfiguration), nil
	case LogFormatConsole:
		encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfiguration), nil
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, format)
	}
}

// LoggerFactory builds the diagnostic logger. The report stream is written
// separately, so the sink defaults to stderr.
type LoggerFactory struct {
	sink zapcore.WriteSyncer
}

// NewLoggerFactory returns a factory that logs to stderr.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{sink: zapcore.Lock(os.Stderr)}
}

// NewLoggerFactoryForWriter returns a factory that logs to destination.
func NewLoggerFactoryForWriter(destination io.Writer) *LoggerFactory {
	return &LoggerFactory{sink: zapcore.Lock(zapcore.AddSync(destination))}
}

// CreateLogger builds a logger filtered at requestedLogLevel and encoded as requestedLogFormat.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	minimumLevel, levelError := requestedLogLevel.zapLevel()
	if levelError != nil {
		return nil, levelError
	}
	encoder, formatError := requestedLogFormat.encoder()
	if formatError != nil {
		return nil, formatError
	}

	sink := factory.sink
	if sink == nil {
		sink = zapcore.Lock(os.Stderr)
	}
	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(minimumLevel))
	return zap.New(core, zap.ErrorOutput(sink), zap.AddStacktrace(zapcore.DPanicLevel)).Named(loggerNameConstant), nil
}
