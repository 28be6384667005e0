package log

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	zap.ReplaceGlobals(New().Desugar())
}

// New creates a SugaredLogger writing to stderr, overriding any default
// options with the input options.
//
// The default options configure a text logger at the info level. New will
// panic if any errors occur.
func New(options ...Option) *zap.SugaredLogger {
	const op = "log.New"

	cfg := &Config{
		Level:        InfoLevel,
		Format:       TextFormat,
		GlobalFields: make(map[string]string),
	}
	for _, opt := range options {
		opt(cfg)
	}

	var lvl zap.AtomicLevel
	switch strings.ToLower(cfg.Level) {
	case DebugLevel:
		lvl = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case WarnLevel:
		lvl = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case ErrorLevel:
		lvl = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	case FatalLevel:
		lvl = zap.NewAtomicLevelAt(zapcore.FatalLevel)
	default:
		lvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	var enc string
	var timeEncoder zapcore.TimeEncoder
	var levelEncoder zapcore.LevelEncoder
	switch strings.ToLower(cfg.Format) {
	case JSONFormat:
		enc = "json"
		timeEncoder = zapcore.ISO8601TimeEncoder
		levelEncoder = zapcore.LowercaseLevelEncoder
	default:
		enc = "console"
		timeEncoder = consoleTimeEncoder
		levelEncoder = zapcore.CapitalLevelEncoder
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "lvl",
		EncodeLevel:      levelEncoder,
		EncodeDuration:   zapcore.SecondsDurationEncoder,
		ConsoleSeparator: consoleSeparator,
	}

	if !cfg.OmitTimestamp {
		encoderCfg.EncodeTime = timeEncoder
		encoderCfg.TimeKey = "ts"
	}

	zapCfg := zap.Config{
		Level:            lvl,
		Encoding:         enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderCfg,
	}

	lg, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Errorf("%s: %v", op, err))
	}

	var globalFields []zap.Field
	for k, v := range cfg.GlobalFields {
		globalFields = append(globalFields, zap.String(k, v))
	}
	if len(globalFields) > 0 {
		lg = lg.With(globalFields...)
	}
	zap.ReplaceGlobals(lg)
	return lg.Sugar()
}

func nilS() func() *zap.SugaredLogger {
	var nop = zap.NewNop().Sugar()
	return func() *zap.SugaredLogger {
		return nop
	}
}

var (
	// G represents the global logger
	G = zap.S

	// N represents a nil logger
	N = nilS()
)

const consoleSeparator = " | "

func consoleTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	var buf bytes.Buffer
	buf.WriteString(t.Format("2006-01-02"))
	buf.WriteString(consoleSeparator)
	buf.WriteString(t.Format("15:04:05.000"))
	enc.AppendString(buf.String())
}
