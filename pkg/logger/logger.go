package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки логгера.
type Config struct {
	Level      string // debug, info, warn, error
	Encoding   string // json или console
	OutputPath string // пусто = stdout
	// Service и Env добавляются в каждую запись.
	Service string
	Env     string
	// Sample ограничивает поток одинаковых записей: первые 100 в секунду,
	// дальше каждая сотая.
	Sample bool
}

// New создает zap.Logger. Неизвестный уровень заменяется на info,
// неизвестная кодировка на json.
func New(cfg Config) (*zap.Logger, error) {
	zapConfig := zap.Config{
		Level:             parseLevel(cfg.Level),
		DisableCaller:     cfg.Env != "development",
		DisableStacktrace: true,
		Encoding:          parseEncoding(cfg.Encoding),
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{outputPath(cfg.OutputPath)},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     initialFields(cfg),
	}
	if cfg.Sample {
		zapConfig.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func parseLevel(raw string) zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	name := strings.ToLower(raw)
	if name == "" {
		name = "info"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		// Логгера еще нет, пишем в stderr.
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'. Error: %v\n", raw, err)
		level.SetLevel(zap.InfoLevel)
	}
	return level
}

func parseEncoding(raw string) string {
	if encoding := strings.ToLower(raw); encoding == "console" {
		return encoding
	}
	return "json"
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func outputPath(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

func initialFields(cfg Config) map[string]interface{} {
	fields := make(map[string]interface{}, 2)
	if cfg.Service != "" {
		fields["service"] = cfg.Service
	}
	if cfg.Env != "" {
		fields["env"] = cfg.Env
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
