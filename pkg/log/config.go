package log

import (
	"fmt"
	"strings"
)

// Config declares a logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// Outputs lists targets: "console" (default), "null", or "file:/path".
	Outputs          []string `json:"outputs" yaml:"outputs"`
	RedactKeys       []string `json:"redactKeys" yaml:"redactKeys"`
	SampleInitial    int      `json:"sampleInitial" yaml:"sampleInitial"`
	SampleThereafter int      `json:"sampleThereafter" yaml:"sampleThereafter"`
}

// ParseLevel parses debug|info|warn|error|fatal (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	opts := []LoggerOption{WithLevel(level), WithFormatter(formatter)}
	for _, o := range cfg.Outputs {
		switch {
		case o == "console":
			opts = append(opts, WithOutput(NewConsoleOutput()))
		case o == "null":
			opts = append(opts, WithOutput(NullOutput{}))
		case strings.HasPrefix(o, "file:"):
			fo, err := NewFileOutput(strings.TrimPrefix(o, "file:"))
			if err != nil {
				return nil, fmt.Errorf("log output %q: %w", o, err)
			}
			opts = append(opts, WithOutput(fo))
		default:
			return nil, fmt.Errorf("unknown log output %q", o)
		}
	}

	l := NewLogger(opts...).(*BaseLogger)
	h := l.handler.withRedactions(cfg.RedactKeys).withSampler(cfg.SampleInitial, cfg.SampleThereafter)
	return l.derive(h), nil
}
