// Package logger provides the shared zap-based logger. All binaries configure
// logging through the same Config so flags and config files look identical
// everywhere.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where log messages go and how verbose they are. The keys
// mirror the flag names so it can be decoded straight out of viper.
type Config struct {
	// Type is one of stderr, stdout, or logfile.
	Type string `mapstructure:"type"`
	// File is the log file path when Type is logfile. Missing directories are
	// created as needed.
	File string `mapstructure:"file"`
	// Level adjusts verbosity: 0=Fatal, 1=Error, 2=Warn, 3=Info, 4+5=Debug.
	Level int8 `mapstructure:"level"`
	// MaxSize is the size in megabytes at which a logfile is rotated.
	MaxSize int `mapstructure:"max-size"`
	// NumRotatedFiles is how many rotated logfiles to keep.
	NumRotatedFiles int `mapstructure:"num-rotated-files"`
	// Developer enables development logging with stack traces and the
	// equivalent of Level 5 on stdout; all other settings are ignored.
	Developer bool `mapstructure:"developer"`
}

// Logger wraps zap so callers can use the zap API directly while the
// construction details stay in one place.
type Logger struct {
	*zap.Logger
}

// New builds a logger for the given configuration.
func New(cfg Config) (*Logger, error) {
	if cfg.Developer {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("initializing developer logging: %w", err)
		}
		return &Logger{Logger: l}, nil
	}

	level, err := Level(cfg.Level)
	if err != nil {
		return nil, err
	}

	var sink zapcore.WriteSyncer
	switch cfg.Type {
	case "stderr", "":
		sink = zapcore.Lock(os.Stderr)
	case "stdout":
		sink = zapcore.Lock(os.Stdout)
	case "logfile":
		if cfg.File == "" {
			return nil, fmt.Errorf("log type %q requires a log file path", cfg.Type)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.NumRotatedFiles,
		})
	default:
		return nil, fmt.Errorf("unknown log type %q (valid types are 'stderr', 'stdout', 'logfile')", cfg.Type)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	return &Logger{Logger: zap.New(core, zap.ErrorOutput(sink))}, nil
}

// Level maps the numeric 0-5 scale onto zap levels.
func Level(l int8) (zapcore.Level, error) {
	switch l {
	case 0:
		return zapcore.FatalLevel, nil
	case 1:
		return zapcore.ErrorLevel, nil
	case 2:
		return zapcore.WarnLevel, nil
	case 3:
		return zapcore.InfoLevel, nil
	case 4, 5:
		return zapcore.DebugLevel, nil
	}
	return zapcore.InvalidLevel, fmt.Errorf("invalid log level %d (valid levels are 0-5)", l)
}
