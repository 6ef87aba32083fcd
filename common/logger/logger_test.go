package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"Stderr", Config{Type: "stderr", Level: 3}, false},
		{"EmptyTypeDefaultsToStderr", Config{Level: 3}, false},
		{"Stdout", Config{Type: "stdout", Level: 3}, false},
		{"Logfile", Config{Type: "logfile", File: filepath.Join(t.TempDir(), "updraft.log"), Level: 3}, false},
		{"LogfileWithoutPath", Config{Type: "logfile", Level: 3}, true},
		{"UnknownType", Config{Type: "pigeon", Level: 3}, true},
		{"InvalidLevel", Config{Type: "stderr", Level: 9}, true},
		{"Developer", Config{Developer: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			l.Debug("debug message")
			l.Info("info message")
		})
	}
}

func TestLevel(t *testing.T) {
	want := map[int8]zapcore.Level{
		0: zapcore.FatalLevel,
		1: zapcore.ErrorLevel,
		2: zapcore.WarnLevel,
		3: zapcore.InfoLevel,
		4: zapcore.DebugLevel,
		5: zapcore.DebugLevel,
	}
	for in, expected := range want {
		got, err := Level(in)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
	_, err := Level(6)
	assert.Error(t, err)
	_, err = Level(-1)
	assert.Error(t, err)
}
