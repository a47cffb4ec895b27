package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	entries []string
}

func (l *testLogger) Info(_ map[string]any, msg string)  { l.entries = append(l.entries, "INFO:"+msg) }
func (l *testLogger) Error(_ map[string]any, msg string) { l.entries = append(l.entries, "ERROR:"+msg) }
func (l *testLogger) Debug(_ map[string]any, msg string) { l.entries = append(l.entries, "DEBUG:"+msg) }
func (l *testLogger) Warn(_ map[string]any, msg string)  { l.entries = append(l.entries, "WARN:"+msg) }
func (l *testLogger) With(Fields) Logger                 { return l }

func TestActualZapLogger(t *testing.T) {
	Debug(map[string]any{
		"domain": "example.com",
		"count":  42,
		"strict": true,
	}, "test debug")
	Info(nil, "test info")
	Warn(nil, "test warn")
	Error(nil, "test error")

	child := GetLogger().With(map[string]any{"component": "rules"})
	require.NotNil(t, child)
	child.Info(map[string]any{"domain": "a.com"}, "child info")
}

func TestSetLoggerAndGlobalLogging(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)
	tlog := &testLogger{}
	SetLogger(tlog)

	Info(nil, "info msg")
	Error(nil, "error msg")
	Debug(nil, "debug msg")
	Warn(nil, "warn msg")

	assert.Equal(t, []string{
		"INFO:info msg",
		"ERROR:error msg",
		"DEBUG:debug msg",
		"WARN:warn msg",
	}, tlog.entries)
}

func TestConfigure(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"dev debug", "dev", "debug", false},
		{"prod info", "prod", "info", false},
		{"upper case level", "prod", "WARN", false},
		{"invalid level", "dev", "notalevel", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Configure(tt.env, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.Debug(nil, "debug message")
	l.Info(nil, "info message")
	l.Warn(nil, "warn message")
	l.Error(nil, "error message")
	l.With(Fields{"k": "v"}).Info(nil, "child message")
}

func TestZapFieldsSorted(t *testing.T) {
	fields := zapFields(map[string]any{"b": 2, "a": 1, "c": 3})
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "c", fields[2].Key)
	assert.Nil(t, zapFields(nil))
}
