package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensylisir/ipsprint/common"
)

func TestDefaultLogIsUsable(t *testing.T) {
	require.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Log.ForGenerator("test").Debug("hello")
	})
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf, Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.ForRound("s1", "ana", common.LevelEntry, common.ModeMastery).Info("round started")
	out := buf.String()
	assert.Contains(t, out, "[Session:s1 | User:ana | Level:Entry | Mode:mastery] round started")
	assert.NotContains(t, out, "[INFO]", "info lines carry no level tag unless verbose")

	buf.Reset()
	l.Warn("careful")
	assert.Contains(t, buf.String(), "[WARN]")
}

func TestNew_VerboseOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf, Level: "error", Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Info("visible")
	assert.Contains(t, buf.String(), "[INFO]")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestInit_File(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(Options{Dir: dir, Level: "info"}))

	Log.ForStore("file").Info("saved progress")
	Log.Debug("not written")

	data, err := os.ReadFile(filepath.Join(dir, common.LogFileName))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "[Store:file] saved progress")
	assert.Contains(t, out, "logger_test.go", "file logs report the caller")
	assert.NotContains(t, out, "not written")
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatter_FieldOrder(t *testing.T) {
	f := &Formatter{
		DisableTimestamp:       true,
		NoColors:               true,
		DisplayLevelName:       ShowAll,
		FieldsDisplayWithOrder: []string{"b", "a"},
	}
	entry := &logrus.Entry{
		Data:    logrus.Fields{"a": 1, "z": 3, "b": 2, "c": "x"},
		Time:    time.Now(),
		Level:   logrus.ErrorLevel,
		Message: "msg",
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[ERRO] [b:2 | a:1 | c:x | z:3] msg\n", string(out))
}

func TestFormatter_Options(t *testing.T) {
	entry := &logrus.Entry{
		Data:    logrus.Fields{"k": strings.Repeat("v", 20)},
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "m",
	}

	f := &Formatter{TimestampFormat: "15:04:05", NoColors: true, DisplayLevelName: ShowAboveWarn}
	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "03:04:05 [k:"+strings.Repeat("v", 20)+"] m\n", string(out))

	entry.Level = logrus.WarnLevel
	out, err = f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "03:04:05 [WARN] [k:"+strings.Repeat("v", 20)+"] m\n", string(out))

	f = &Formatter{DisableTimestamp: true, DisplayLevelName: ShowAll}
	entry.Level = logrus.InfoLevel
	entry.Data = logrus.Fields{"a": 1, "b": 2}
	out, err = f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[37m[INFO]\x1b[0m [a:1 | b:2] m\n", string(out))
}
