package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
)

// Log is the process-wide logger. It writes to stderr until Init replaces it.
var Log *GameLog

// GameLog wraps logrus.Logger with the game's field helpers.
type GameLog struct {
	*logrus.Logger
}

const (
	// MaxLogAge is how long rotated log files are kept.
	MaxLogAge = 7 * 24 * time.Hour
	// RotationTime is how often a new log file is started.
	RotationTime = 24 * time.Hour

	fileTimestampFormat    = "2006-01-02 15:04:05.000 MST"
	consoleTimestampFormat = "15:04:05"
)

var fieldsOrder = []string{
	common.SessionID, common.UserName, common.LevelName, common.ModeName, common.GeneratorName, common.StoreDriver,
}

func init() {
	Log = newConsole(os.Stderr, logrus.InfoLevel, false)
}

// Options configures Init and New.
type Options struct {
	// Dir receives ipsprint.log. Empty logs to Output instead.
	Dir string
	// Level is a logrus level name. Empty means info.
	Level string
	// Verbose forces debug level and tags every line with its level.
	Verbose bool
	// Output is the console writer when Dir is empty. Defaults to stderr.
	Output io.Writer
}

// Init replaces the global Log.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// New builds a logger without touching the global one.
func New(opts Options) (*GameLog, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = parsed
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}

	if opts.Dir == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		return newConsole(out, level, opts.Verbose), nil
	}
	return newFile(opts.Dir, level, opts.Verbose)
}

func displayMode(verbose bool) LevelNameDisplayMode {
	if verbose {
		return ShowAll
	}
	return ShowAboveWarn
}

func newConsole(out io.Writer, level logrus.Level, verbose bool) *GameLog {
	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(out)
	l.SetFormatter(&Formatter{
		TimestampFormat:        consoleTimestampFormat,
		DisplayLevelName:       displayMode(verbose),
		DisableCaller:          true,
		FieldsDisplayWithOrder: fieldsOrder,
	})
	return &GameLog{Logger: l}
}

// newFile sends every enabled level to a daily rotated file. The terminal is
// left alone so the TUI owns the screen.
func newFile(dir string, level logrus.Level, verbose bool) (*GameLog, error) {
	if err := os.MkdirAll(dir, common.FileMode0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create log directory %s", dir)
	}
	path := filepath.Join(dir, common.LogFileName)
	writer, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(MaxLogAge),
		rotatelogs.WithRotationTime(RotationTime),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to initialize log rotation for %s", path)
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetReportCaller(true)
	formatter := &Formatter{
		TimestampFormat:        fileTimestampFormat,
		NoColors:               true,
		DisplayLevelName:       displayMode(verbose),
		FieldsDisplayWithOrder: fieldsOrder,
	}
	l.SetFormatter(formatter)

	writers := lfshook.WriterMap{}
	for _, lvl := range logrus.AllLevels {
		if l.IsLevelEnabled(lvl) {
			writers[lvl] = writer
		}
	}
	l.Hooks.Add(lfshook.NewHook(writers, formatter))
	l.SetOutput(io.Discard)
	return &GameLog{Logger: l}, nil
}

// ForSession tags entries with a play session and its user.
func (gl *GameLog) ForSession(sessionID, user string) *logrus.Entry {
	return gl.WithFields(logrus.Fields{common.SessionID: sessionID, common.UserName: user})
}

// ForRound tags entries with everything that identifies a round.
func (gl *GameLog) ForRound(sessionID, user string, level common.Level, mode common.Mode) *logrus.Entry {
	return gl.ForSession(sessionID, user).WithFields(logrus.Fields{common.LevelName: level, common.ModeName: mode})
}

func (gl *GameLog) ForGenerator(name string) *logrus.Entry {
	return gl.WithField(common.GeneratorName, name)
}

func (gl *GameLog) ForStore(driver string) *logrus.Entry {
	return gl.WithField(common.StoreDriver, driver)
}
