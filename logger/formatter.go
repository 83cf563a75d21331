package logger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	resetColorCode   = 0
	fieldSeparator   = " | "
	defaultTimestamp = time.RFC3339
)

const (
	colorRed    = 31
	colorYellow = 33
	colorBlue   = 36
	colorGray   = 37
)

// LevelNameDisplayMode controls which entries carry a [LEVEL] tag.
type LevelNameDisplayMode int

const (
	ShowAll LevelNameDisplayMode = iota
	ShowAboveWarn
)

// Formatter renders one entry per line:
//
//	15:04:05 [WARN] [Session:3f2a | User:ana | Level:Entry] message (file.go:12 fn)
//
// Fields named in FieldsDisplayWithOrder come first, the rest follow sorted.
type Formatter struct {
	TimestampFormat  string
	NoColors         bool
	DisableTimestamp bool
	DisplayLevelName LevelNameDisplayMode
	// FieldsDisplayWithOrder lists field keys printed ahead of the others.
	FieldsDisplayWithOrder []string
	DisableCaller          bool
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = defaultTimestamp
		}
		b.WriteString(entry.Time.Format(format))
		b.WriteByte(' ')
	}

	if f.showLevel(entry.Level) {
		level := entry.Level.String()
		if len(level) > 4 {
			level = level[:4]
		}
		level = strings.ToUpper(level)
		if f.NoColors {
			fmt.Fprintf(b, "[%s] ", level)
		} else {
			fmt.Fprintf(b, "\x1b[%dm[%s]\x1b[%dm ", colorByLevel(entry.Level), level, resetColorCode)
		}
	}

	if len(entry.Data) > 0 {
		b.WriteByte('[')
		for i, key := range f.fieldOrder(entry.Data) {
			if i > 0 {
				b.WriteString(fieldSeparator)
			}
			fmt.Fprintf(b, "%s:%v", key, entry.Data[key])
		}
		b.WriteString("] ")
	}

	b.WriteString(entry.Message)

	if !f.DisableCaller && entry.HasCaller() {
		b.WriteByte(' ')
		f.writeCaller(b, entry.Caller)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *Formatter) showLevel(level logrus.Level) bool {
	if f.DisplayLevelName == ShowAboveWarn {
		return level <= logrus.WarnLevel
	}
	return true
}

// fieldOrder returns the ordered keys first, then the remaining keys sorted.
func (f *Formatter) fieldOrder(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	seen := make(map[string]bool, len(f.FieldsDisplayWithOrder))
	for _, key := range f.FieldsDisplayWithOrder {
		if _, ok := data[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(data)-len(keys))
	for key := range data {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func (f *Formatter) writeCaller(b *bytes.Buffer, frame *runtime.Frame) {
	fn := filepath.Base(frame.Function)
	if i := strings.LastIndex(fn, "."); i >= 0 {
		fn = fn[i+1:]
	}
	fmt.Fprintf(b, "(%s:%d %s)", filepath.Base(frame.File), frame.Line, fn)
}

func colorByLevel(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel:
		return colorBlue
	case logrus.WarnLevel:
		return colorYellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	default:
		return colorGray
	}
}
