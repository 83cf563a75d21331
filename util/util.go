package util

import (
	"io/fs"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

var (
	homeDir     string
	homeDirErr  error
	homeDirOnce sync.Once
)

// Home returns the home directory for the current user.
// It caches the result for subsequent calls.
func Home() (string, error) {
	homeDirOnce.Do(func() {
		u, err := user.Current()
		if err == nil && u.HomeDir != "" {
			homeDir = u.HomeDir
			return
		}
		homeDir, homeDirErr = os.UserHomeDir()
		if homeDirErr != nil {
			homeDirErr = errors.Wrap(homeDirErr, "failed to determine home directory")
		}
	})
	return homeDir, homeDirErr
}

// FileExists checks if a file exists at the given path and is not a directory.
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDir creates a directory if it does not already exist, like `mkdir -p`.
func EnsureDir(dirPath string, perm fs.FileMode) error {
	if err := os.MkdirAll(dirPath, perm); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dirPath)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to filePath and
// renames it into place, so readers never see a half written file.
func WriteFileAtomic(filePath string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return errors.Wrapf(err, "failed to move %s into place", filePath)
	}
	return nil
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LookupEnvInt reads key as an integer. ok is false when key is unset or
// empty; a value that does not parse is an error.
func LookupEnvInt(key string) (n int, ok bool, err error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(value)
	if err != nil {
		return 0, true, errors.Wrapf(err, "%s must be an integer", key)
	}
	return n, true, nil
}

// TruncateString shortens s to maxLength, ellipsis included.
func TruncateString(s string, maxLength int, ellipsis string) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	e := []rune(ellipsis)
	if maxLength <= len(e) {
		if maxLength < 0 {
			maxLength = 0
		}
		return string(e[:maxLength])
	}
	return string(r[:maxLength-len(e)]) + ellipsis
}

// UniqueStrings returns the unique strings of slice in order of first appearance.
func UniqueStrings(slice []string) []string {
	seen := make(map[string]struct{}, len(slice))
	result := make([]string, 0, len(slice))
	for _, str := range slice {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

// Round rounds val to precision decimal places. NaN and Inf are returned as is.
func Round(val float64, precision int) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	p := math.Pow10(precision)
	return math.Floor(val*p+0.5) / p
}
