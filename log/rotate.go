package log

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxFileSize is the file size, in bytes, above which an existing log
// file is rotated when a file sink opens.
const DefaultMaxFileSize int64 = 40000

// RotationStrategy decides what happens to an oversized log file when a file
// sink opens.
type RotationStrategy int

const (
	// KeepOne deletes the oversized file.
	KeepOne RotationStrategy = iota
	// KeepAll renames the oversized file to a date-stamped archive.
	KeepAll
)

// String returns the name used by [ParseRotation].
func (s RotationStrategy) String() string {
	switch s {
	case KeepOne:
		return "keep-one"
	case KeepAll:
		return "keep-all"
	}

	return "unknown"
}

// ParseRotation parses "keep-one" or "keep-all" (case-insensitive; underscores
// are accepted in place of hyphens).
func ParseRotation(s string) (RotationStrategy, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "keep-one", "keepone":
		return KeepOne, nil
	case "keep-all", "keepall":
		return KeepAll, nil
	}

	return 0, ErrUnknownRotation
}

// GetAllRotationStrings returns the names of all rotation strategies.
func GetAllRotationStrings() []string {
	return []string{KeepOne.String(), KeepAll.String()}
}

// LogFileName returns the active log file name for appName.
func LogFileName(appName string) string {
	return appName + ".log"
}

// ArchiveFileName returns the KeepAll archive name for appName on the civil date
// of now. A positive n adds a disambiguating counter.
func ArchiveFileName(appName string, now time.Time, n int) string {
	name := appName + "-" + now.Format(dateLayout)
	if n > 0 {
		name += "." + strconv.Itoa(n)
	}

	return name + ".log"
}

// PrepareLogFile creates dir if needed and applies the rotation policy to
// {dir}/{appName}.log, returning that path. The caller opens the returned path
// for appending.
//
// A file larger than maxSize is deleted under [KeepOne] or renamed to
// [ArchiveFileName] under [KeepAll]. KeepAll never overwrites an existing
// archive; repeated rotations on one day get the suffixes .1, .2, and so on.
func PrepareLogFile(dir, appName string, strategy RotationStrategy, maxSize int64, now time.Time) (string, error) {
	if appName == "" {
		return "", fmt.Errorf("%w: %w: empty application name", ErrSinkOpen, ErrInvalidArgument)
	}

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("%w: create log directory: %w", ErrSinkOpen, err)
	}

	path := filepath.Join(dir, LogFileName(appName))

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}

	if err != nil {
		return "", fmt.Errorf("%w: stat log file: %w", ErrSinkOpen, err)
	}

	if info.Size() <= maxSize {
		return path, nil
	}

	switch strategy {
	case KeepOne:
		err = os.Remove(path)
		if err != nil {
			return "", fmt.Errorf("%w: remove log file: %w", ErrSinkOpen, err)
		}

	case KeepAll:
		archive, err := freeArchivePath(dir, appName, now)
		if err != nil {
			return "", err
		}

		err = os.Rename(path, archive)
		if err != nil {
			return "", fmt.Errorf("%w: archive log file: %w", ErrSinkOpen, err)
		}

	default:
		return "", fmt.Errorf("%w: %w: %d", ErrSinkOpen, ErrUnknownRotation, strategy)
	}

	return path, nil
}

// freeArchivePath returns the first archive path for now that does not exist.
func freeArchivePath(dir, appName string, now time.Time) (string, error) {
	for n := 0; ; n++ {
		p := filepath.Join(dir, ArchiveFileName(appName, now, n))

		_, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}

		if err != nil {
			return "", fmt.Errorf("%w: stat archive: %w", ErrSinkOpen, err)
		}
	}
}
