//go:build !linux && !darwin && !windows

package birthtime

import (
	"os"
	"time"
)

func creationTime(path string) (time.Time, error) {
	if _, err := os.Stat(path); err != nil {
		return time.Time{}, err
	}
	return time.Time{}, &os.PathError{Op: "stat", Path: path, Err: ErrUnsupported}
}
