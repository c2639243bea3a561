package birthtime

import (
	"os"
	"syscall"
	"time"
)

func creationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, &os.PathError{Op: "stat", Path: path, Err: ErrUnsupported}
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
