package birthtime

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func creationTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, &os.PathError{Op: "statx", Path: path, Err: err}
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, &os.PathError{Op: "statx", Path: path, Err: ErrUnsupported}
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
}
