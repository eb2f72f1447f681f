package executor

import (
	"fmt"
	"os"
)

// rotateAtStart implements the start-of-run rotation policy: it never
// rotates mid-run, only immediately before a fresh invocation spawns.
func rotateAtStart(logPath string, maxBytes int64, maxFiles int) error {
	if maxBytes == 0 {
		return nil
	}
	info, err := os.Stat(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() <= maxBytes {
		return nil
	}

	if maxFiles <= 1 {
		return os.Truncate(logPath, 0)
	}

	archiveCount := maxFiles - 1
	for i := archiveCount - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", logPath, i)
		dst := fmt.Sprintf("%s.%d", logPath, i+1)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		_ = os.Remove(dst)
		if err := os.Rename(src, dst); err != nil {
			return err
		}
	}
	return os.Rename(logPath, logPath+".1")
}
