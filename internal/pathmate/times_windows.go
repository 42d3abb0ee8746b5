//go:build windows

package pathmate

import (
	"io/fs"
	"syscall"
	"time"
)

func accessTime(info fs.FileInfo) time.Time {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}

	return time.Unix(0, data.LastAccessTime.Nanoseconds())
}

// changeTime reports the creation time; Windows has no inode change time.
func changeTime(info fs.FileInfo) time.Time {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}

	return time.Unix(0, data.CreationTime.Nanoseconds())
}
