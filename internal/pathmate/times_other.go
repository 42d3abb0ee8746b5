//go:build !linux && !darwin && !windows

package pathmate

import (
	"io/fs"
	"time"
)

func accessTime(info fs.FileInfo) time.Time { return info.ModTime() }

func changeTime(info fs.FileInfo) time.Time { return info.ModTime() }
