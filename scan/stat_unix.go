//go:build unix

package scan

import (
	"os"
	"syscall"
)

func statOf(info os.FileInfo) fileStat {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileStat{actual: info.Size()}
	}
	return fileStat{
		actual: int64(st.Blocks) * 512,
		id:     inode{dev: uint64(st.Dev), ino: uint64(st.Ino)},
		nlink:  uint64(st.Nlink),
	}
}
