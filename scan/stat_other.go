//go:build !unix

package scan

import "os"

func statOf(info os.FileInfo) fileStat {
	return fileStat{actual: info.Size()}
}
