package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"ducweb/entity"
)

type inode struct {
	dev, ino uint64
}

type fileStat struct {
	actual int64
	id     inode
	nlink  uint64
}

type scanner struct {
	fs      afero.Fs
	spinner *ProgressSpinner
	log     *slog.Logger

	mu    sync.Mutex
	links map[inode][]*FileData
}

// ScanDirConcurrent walks dir with a pool of workers and returns the root of the
// resulting size tree. Unreadable subdirectories are logged and left empty; only a
// failure on dir itself is returned.
func ScanDirConcurrent(fsys afero.Fs, dir string, concurrency int, spinner *ProgressSpinner) (*FileData, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, entity.ErrNotDirectory)
	}

	root := newRootFileData(filepath.Clean(dir))
	s := &scanner{
		fs:      fsys,
		spinner: spinner,
		log:     slog.Default().With(slog.String("item", "Scanner")),
		links:   make(map[inode][]*FileData),
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency()
	}

	ch := make(chan *FileData)
	closeWait := &sync.WaitGroup{}

	var wait sync.WaitGroup
	wait.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			for file := range ch {
				if err := s.scanDir(file, ch, closeWait); err != nil {
					s.log.Warn("Cannot read directory", slog.String("path", file.Path()), slog.Any("error", err))
				}
				closeWait.Done()
				if spinner != nil {
					spinner.DirDone()
				}
			}
			wait.Done()
		}()
	}

	if err := s.scanDir(root, ch, closeWait); err != nil {
		close(ch)
		wait.Wait()
		return nil, err
	}

	go func() {
		closeWait.Wait()
		close(ch)
	}()

	wait.Wait()

	s.resolveLinks()
	root.Size()
	return root, nil
}

func DefaultConcurrency() int {
	maxProcs := runtime.GOMAXPROCS(0)
	numCPU := runtime.NumCPU()
	if maxProcs < numCPU {
		return maxProcs
	}
	return numCPU
}

func (s *scanner) scanDir(parent *FileData, ch chan *FileData, closeWait *sync.WaitGroup) error {
	entries, err := afero.ReadDir(s.fs, parent.Path())
	if err != nil {
		return err
	}

	children := make([]*FileData, 0, len(entries))
	var dirs []*FileData
	var found int64
	for _, info := range entries {
		isDir := info.IsDir()
		isLink := info.Mode()&fs.ModeSymlink != 0

		f := newFileData(parent, info.Name(), isDir, isLink)
		if isDir {
			dirs = append(dirs, f)
		} else {
			s.fileSize(f, info)
			found += f.Own.Apparent
		}
		children = append(children, f)
	}
	parent.Children = children

	if s.spinner != nil {
		s.spinner.Found(len(entries), found)
	}

	closeWait.Add(len(dirs))
	for _, d := range dirs {
		d := d
		go func() {
			ch <- d
		}()
	}
	return nil
}

func (s *scanner) fileSize(f *FileData, info fs.FileInfo) {
	st := statOf(info)
	f.Own = entity.Size{Apparent: info.Size(), Actual: st.actual, Count: 1}
	if st.nlink <= 1 {
		return
	}

	s.mu.Lock()
	s.links[st.id] = append(s.links[st.id], f)
	s.mu.Unlock()
}

// resolveLinks leaves the bytes of each hardlinked file on its lexically smallest path.
func (s *scanner) resolveLinks() {
	for _, files := range s.links {
		if len(files) < 2 {
			continue
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Path() < files[j].Path() })
		for _, f := range files[1:] {
			f.Own = entity.Size{Count: 1}
		}
	}
}
