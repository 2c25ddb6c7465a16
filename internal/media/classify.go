package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrEmptyFolder is returned when a folder tree holds no video file.
var ErrEmptyFolder = errors.New("no video file found")

// ErrDestinationExists is returned instead of overwriting an existing file.
var ErrDestinationExists = errors.New("destination already exists")

// EmptyFolderError reports the folder that contained no video file.
type EmptyFolderError struct {
	Path string
}

func (e *EmptyFolderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, ErrEmptyFolder)
}

func (e *EmptyFolderError) Unwrap() error {
	return ErrEmptyFolder
}

// FileEntry is a regular file discovered while walking a folder tree.
type FileEntry struct {
	Path string
	Size int64
}

// Classification partitions the files of a folder tree by role.
//
// Fields:
//   - PrimaryVideo: the largest video file; smaller videos are usually samples
//     or trailers.
//   - Videos: every video file found, ordered by path.
//   - Subtitles: every subtitle file found, ordered by path.
type Classification struct {
	PrimaryVideo FileEntry
	Videos       []FileEntry
	Subtitles    []string
}

// Classify walks root and selects the primary video along with any subtitle
// candidates. Files at any depth are considered. When two videos share the
// maximum size, the one with the lexicographically smaller path wins.
func Classify(root string) (*Classification, error) {
	files, err := Walk(root)
	if err != nil {
		return nil, err
	}

	c := &Classification{}
	for _, f := range files {
		name := filepath.Base(f.Path)
		switch {
		case IsVideo(name):
			c.Videos = append(c.Videos, f)
		case IsSubtitle(name):
			c.Subtitles = append(c.Subtitles, f.Path)
		}
	}

	if len(c.Videos) == 0 {
		return nil, &EmptyFolderError{Path: root}
	}

	sort.Slice(c.Videos, func(i, j int) bool { return c.Videos[i].Path < c.Videos[j].Path })
	sort.Strings(c.Subtitles)

	c.PrimaryVideo = c.Videos[0]
	for _, v := range c.Videos[1:] {
		if v.Size > c.PrimaryVideo.Size {
			c.PrimaryVideo = v
		}
	}

	return c, nil
}

// Walk returns every regular file beneath root. The traversal uses an explicit
// stack so deep trees do not grow the call stack. Symbolic links are not
// followed.
func Walk(root string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []FileEntry{{Path: root, Size: info.Size()}}, nil
	}

	var files []FileEntry
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch {
			case entry.IsDir():
				stack = append(stack, path)
			case entry.Type().IsRegular():
				fi, err := entry.Info()
				if err != nil {
					return nil, fmt.Errorf("stat %s: %w", path, err)
				}
				files = append(files, FileEntry{Path: path, Size: fi.Size()})
			}
		}
	}

	return files, nil
}
