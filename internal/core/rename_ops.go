package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Digital-Shane/movie-tidy/internal/log"
	"github.com/Digital-Shane/movie-tidy/internal/media"
)

// ErrDestinationExists is returned instead of overwriting an existing file.
var ErrDestinationExists = media.ErrDestinationExists

// transferFile places src at dest. With move set the source is renamed,
// falling back to copy and delete across filesystems; otherwise it is copied
// and left untouched. An existing dest is never overwritten.
func transferFile(src, dest string, move bool) error {
	if _, err := os.Lstat(dest); err == nil {
		err := fmt.Errorf("%s: %w", dest, ErrDestinationExists)
		logTransfer(src, dest, move, err)
		return err
	}

	if move {
		if err := os.Rename(src, dest); err == nil {
			log.LogRename(src, dest, true, nil)
			return nil
		} else if !isCrossDevice(err) {
			log.LogRename(src, dest, false, err)
			return fmt.Errorf("rename %s: %w", src, err)
		}
	}

	if err := copyFile(src, dest); err != nil {
		log.LogCopy(src, dest, false, err)
		return err
	}
	log.LogCopy(src, dest, true, nil)

	if move {
		return deleteFile(src)
	}
	return nil
}

func logTransfer(src, dest string, move bool, err error) {
	if move {
		log.LogRename(src, dest, false, err)
		return
	}
	log.LogCopy(src, dest, false, err)
}

// copyFile copies src to a new file at dest with the same permissions. A
// partially written dest is removed on failure.
func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", dest, ErrDestinationExists)
		}
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dest, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dest, err)
	}
	return nil
}

func deleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		log.LogDelete(path, false, err)
		return fmt.Errorf("delete %s: %w", path, err)
	}
	log.LogDelete(path, true, nil)
	return nil
}

func removeTree(path string) error {
	if err := os.RemoveAll(path); err != nil {
		log.LogRemoveTree(path, false, err)
		return fmt.Errorf("remove %s: %w", path, err)
	}
	log.LogRemoveTree(path, true, nil)
	return nil
}

// isCrossDevice reports whether a rename failed because src and dest live on
// different filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// within reports whether path equals dir or lies beneath it.
func within(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
