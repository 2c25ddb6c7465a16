package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const mb = 1 << 20

func writeSizedFile(t *testing.T, path string, size int64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create(%s) error = %v", path, err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		t.Fatalf("Truncate(%s) error = %v", path, err)
	}
}

func TestClassify_LargestVideoWins(t *testing.T) {
	root := t.TempDir()
	writeSizedFile(t, filepath.Join(root, "sample.mkv"), 10*mb)
	writeSizedFile(t, filepath.Join(root, "Movie.2020.1080p.mkv"), 1400*mb)
	writeSizedFile(t, filepath.Join(root, "Extras", "trailer.mp4"), 50*mb)
	writeSizedFile(t, filepath.Join(root, "Subs", "Movie_eng.srt"), 1024)
	writeSizedFile(t, filepath.Join(root, "readme.txt"), 10)

	c, err := Classify(root)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if want := filepath.Join(root, "Movie.2020.1080p.mkv"); c.PrimaryVideo.Path != want {
		t.Errorf("PrimaryVideo = %q, want %q", c.PrimaryVideo.Path, want)
	}
	if len(c.Videos) != 3 {
		t.Errorf("len(Videos) = %d, want 3", len(c.Videos))
	}
	wantSubs := []string{filepath.Join(root, "Subs", "Movie_eng.srt")}
	if diff := cmp.Diff(wantSubs, c.Subtitles); diff != "" {
		t.Errorf("Subtitles mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_TieBreakIsLexicographic(t *testing.T) {
	root := t.TempDir()
	writeSizedFile(t, filepath.Join(root, "b.mkv"), 5*mb)
	writeSizedFile(t, filepath.Join(root, "a.mkv"), 5*mb)
	writeSizedFile(t, filepath.Join(root, "c.mp4"), 1*mb)

	c, err := Classify(root)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if want := filepath.Join(root, "a.mkv"); c.PrimaryVideo.Path != want {
		t.Errorf("PrimaryVideo = %q, want %q", c.PrimaryVideo.Path, want)
	}
}

func TestClassify_EmptyFolder(t *testing.T) {
	root := t.TempDir()
	writeSizedFile(t, filepath.Join(root, "Movie.srt"), 100)

	_, err := Classify(root)
	if !errors.Is(err, ErrEmptyFolder) {
		t.Fatalf("Classify() error = %v, want ErrEmptyFolder", err)
	}
	var efe *EmptyFolderError
	if !errors.As(err, &efe) || efe.Path != root {
		t.Errorf("Classify() error = %#v, want EmptyFolderError for %s", err, root)
	}
}

func TestWalk_Deep(t *testing.T) {
	root := t.TempDir()
	dir := root
	for i := 0; i < 40; i++ {
		dir = filepath.Join(dir, "d")
	}
	writeSizedFile(t, filepath.Join(dir, "deep.mkv"), 1)
	writeSizedFile(t, filepath.Join(root, "top.mkv"), 1)

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Walk() found %d files, want 2", len(files))
	}
}

func TestWalk_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeSizedFile(t, filepath.Join(outside, "other.mkv"), 1)
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	writeSizedFile(t, filepath.Join(root, "movie.mkv"), 1)

	files, err := Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Walk() found %d files, want 1", len(files))
	}
}
