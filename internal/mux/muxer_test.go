package mux

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Digital-Shane/movie-tidy/internal/media"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func newTestMuxer(run commandRunner) *Muxer {
	m := NewMuxer("", time.Minute, zerolog.Nop())
	m.WithCommandRunner(run)
	return m
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestMerge_BuildsCommandAndPublishesOutput(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "src", "movie.mp4")
	eng := filepath.Join(dir, "src", "Movie_eng.srt")
	jpn := filepath.Join(dir, "src", "Movie_jpn.srt")
	for _, p := range []string{video, eng, jpn} {
		writeFile(t, p)
	}
	dest := filepath.Join(dir, "out", "Movie (2020).mp4")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatal(err)
	}

	var gotName string
	var gotArgs []string
	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		if err := os.WriteFile(args[len(args)-1], []byte("muxed"), 0o644); err != nil {
			t.Fatalf("fake ffmpeg write: %v", err)
		}
		return nil, nil
	})

	if err := m.Merge(context.Background(), video, []string{eng, jpn}, dest); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	tmp := filepath.Join(dir, "out", ".Movie (2020).part.mp4")
	wantArgs := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", video, "-i", eng, "-i", jpn,
		"-map", "0:v", "-map", "0:a", "-map", "1", "-map", "2",
		"-c:v", "copy", "-c:a", "copy", "-c:s", "mov_text",
		"-metadata:s:s:0", "language=eng", "-metadata:s:s:1", "language=jpn",
		tmp,
	}
	if gotName != "ffmpeg" {
		t.Errorf("command = %q, want ffmpeg", gotName)
	}
	if diff := cmp.Diff(wantArgs, gotArgs); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "muxed" {
		t.Fatalf("dest content = %q, %v", data, err)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("temporary file still present: %v", err)
	}
	for _, p := range []string{video, eng, jpn} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("input %s was modified: %v", p, err)
		}
	}
}

func TestMerge_MKVUsesSRTCodecAndSingleName(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	sub := filepath.Join(dir, "Movie.English.srt")
	writeFile(t, video)
	writeFile(t, sub)

	var gotArgs []string
	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, os.WriteFile(args[len(args)-1], nil, 0o644)
	})

	if err := m.Merge(context.Background(), video, []string{sub}, filepath.Join(dir, "Movie (2020).MKV")); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-c:s srt") {
		t.Errorf("args %q missing srt codec", joined)
	}
	if !strings.Contains(joined, "-metadata:s:s:0 language=subtitles") {
		t.Errorf("args %q missing single subtitle name", joined)
	}
}

func TestMerge_FailureRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mp4")
	sub := filepath.Join(dir, "movie.srt")
	writeFile(t, video)
	writeFile(t, sub)
	dest := filepath.Join(dir, "Movie (2020).mp4")

	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
		return []byte("Invalid data found when processing input"), errors.New("exit status 1")
	})

	err := m.Merge(context.Background(), video, []string{sub}, dest)
	var muxErr *MuxError
	if !errors.As(err, &muxErr) {
		t.Fatalf("Merge() error = %v, want *MuxError", err)
	}
	if !strings.Contains(muxErr.Output, "Invalid data") {
		t.Errorf("MuxError.Output = %q", muxErr.Output)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("dest exists after failure: %v", err)
	}
	if _, err := os.Stat(tempPath(dest)); !os.IsNotExist(err) {
		t.Errorf("temporary file exists after failure: %v", err)
	}
}

func TestMerge_MissingOutputIsMuxError(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mp4")
	sub := filepath.Join(dir, "movie.srt")
	writeFile(t, video)
	writeFile(t, sub)

	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	err := m.Merge(context.Background(), video, []string{sub}, filepath.Join(dir, "Movie (2020).mp4"))
	var muxErr *MuxError
	if !errors.As(err, &muxErr) {
		t.Fatalf("Merge() error = %v, want *MuxError", err)
	}
}

func TestMerge_RefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mp4")
	sub := filepath.Join(dir, "movie.srt")
	dest := filepath.Join(dir, "Movie (2020).mp4")
	for _, p := range []string{video, sub, dest} {
		writeFile(t, p)
	}

	called := false
	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		called = true
		return nil, nil
	})

	err := m.Merge(context.Background(), video, []string{sub}, dest)
	if !errors.Is(err, media.ErrDestinationExists) {
		t.Fatalf("Merge() error = %v, want ErrDestinationExists", err)
	}
	if called {
		t.Error("ffmpeg ran despite existing destination")
	}
}

func TestMerge_RejectsSelfOverwrite(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	sub := filepath.Join(dir, "movie.srt")
	writeFile(t, video)
	writeFile(t, sub)

	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("ffmpeg should not run")
		return nil, nil
	})
	if err := m.Merge(context.Background(), video, []string{sub}, video); err == nil {
		t.Fatal("Merge() expected error when dest equals video")
	}
}

func TestMerge_PanicsOnNonEmbeddableDestination(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Merge() did not panic for .avi destination")
		}
	}()
	m := newTestMuxer(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})
	_ = m.Merge(context.Background(), "/in/movie.avi", []string{"/in/movie.srt"}, "/out/Movie (2020).avi")
}

func TestMerge_AppliesTimeout(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mp4")
	sub := filepath.Join(dir, "movie.srt")
	writeFile(t, video)
	writeFile(t, sub)

	m := NewMuxer("/opt/ffmpeg/bin/ffmpeg", 20*time.Millisecond, zerolog.Nop())
	m.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "/opt/ffmpeg/bin/ffmpeg" {
			t.Errorf("binary = %q", name)
		}
		<-ctx.Done()
		return nil, errors.New("signal: killed")
	})

	err := m.Merge(context.Background(), video, []string{sub}, filepath.Join(dir, "Movie (2020).mp4"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Merge() error = %v, want deadline exceeded", err)
	}
}

func TestTempPath(t *testing.T) {
	got := tempPath(filepath.Join("out", "Movie (2020).mkv"))
	want := filepath.Join("out", ".Movie (2020).part.mkv")
	if got != want {
		t.Errorf("tempPath() = %q, want %q", got, want)
	}
}
