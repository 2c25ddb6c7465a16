package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/movie-tidy/internal/media"
	"github.com/rs/zerolog"
)

const (
	ffmpegCommand  = "ffmpeg"
	defaultTimeout = 2 * time.Hour

	// maxOutputTail bounds the tool output kept on a MuxError.
	maxOutputTail = 2048
)

// subtitleCodecs maps an embeddable container to the subtitle codec it accepts.
var subtitleCodecs = map[string]string{
	".mp4": "mov_text",
	".mkv": "srt",
}

// commandRunner executes an external command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// MuxError reports an ffmpeg invocation that did not complete successfully.
type MuxError struct {
	Video  string
	Dest   string
	Output string
	Err    error
}

func (e *MuxError) Error() string {
	msg := fmt.Sprintf("mux %s into %s: %v", e.Video, e.Dest, e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *MuxError) Unwrap() error {
	return e.Err
}

// Muxer embeds external subtitle files into a video container with ffmpeg.
// Video and audio streams are copied, only subtitles are converted.
type Muxer struct {
	binary  string
	timeout time.Duration
	logger  zerolog.Logger
	run     commandRunner
}

// NewMuxer constructs a muxer. An empty binary resolves ffmpeg on PATH and a
// non-positive timeout uses the default.
func NewMuxer(binary string, timeout time.Duration, logger zerolog.Logger) *Muxer {
	if binary == "" {
		binary = ffmpegCommand
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Muxer{
		binary:  binary,
		timeout: timeout,
		logger:  logger.With().Str("component", "muxer").Logger(),
		run:     defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Muxer) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Merge writes dest containing every video and audio stream of video plus one
// subtitle stream per entry of subtitles, tagged with the subtitle display name.
//
// ffmpeg writes to a hidden temporary file next to dest which is renamed into
// place only on success, so a failed run never leaves a partial dest. The
// inputs are never modified. dest must have an embeddable extension; anything
// else is a caller bug and panics.
func (m *Muxer) Merge(ctx context.Context, video string, subtitles []string, dest string) error {
	codec, ok := subtitleCodecs[strings.ToLower(filepath.Ext(dest))]
	if !ok || !media.IsEmbeddable(dest) {
		panic(fmt.Sprintf("mux: destination %q is not an embeddable container", dest))
	}
	if len(subtitles) == 0 {
		return fmt.Errorf("mux %s: at least one subtitle is required", video)
	}
	if filepath.Clean(video) == filepath.Clean(dest) {
		return fmt.Errorf("mux %s: destination equals source video", video)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("mux %s: %s: %w", video, dest, media.ErrDestinationExists)
	}

	subs := NameAll(NewSubtitles(subtitles))
	tmpPath := tempPath(dest)
	args := buildArgs(video, subs, codec, tmpPath)

	m.logger.Debug().
		Str("video", video).
		Str("dest", dest).
		Int("subtitle_count", len(subs)).
		Str("codec", codec).
		Msg("executing ffmpeg")
	for _, sub := range subs {
		m.logger.Info().Str("subtitle", filepath.Base(sub.Path)).Str("as", sub.Name).Msg("embedding subtitle")
	}

	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	output, err := m.run(runCtx, m.binary, args...)
	if err != nil {
		_ = os.Remove(tmpPath)
		if ctxErr := runCtx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return &MuxError{Video: video, Dest: dest, Output: tail(output), Err: err}
	}

	if _, err := os.Stat(tmpPath); err != nil {
		return &MuxError{Video: video, Dest: dest, Output: tail(output), Err: fmt.Errorf("ffmpeg did not produce output: %w", err)}
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("mux %s: move output into place: %w", video, err)
	}

	m.logger.Info().Str("dest", dest).Int("tracks_added", len(subs)).Msg("subtitles muxed")
	return nil
}

// buildArgs constructs the ffmpeg arguments for a stream-copy subtitle merge.
func buildArgs(video string, subs []Subtitle, codec, output string) []string {
	args := []string{"-hide_banner", "-nostdin", "-y", "-i", video}
	for _, sub := range subs {
		args = append(args, "-i", sub.Path)
	}

	args = append(args, "-map", "0:v", "-map", "0:a")
	for i := range subs {
		args = append(args, "-map", strconv.Itoa(i+1))
	}

	args = append(args, "-c:v", "copy", "-c:a", "copy", "-c:s", codec)
	for i, sub := range subs {
		args = append(args, fmt.Sprintf("-metadata:s:s:%d", i), "language="+sub.Name)
	}

	return append(args, output)
}

// tempPath returns the hidden sibling ffmpeg writes to before the final rename.
// The real extension is kept last so ffmpeg picks the right muxer.
func tempPath(dest string) string {
	ext := filepath.Ext(dest)
	name := strings.TrimSuffix(filepath.Base(dest), ext)
	return filepath.Join(filepath.Dir(dest), "."+name+".part"+ext)
}

func tail(output []byte) string {
	s := strings.TrimSpace(string(output))
	if len(s) > maxOutputTail {
		s = s[len(s)-maxOutputTail:]
	}
	return s
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
