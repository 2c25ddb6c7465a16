package ffprobe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/movie-tidy/internal/provider"
	"gopkg.in/vansante/go-ffprobe.v2"
)

const (
	providerName = "ffprobe"

	// UndeterminedLanguage is reported for subtitle streams without a language tag.
	UndeterminedLanguage = "und"

	defaultTimeout = 30 * time.Second
)

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

var setBinPath = ffprobe.SetFFProbeBinPath

// UseBinary points every Prober in the process at the ffprobe executable at
// path. The underlying library keeps this setting globally, so it is called
// once at startup. An empty path keeps resolving "ffprobe" on PATH.
func UseBinary(path string) {
	if path != "" {
		setBinPath(path)
	}
}

// Prober reports the subtitle languages already embedded in a video file.
type Prober struct {
	probe   probeFunc
	timeout time.Duration
}

// New creates a prober that shells out to ffprobe, see UseBinary.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Prober{
		probe:   ffprobe.ProbeURL,
		timeout: timeout,
	}
}

// Name returns the prober name.
func (p *Prober) Name() string {
	return providerName
}

// EmbeddedSubtitles returns one language tag per subtitle stream in path.
// Streams without a language tag are reported as "und". A probe failure is
// returned as a *provider.ProviderError; callers decide how to treat it.
func (p *Prober) EmbeddedSubtitles(ctx context.Context, path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "MISSING_PATH",
			Message:  "ffprobe requires a non-empty file path",
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	data, err := p.probe(probeCtx, path)
	if err != nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "PROBE_FAILED",
			Message:  fmt.Sprintf("ffprobe failed for %s: %v", path, err),
		}
	}

	return subtitleLanguages(data), nil
}

func subtitleLanguages(data *ffprobe.ProbeData) []string {
	if data == nil {
		return nil
	}

	var langs []string
	for _, stream := range data.Streams {
		if stream == nil || stream.CodecType != string(ffprobe.StreamSubtitle) {
			continue
		}
		lang := strings.TrimSpace(stream.Tags.Language)
		if lang == "" {
			lang = UndeterminedLanguage
		}
		langs = append(langs, lang)
	}
	return langs
}
