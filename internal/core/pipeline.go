package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Digital-Shane/movie-tidy/internal/log"
	"github.com/Digital-Shane/movie-tidy/internal/media"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned for entries that are neither a regular file nor a directory.
var ErrNotFound = errors.New("not a file or directory")

// TitleResolver maps a parsed name to a canonical movie identity.
type TitleResolver interface {
	Resolve(ctx context.Context, name string) (media.Identity, error)
}

// SubtitleProber lists the subtitle languages embedded in a video.
type SubtitleProber interface {
	EmbeddedSubtitles(ctx context.Context, path string) ([]string, error)
}

// SubtitleMuxer writes dest from video with subtitles embedded.
type SubtitleMuxer interface {
	Merge(ctx context.Context, video string, subtitles []string, dest string) error
}

// ProbeFailurePolicy decides how a failed probe affects the embed decision.
type ProbeFailurePolicy string

const (
	// ProbeFailureEmbed treats a failed probe as "no embedded subtitles".
	ProbeFailureEmbed ProbeFailurePolicy = "embed"
	// ProbeFailureSkip copies the video as is when the probe failed.
	ProbeFailureSkip ProbeFailurePolicy = "skip"
)

// UnitKind tells file units from folder units.
type UnitKind string

const (
	UnitFile   UnitKind = "file"
	UnitFolder UnitKind = "folder"
	UnitOther  UnitKind = "other"
)

// Action is what a unit ended up doing.
type Action string

const (
	ActionNone   Action = "none"
	ActionCopy   Action = "copy"
	ActionMove   Action = "move"
	ActionMux    Action = "mux"
	ActionSkip   Action = "skip"
	ActionFailed Action = "failed"
)

// Options control a pipeline run.
type Options struct {
	// Dest is the destination folder. Empty means next to each source.
	Dest string
	// DeleteSource removes source files and folders after a unit succeeds.
	DeleteSource bool
	// ProbeFailurePolicy defaults to ProbeFailureEmbed.
	ProbeFailurePolicy ProbeFailurePolicy
}

// Result reports the outcome of one top level entry.
type Result struct {
	Kind        UnitKind
	Source      string
	Destination string
	Action      Action
	Err         error
}

// Pipeline turns movie files and folders into "<Title> (<Year>).<ext>" files.
// Units are processed one at a time; a failing unit is recorded in its Result
// and never stops the batch.
type Pipeline struct {
	resolver TitleResolver
	prober   SubtitleProber
	muxer    SubtitleMuxer
	opts     Options
	logger   zerolog.Logger
}

// NewPipeline wires a pipeline to its collaborators.
func NewPipeline(resolver TitleResolver, prober SubtitleProber, muxer SubtitleMuxer, opts Options, logger zerolog.Logger) *Pipeline {
	if opts.ProbeFailurePolicy == "" {
		opts.ProbeFailurePolicy = ProbeFailureEmbed
	}
	return &Pipeline{
		resolver: resolver,
		prober:   prober,
		muxer:    muxer,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes every top level entry of root in name order. report, when not
// nil, is called once per entry as soon as it finishes. The returned error is
// only set when root cannot be listed or ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, root string, report func(Result)) ([]Result, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", root, err)
	}

	dstFolder := p.opts.Dest
	if dstFolder == "" {
		dstFolder = root
	} else if err := os.MkdirAll(dstFolder, 0755); err != nil {
		return nil, fmt.Errorf("create destination %s: %w", dstFolder, err)
	}

	var results []Result
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if media.IsHidden(entry.Name()) {
			continue
		}

		res := p.processEntry(ctx, filepath.Join(root, entry.Name()), dstFolder)
		results = append(results, res)
		if report != nil {
			report(res)
		}
	}
	return results, nil
}

func (p *Pipeline) processEntry(ctx context.Context, path, dstFolder string) Result {
	res := Result{Source: path, Kind: UnitOther}

	info, err := os.Stat(path)
	if err != nil {
		res.Action, res.Err = ActionFailed, fmt.Errorf("%s: %w", path, ErrNotFound)
		return res
	}

	switch {
	case info.Mode().IsRegular():
		res.Kind = UnitFile
		if !media.IsVideo(path) {
			res.Action = ActionSkip
			return res
		}
		res.Destination, res.Action, res.Err = p.ProcessFile(ctx, path, dstFolder)
	case info.IsDir():
		res.Kind = UnitFolder
		res.Destination, res.Action, res.Err = p.ProcessFolder(ctx, path, dstFolder)
	default:
		res.Action, res.Err = ActionFailed, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	if res.Err != nil {
		res.Action = ActionFailed
		p.logger.Error().Err(res.Err).Str("source", path).Msg("unit failed")
	}
	return res
}

// ProcessFile resolves the identity of a single video from its file name and
// places it at dstFolder/<Title> (<Year>).<ext>. When the destination equals
// the source nothing is done.
func (p *Pipeline) ProcessFile(ctx context.Context, src, dstFolder string) (string, Action, error) {
	id, err := p.resolve(ctx, media.Stem(src))
	if err != nil {
		return "", ActionFailed, err
	}
	return p.place(src, dstFolder, id)
}

// ProcessFolder classifies a movie folder, then either embeds its external
// subtitles into the primary video or places the primary video as is. The
// identity always comes from the folder name. With DeleteSource the folder is
// removed afterwards unless the destination lies inside it.
func (p *Pipeline) ProcessFolder(ctx context.Context, folder, dstFolder string) (string, Action, error) {
	cls, err := media.Classify(folder)
	if err != nil {
		return "", ActionFailed, err
	}
	primary := cls.PrimaryVideo.Path

	p.logger.Debug().
		Str("folder", folder).
		Str("primary", primary).
		Int64("size", cls.PrimaryVideo.Size).
		Int("videos", len(cls.Videos)).
		Int("subtitles", len(cls.Subtitles)).
		Msg("classified folder")

	embed := p.shouldEmbed(ctx, primary, cls.Subtitles)

	id, err := p.resolve(ctx, filepath.Base(folder))
	if err != nil {
		return "", ActionFailed, err
	}

	var (
		dest   string
		action Action
	)
	if embed {
		dest, err = DestinationPath(dstFolder, id, media.ExtractExtension(primary))
		if err != nil {
			return "", ActionFailed, err
		}
		if err := p.mux(ctx, primary, cls.Subtitles, dest); err != nil {
			return dest, ActionFailed, err
		}
		action = ActionMux
	} else {
		dest, action, err = p.place(primary, dstFolder, id)
		if err != nil {
			return dest, action, err
		}
	}

	if p.opts.DeleteSource && !within(dstFolder, folder) {
		if err := removeTree(folder); err != nil {
			return dest, action, err
		}
	}
	return dest, action, nil
}

func (p *Pipeline) resolve(ctx context.Context, raw string) (media.Identity, error) {
	name := media.ParseName(raw)
	id, err := p.resolver.Resolve(ctx, name)
	if err != nil {
		return media.Identity{}, err
	}
	p.logger.Debug().Str("raw", raw).Str("query", name).Stringer("identity", id).Msg("resolved title")
	return id, nil
}

// place copies or moves video to dstFolder under the identity's name.
func (p *Pipeline) place(video, dstFolder string, id media.Identity) (string, Action, error) {
	dest, err := DestinationPath(dstFolder, id, media.ExtractExtension(video))
	if err != nil {
		return "", ActionFailed, err
	}
	if samePath(video, dest) {
		return dest, ActionNone, nil
	}

	action := ActionCopy
	if p.opts.DeleteSource {
		action = ActionMove
	}
	if err := transferFile(video, dest, p.opts.DeleteSource); err != nil {
		return dest, ActionFailed, err
	}
	return dest, action, nil
}

func (p *Pipeline) mux(ctx context.Context, video string, subtitles []string, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		err := fmt.Errorf("%s: %w", dest, ErrDestinationExists)
		log.LogMux(video, dest, false, err)
		return err
	}
	if err := p.muxer.Merge(ctx, video, subtitles, dest); err != nil {
		log.LogMux(video, dest, false, err)
		return err
	}
	log.LogMux(video, dest, true, nil)
	return nil
}

// shouldEmbed reports whether subtitles should be merged into video: there
// must be subtitles, the container must support them and the video must not
// already carry any.
func (p *Pipeline) shouldEmbed(ctx context.Context, video string, subtitles []string) bool {
	if len(subtitles) == 0 || !media.IsEmbeddable(video) {
		return false
	}

	langs, err := p.prober.EmbeddedSubtitles(ctx, video)
	if err != nil {
		p.logger.Warn().Err(err).Str("video", video).Str("policy", string(p.opts.ProbeFailurePolicy)).Msg("subtitle probe failed")
		return p.opts.ProbeFailurePolicy == ProbeFailureEmbed
	}
	if len(langs) > 0 {
		p.logger.Debug().Str("video", video).Strs("languages", langs).Msg("video already has subtitles")
		return false
	}
	return true
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
