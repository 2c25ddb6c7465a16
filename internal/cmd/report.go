package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Digital-Shane/movie-tidy/internal/core"
	"github.com/Digital-Shane/movie-tidy/internal/theme"
	"github.com/mattn/go-runewidth"
)

// maxNameWidth caps the display width of source names in progress entries.
const maxNameWidth = 72

// reporter prints a short progress entry per processed unit.
type reporter struct {
	out  io.Writer
	th   theme.Theme
	root string
}

func newReporter(out io.Writer, th theme.Theme, root string) *reporter {
	return &reporter{out: out, th: th, root: root}
}

func (r *reporter) unit(res core.Result) {
	fmt.Fprintln(r.out, r.format(res))
}

func (r *reporter) format(res core.Result) string {
	icon := r.th.Icon("file")
	if res.Kind == core.UnitFolder {
		icon = r.th.Icon("folder")
	}
	head := fmt.Sprintf("%s %s %s", icon, res.Kind, runewidth.Truncate(filepath.Base(res.Source), maxNameWidth, "..."))

	switch {
	case res.Err != nil:
		return fmt.Sprintf("%s\n   %s %s %s", head,
			r.th.BadgeStyle(theme.BadgeError).Render("failed"),
			r.th.Icon("error"),
			r.th.ErrorStyle().Render(res.Err.Error()))
	case res.Action == core.ActionSkip:
		return fmt.Sprintf("%s\n   %s %s", head,
			r.th.BadgeStyle(theme.BadgeMuted).Render("skipped"),
			r.th.MutedStyle().Render("not a video file"))
	default:
		return fmt.Sprintf("%s\n   %s %s %s", head,
			r.th.BadgeStyle(actionBadge(res.Action)).Render(string(res.Action)),
			r.th.Icon("arrow"),
			r.th.PathStyle().Render(r.display(res.Destination)))
	}
}

func (r *reporter) display(path string) string {
	if rel, err := filepath.Rel(r.root, path); err == nil && filepath.IsLocal(rel) {
		return rel
	}
	return path
}

func (r *reporter) summary(results []core.Result) {
	var done, skipped, failed int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Action == core.ActionSkip:
			skipped++
		default:
			done++
		}
	}

	line := fmt.Sprintf("%s %d entries: %d done, %d skipped, %d failed",
		r.th.Icon("stats"), len(results), done, skipped, failed)
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.th.HeaderStyle().Render(line))
}

func actionBadge(action core.Action) theme.BadgeKind {
	switch action {
	case core.ActionMux:
		return theme.BadgeInfo
	case core.ActionNone:
		return theme.BadgeMuted
	default:
		return theme.BadgeSuccess
	}
}
