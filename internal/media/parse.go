package media

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// File classification & name parsing utilities.
//
// Extension sets are intentionally narrow: only containers that the rest of the
// pipeline knows how to rename or remux are treated as videos, and only SubRip
// files are considered subtitle candidates.
var (
	// videoRe matches video file extensions eligible as a primary video.
	videoRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi)$`)

	// subtitleRe matches subtitle file extensions that can be embedded.
	subtitleRe = regexp.MustCompile(`(?i)\.srt$`)

	// embeddableRe matches containers that accept additional subtitle streams.
	embeddableRe = regexp.MustCompile(`(?i)\.(mp4|mkv)$`)

	// nameSeparators are normalized to spaces (or dropped) before tokenizing.
	nameSeparators = strings.NewReplacer(".", " ", "_", " ", "(", "", ")", "")
)

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSubtitle reports whether filename has a recognized subtitle extension.
func IsSubtitle(filename string) bool {
	return subtitleRe.MatchString(filename)
}

// IsEmbeddable reports whether filename is a container that subtitle streams
// can be muxed into.
func IsEmbeddable(filename string) bool {
	return embeddableRe.MatchString(filename)
}

// IsHidden reports whether name is a dotfile.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// ExtractExtension returns the final extension of filename including the dot.
func ExtractExtension(filename string) string {
	return filepath.Ext(filename)
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseName extracts a plausible movie title from a raw torrent style file or
// folder name.
//
// Separators are normalized and words are collected until the first word that
// contains a number, which usually marks the start of year, resolution or
// quality noise. Bracketed release group tags are dropped from what remains.
// The result is a best effort query string; resolution downstream is expected
// to correct whatever noise survives.
func ParseName(raw string) string {
	normalized := nameSeparators.Replace(raw)

	var words []string
	for _, word := range strings.Fields(normalized) {
		if containsNumber(word) {
			break
		}
		words = append(words, word)
	}

	kept := words[:0]
	for _, word := range words {
		if strings.HasPrefix(word, "[") || strings.HasSuffix(word, "]") {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}

func containsNumber(word string) bool {
	for _, r := range word {
		if unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
