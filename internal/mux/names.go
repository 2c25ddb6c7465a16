package mux

import "github.com/Digital-Shane/movie-tidy/internal/media"

// singleSubtitleName labels the only subtitle of a set.
const singleSubtitleName = "subtitles"

// Subtitle is an external subtitle file and the label it is embedded under.
type Subtitle struct {
	Name string
	Path string
}

// NewSubtitles builds candidates labelled with their filename stems.
func NewSubtitles(paths []string) []Subtitle {
	subs := make([]Subtitle, 0, len(paths))
	for _, p := range paths {
		subs = append(subs, Subtitle{Name: media.Stem(p), Path: p})
	}
	return subs
}

// NameAll rewrites display names in place and returns subs.
//
// A single subtitle is named "subtitles". With two or more, the longest common
// prefix of the names is stripped from each, so "Movie_eng" and "Movie_jpn"
// become "eng" and "jpn". An empty name is left as is.
func NameAll(subs []Subtitle) []Subtitle {
	switch len(subs) {
	case 0:
		return subs
	case 1:
		subs[0].Name = singleSubtitleName
		return subs
	}

	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Name
	}
	prefix := sharedPrefix(names)
	for i := range subs {
		subs[i].Name = subs[i].Name[len(prefix):]
	}
	return subs
}

// sharedPrefix returns the byte-wise longest common prefix of values.
func sharedPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		n := 0
		for n < len(prefix) && n < len(v) && prefix[n] == v[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}
