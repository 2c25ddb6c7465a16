package media

import "testing"

func TestIsVideo(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"movie.mkv", true},
		{"clip.MP4", true},
		{"old.avi", true},
		{"trailer.webm", false},
		{"notes.txt", false},
		{"movie.srt", false},
	}
	for _, tc := range tests {
		if got := IsVideo(tc.in); got != tc.want {
			t.Errorf("IsVideo(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsSubtitle(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"movie.en.srt", true},
		{"movie.SRT", true},
		{"movie.ass", false},
		{"movie.mkv", false},
	}
	for _, tc := range tests {
		if got := IsSubtitle(tc.in); got != tc.want {
			t.Errorf("IsSubtitle(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsEmbeddable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"movie.mkv", true},
		{"movie.MP4", true},
		{"movie.avi", false},
	}
	for _, tc := range tests {
		if got := IsEmbeddable(tc.in); got != tc.want {
			t.Errorf("IsEmbeddable(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"DottedStopsAtYear", "Movie.Name.2020.1080p", "Movie Name"},
		{"LeadingBracketTag", "[Group] Movie Name 2020", "Movie Name"},
		{"TrailingBracketTag", "Movie Name [YTS] 2020", "Movie Name"},
		{"BracketWithDot", "The.Thing.[YTS.MX].1982", "The Thing"},
		{"Underscores", "Blade_Runner_1982_720p", "Blade Runner"},
		{"Parentheses", "Alien (1979)", "Alien"},
		{"NoNumbers", "Some Movie", "Some Movie"},
		{"NumberFirst", "2001.A.Space.Odyssey", ""},
		{"CollapsesSpaces", "Heat  .  1995", "Heat"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseName(tt.input); got != tt.want {
				t.Errorf("ParseName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/a/b/Movie_eng.srt", "Movie_eng"},
		{"movie.en.srt", "movie.en"},
		{"noext", "noext"},
	}
	for _, tc := range tests {
		if got := Stem(tc.in); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentityString(t *testing.T) {
	id := Identity{Title: "Alien", Year: 1979}
	if got := id.String(); got != "Alien (1979)" {
		t.Errorf("Identity.String() = %q, want %q", got, "Alien (1979)")
	}
}
