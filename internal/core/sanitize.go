package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Digital-Shane/movie-tidy/internal/media"
)

// ErrEmptyName is returned when nothing usable is left after sanitization.
var ErrEmptyName = errors.New("name is empty after sanitization")

const droppedFilenameChars = "<>\"|?*\\"

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
)

// SanitizeName makes name safe to use as a single path element. Colons become
// " -", slashes become "-", and backslashes, the characters <>"|?* and control
// characters are dropped. Runs of whitespace collapse to one space. Applying
// it to its own output is a no-op.
func SanitizeName(name string) (string, error) {
	replaced := filenameReplacer.Replace(name)

	var b strings.Builder
	b.Grow(len(replaced))
	for _, r := range replaced {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(droppedFilenameChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	result := strings.Join(strings.Fields(b.String()), " ")
	if result == "" {
		return "", ErrEmptyName
	}
	return result, nil
}

// DestinationPath builds dstFolder/<sanitized identity><ext>.
func DestinationPath(dstFolder string, id media.Identity, ext string) (string, error) {
	name, err := SanitizeName(id.String())
	if err != nil {
		return "", fmt.Errorf("%s: %w", id, err)
	}
	return filepath.Join(dstFolder, name+ext), nil
}
