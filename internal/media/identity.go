package media

import "fmt"

// Identity is the canonical movie identity returned by a title lookup.
type Identity struct {
	Title string
	Year  int
}

// String renders the identity in its canonical "<Title> (<Year>)" form.
func (id Identity) String() string {
	return fmt.Sprintf("%s (%d)", id.Title, id.Year)
}
