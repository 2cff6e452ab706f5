package schedule

import "strings"

// defaultColors is the pastel cycle used for per-employee tags.
var defaultColors = []string{
	"#FFEBEE", "#E3F2FD", "#E8F5E9", "#FFF3E0",
	"#F3E5F5", "#E0F7FA", "#F9FBE7", "#FCE4EC",
}

// neutralColor is used when an email is missing entirely.
const neutralColor = "#f1f3f4"

// Palette assigns each email a stable color for the lifetime of one
// rendering session: first appearance picks the next color in the cycle, and
// the same (case-insensitive) email always gets that color back. The exact
// colors are not a contract; the per-email stability is.
type Palette struct {
	colors  []string
	byEmail map[string]string
}

// NewPalette returns a palette over the default color cycle.
func NewPalette() *Palette {
	return &Palette{
		colors:  defaultColors,
		byEmail: make(map[string]string),
	}
}

// Color returns the stable color for an email.
func (p *Palette) Color(email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return neutralColor
	}
	if c, ok := p.byEmail[key]; ok {
		return c
	}
	c := p.colors[len(p.byEmail)%len(p.colors)]
	p.byEmail[key] = c
	return c
}
