package bot

import (
	"iter"
	"slices"
	"strings"
)

// Default delimiters.
const (
	DefaultStartTag   = "/f"
	DefaultEndTag     = "f/"
	DefaultCommentTag = "://"
)

// Tags delimit formation snippets inside message text.
//
// End and Comment are optional. Without End a snippet runs to the end of the
// text. Without Comment the whole text is scanned.
type Tags struct {
	Start   string
	End     string
	Comment string
}

// DefaultTags returns the delimiters used when none are configured.
func DefaultTags() Tags {
	return Tags{Start: DefaultStartTag, End: DefaultEndTag, Comment: DefaultCommentTag}
}

// Snippets yields the snippets of text in order. Everything after the first
// Comment tag is ignored. An empty Start tag matches nothing.
func (t Tags) Snippets(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if t.Start == "" {
			return
		}
		if t.Comment != "" {
			text, _, _ = strings.Cut(text, t.Comment)
		}
		for {
			_, after, found := strings.Cut(text, t.Start)
			if !found {
				return
			}
			snippet, rest, closed := after, "", false
			if t.End != "" {
				snippet, rest, closed = strings.Cut(after, t.End)
			}
			if !yield(snippet) || !closed {
				return
			}
			text = rest
		}
	}
}

// Extract returns all snippets of text.
//
//	DefaultTags().Extract("first /f>>/<<f/ second /f<>/<>") // [">>/<<" "<>/<>"]
func (t Tags) Extract(text string) []string {
	return slices.Collect(t.Snippets(text))
}
