// Package notes reads and writes the tag:value configuration embedded in
// free-text account notes.
package notes

import (
	"strings"
	"unicode"
)

// Get returns the value of the first "tag:" occurrence in note, up to the next
// whitespace. An absent tag or an empty note yields def.
func Get(note, tag, def string) string {
	v, ok := Lookup(note, tag)
	if !ok {
		return def
	}
	return v
}

// Lookup is Get without a default.
func Lookup(note, tag string) (string, bool) {
	if note == "" || tag == "" {
		return "", false
	}
	key := tag + ":"
	i := strings.Index(note, key)
	if i < 0 {
		return "", false
	}
	rest := note[i+len(key):]
	if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

// Set rewrites the value of the first occurrence of tag in note, or appends
// "tag:value" on a new line when the tag is absent.
func Set(note, tag, value string) string {
	key := tag + ":"
	i := strings.Index(note, key)
	if i < 0 {
		if note == "" {
			return key + value
		}
		return note + "\n" + key + value
	}
	start := i + len(key)
	end := len(note)
	if j := strings.IndexFunc(note[start:], unicode.IsSpace); j >= 0 {
		end = start + j
	}
	return note[:start] + value + note[end:]
}

// Tags is a note viewed as a tag store.
type Tags struct {
	note string
}

// Parse wraps note for tag lookups and edits.
func Parse(note string) Tags {
	return Tags{note: note}
}

// Get returns the tag value or def.
func (t Tags) Get(tag, def string) string {
	return Get(t.note, tag, def)
}

// Lookup returns the value of tag.
func (t Tags) Lookup(tag string) (string, bool) {
	return Lookup(t.note, tag)
}

// Has reports whether tag is present.
func (t Tags) Has(tag string) bool {
	_, ok := Lookup(t.note, tag)
	return ok
}

// Set updates tag and returns the rewritten note.
func (t *Tags) Set(tag, value string) string {
	t.note = Set(t.note, tag, value)
	return t.note
}

// Note returns the current note text.
func (t Tags) Note() string {
	return t.note
}
