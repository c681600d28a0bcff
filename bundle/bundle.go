// Package bundle reads a zip-based package fully into memory and writes it back out.
//
// A Bundle keeps the entries in the order they appear in the archive's listing so that rewriting the archive does not
// shuffle the package parts around.
package bundle

import (
	"strings"
	"time"
)

// Entry is a single file in a Bundle.
type Entry struct {
	// Name is the slash-separated path of the entry in the archive.
	Name string
	// Data is the decompressed content of the entry.
	Data []byte
	// Modified is the modification time recorded in the original archive.
	Modified time.Time
}

// IsDir returns true if the entry is a directory marker (name ending with "/").
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// Bundle is an ordered mapping from entry name to content.
//
// The zero value is an empty Bundle ready for use. Bundle is not safe for concurrent use; each pipeline run owns its
// own Bundle.
type Bundle struct {
	entries []*Entry
	index   map[string]int
}

// Len returns the number of entries.
func (b *Bundle) Len() int {
	return len(b.entries)
}

// Names returns the entry names in listing order.
func (b *Bundle) Names() []string {
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.Name
	}

	return names
}

// Entries returns the entries in listing order.
//
// The returned slice is a copy but the entries are shared with the Bundle.
func (b *Bundle) Entries() []*Entry {
	return append([]*Entry(nil), b.entries...)
}

// Get returns the content of the named entry.
func (b *Bundle) Get(name string) ([]byte, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}

	return b.entries[i].Data, true
}

// Set replaces the content of the named entry, keeping its position and modification time.
//
// If the entry does not exist, it is appended to the end of the Bundle.
func (b *Bundle) Set(name string, data []byte) {
	if i, ok := b.index[name]; ok {
		b.entries[i].Data = data
		return
	}

	b.add(&Entry{Name: name, Data: data})
}

// add appends the entry, or overwrites the content of an existing entry with the same name while keeping the original
// position.
func (b *Bundle) add(e *Entry) {
	if b.index == nil {
		b.index = make(map[string]int)
	}

	if i, ok := b.index[e.Name]; ok {
		b.entries[i].Data = e.Data
		b.entries[i].Modified = e.Modified
		return
	}

	b.index[e.Name] = len(b.entries)
	b.entries = append(b.entries, e)
}
