package bundle

import "strings"

// MediaPrefix is the path prefix under which spreadsheet packages store embedded images.
const MediaPrefix = "xl/media/"

// MediaNames returns the names of the entries that start with the given prefix, in listing order.
//
// Directory entries are never included. If prefix is empty, MediaPrefix is used.
func MediaNames(b *Bundle, prefix string) []string {
	if prefix == "" {
		prefix = MediaPrefix
	}

	var names []string
	for _, e := range b.entries {
		if strings.HasPrefix(e.Name, prefix) && !e.IsDir() {
			names = append(names, e.Name)
		}
	}

	return names
}
