// Package imagequery turns an uploaded image into a text search query.
// This is a stand-in lookup keyed on the filename, not a vision model.
package imagequery

import (
	"path/filepath"
	"strings"
)

// cannedQueries maps filename substrings to search queries. First match
// wins, checked in this order.
var cannedQueries = []struct {
	substr string
	query  string
}{
	{"iphone", "iphone 15"},
	{"galaxy", "samsung galaxy s25"},
	{"samsung", "samsung galaxy s25"},
	{"pixel", "google pixel 9"},
	{"macbook", "macbook air m3"},
	{"airpods", "airpods pro"},
	{"watch", "apple watch series 10"},
	{"ps5", "playstation 5"},
}

// Resolve derives a query from the uploaded file. The image bytes are
// accepted for interface compatibility but unused by the stub.
func Resolve(_ []byte, filename string) string {
	lower := strings.ToLower(filename)
	for _, c := range cannedQueries {
		if strings.Contains(lower, c.substr) {
			return c.query
		}
	}
	// Fall back to the bare filename as a query.
	base := strings.TrimSuffix(lower, filepath.Ext(lower))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.TrimSpace(base)
}
