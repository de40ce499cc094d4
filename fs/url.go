package fs

import (
	"strings"

	"github.com/fwojciec/docdex"
)

// SiteURLResolver returns a SourceURLFunc mapping corpus-relative markdown
// paths back to their public documentation URLs.
// Example: with base https://docs.example.com, "api/users.md" resolves to
// https://docs.example.com/api/users and "guides/index.md" to
// https://docs.example.com/guides.
//
// An empty base URL yields the identity mapping (the file path itself),
// which keeps attribution meaningful for purely local corpora.
func SiteURLResolver(baseURL string) docdex.SourceURLFunc {
	base := strings.TrimSuffix(baseURL, "/")
	return func(relPath string) string {
		if base == "" {
			return relPath
		}

		path := strings.TrimSuffix(relPath, ".md")
		path = strings.TrimSuffix(path, "/index")
		if path == "index" {
			return base
		}
		return base + "/" + path
	}
}
