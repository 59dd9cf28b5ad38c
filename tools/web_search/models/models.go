package models

// Result is one ranked hit from a web-search provider. Order within a single
// query is the provider's relevance order and is preserved.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string // host the result came from, e.g. reuters.com
}
