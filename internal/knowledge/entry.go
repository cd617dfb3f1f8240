// Package knowledge holds the advisor's FAQ catalog: a fixed set of
// (question, answer) pairs embedded at load time and searched by cosine
// similarity. The store is a deliberate linear scan — the catalog is
// FAQ-scale (tens to low hundreds of entries), so no index structure is
// warranted. Growing past that scale means replacing this package, not
// tuning it.
package knowledge

// Entry is one FAQ item together with the embedding of its question text.
// Entries are immutable after load.
type Entry struct {
	Question  string
	Answer    string
	Embedding []float32
}

// Match is one search hit. Score is the cosine similarity between the query
// and the entry's question embedding.
type Match struct {
	Question string
	Answer   string
	Score    float64
}
