package knowledge

import (
	"context"
	"fmt"
	"sort"

	"github.com/rmehta/loan-advisor/internal/embeddings"
)

// DefaultThreshold is the store's fallback minimum similarity when a search
// does not supply one.
const DefaultThreshold = 0.6

// Store is a read-only-after-load catalog of FAQ entries searched by
// brute-force cosine scan. Add is only called during startup loading; once
// serving begins the store is immutable and safe for concurrent reads.
type Store struct {
	embedder embeddings.Embedder
	entries  []Entry
}

// NewStore creates an empty store that embeds questions and queries with
// the given embedder.
func NewStore(embedder embeddings.Embedder) *Store {
	return &Store{embedder: embedder}
}

// Add embeds the question text and appends the entry to the catalog.
func (s *Store) Add(ctx context.Context, question, answer string) error {
	vecs, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return fmt.Errorf("embedding question: %w", err)
	}
	if len(vecs) != 1 {
		return fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}

	s.entries = append(s.entries, Entry{
		Question:  question,
		Answer:    answer,
		Embedding: vecs[0],
	})
	return nil
}

// Count returns the number of entries in the catalog.
func (s *Store) Count() int { return len(s.entries) }

// Search embeds the query, scores it against every entry, and returns up to
// topK matches with similarity >= threshold, ordered by descending score.
// Ties keep catalog insertion order. An empty result is a valid outcome,
// not an error. The query embedding is re-derived on every call.
func (s *Store) Search(ctx context.Context, query string, topK int, threshold float64) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}
	queryVec := vecs[0]

	var matches []Match
	for _, e := range s.entries {
		score, err := Cosine(queryVec, e.Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring %q: %w", e.Question, err)
		}
		if score >= threshold {
			matches = append(matches, Match{Question: e.Question, Answer: e.Answer, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
