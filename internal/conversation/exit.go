package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rmehta/loan-advisor/internal/embeddings"
	"github.com/rmehta/loan-advisor/internal/knowledge"
)

// ExitPhrases are the closing phrases recognized without any external call.
var ExitPhrases = []string{
	"ok", "okay", "thanks", "thank you", "got it", "bye", "cool",
	"okay thanks", "i got it", "no more questions", "alright", "fine", "that's all",
}

// ExitDetector decides whether a message politely ends the conversation.
// Stage 1 is an exact phrase match (no external calls). Stage 2 embeds the
// message against the closing phrases and, only above the similarity
// threshold, asks the LLM for a yes/no confirmation. Any failure means
// "not exiting" — the safe default is to keep talking.
type ExitDetector struct {
	embedder  embeddings.Embedder
	llm       LLMClient
	threshold float64
}

// NewExitDetector builds a detector with the given similarity gate.
func NewExitDetector(embedder embeddings.Embedder, client LLMClient, threshold float64) *ExitDetector {
	return &ExitDetector{embedder: embedder, llm: client, threshold: threshold}
}

// Detect reports whether the message is a confirmed exit. context carries
// the accumulated session summary for the confirmation prompt.
func (d *ExitDetector) Detect(ctx context.Context, model, message, chatContext string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(message))
	for _, phrase := range ExitPhrases {
		if trimmed == phrase {
			return true
		}
	}

	score, err := d.maxSimilarity(ctx, message)
	if err != nil {
		log.Printf("conversation: exit similarity check failed: %v", err)
		return false
	}
	if score < d.threshold {
		return false
	}

	confirmed, err := d.llm.ConfirmExit(ctx, model, message, chatContext)
	if err != nil {
		log.Printf("conversation: exit confirmation failed: %v", err)
		return false
	}
	return confirmed
}

// maxSimilarity embeds the message together with every closing phrase (one
// batched call, re-derived each time) and returns the highest cosine score.
func (d *ExitDetector) maxSimilarity(ctx context.Context, message string) (float64, error) {
	texts := append([]string{message}, ExitPhrases...)
	vecs, err := d.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vecs) != len(texts) {
		return 0, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vecs))
	}

	max := -1.0
	for _, phraseVec := range vecs[1:] {
		score, err := knowledge.Cosine(vecs[0], phraseVec)
		if err != nil {
			return 0, err
		}
		if score > max {
			max = score
		}
	}
	return max, nil
}
