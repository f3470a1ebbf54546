// Package tokenizer provides client-side token counting for instruction
// payloads, used to log payload sizes before a session is opened.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Tokenizer counts tokens using the cl100k_base encoding. Counts are
// estimates; the engine's own tokenization is authoritative.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer. Loading the encoding downloads or reads a
// cached BPE table, so callers should create one tokenizer and reuse it.
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// CountTokens returns the token count of text. A nil tokenizer counts
// zero, so callers can treat initialization failure as a disabled count.
func (t *Tokenizer) CountTokens(text string) int {
	if t == nil || t.encoding == nil {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}
