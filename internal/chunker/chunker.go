package chunker

import (
	"errors"
	"regexp"
	"strings"

	"hybrid-rag/internal/models"
)

// ErrEmptyInput is returned when no usable chunks remain after filtering.
var ErrEmptyInput = errors.New("no usable chunks after filtering")

const minChunkLen = 10

// sentenceEnd marks sentence-terminal punctuation followed by whitespace.
// A terminator at end-of-text needs no whitespace to close the sentence.
var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Options controls chunk packing. TargetSize is the character budget per
// chunk; OverlapWords/10 trailing words of a closed chunk seed the next one.
type Options struct {
	TargetSize   int
	OverlapWords int
}

// Split packs sentences greedily into chunks of at most TargetSize characters,
// never breaking inside a sentence. A single sentence longer than TargetSize
// still becomes its own chunk. Chunks shorter than 10 characters after
// trimming are dropped; if nothing survives, ErrEmptyInput is returned.
func Split(text string, opts Options) ([]models.Chunk, error) {
	sentences := splitSentences(text)

	var pieces []string
	var current strings.Builder
	overlap := ""
	packed := 0 // sentences in the current chunk, excluding the overlap seed

	closeCurrent := func() {
		if packed > 0 {
			pieces = append(pieces, current.String())
			overlap = trailingWords(current.String(), opts.OverlapWords/10)
		}
		current.Reset()
		packed = 0
	}

	for _, sentence := range sentences {
		if packed > 0 && current.Len()+1+len(sentence) > opts.TargetSize {
			closeCurrent()
		}
		if current.Len() == 0 && overlap != "" {
			current.WriteString(overlap)
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
		packed++
	}
	closeCurrent()

	var chunks []models.Chunk
	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if len(trimmed) < minChunkLen {
			continue
		}
		chunks = append(chunks, models.Chunk{Text: trimmed, Sequence: len(chunks)})
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyInput
	}
	return chunks, nil
}

func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x1f")
	parts := strings.Split(marked, "\x1f")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func trailingWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
