// Package chunker splits document text into bounded overlapping chunks
// for embedding and retrieval.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

// Separators in priority order. Splitting prefers the earliest
// separator that keeps pieces within the chunk size and falls back to
// the next one only for pieces that still exceed it. The empty string
// is the character-level fallback, so every chunk fits the bound.
var separators = []string{"\n\n", "\n", ".", " ", ""}

// Split cuts text into chunks of at most chunkSize characters, adjacent
// chunks overlapping by roughly chunkOverlap characters. Empty input
// yields nil; callers treat zero chunks as a processing failure.
func Split(text string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return splitRecursive(text, separators, chunkSize, chunkOverlap)
}

func splitRecursive(text string, seps []string, size, overlap int) []string {
	// Pick the first separator present in the text; "" always matches.
	sep := seps[len(seps)-1]
	var rest []string
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	pieces := splitKeepSeparator(text, sep)

	var chunks []string
	var good []string
	for _, piece := range pieces {
		if utf8.RuneCountInString(piece) <= size {
			good = append(good, piece)
			continue
		}
		// Piece is still too large: flush what fits, recurse with the
		// remaining separators on the oversized piece.
		if len(good) > 0 {
			chunks = append(chunks, merge(good, size, overlap)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, splitRecursive(piece, rest, size, overlap)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, merge(good, size, overlap)...)
	}
	return chunks
}

// splitKeepSeparator splits on sep, keeping the separator attached to
// the preceding piece so sentence terminators survive in the chunks.
// The empty separator splits into individual characters.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		pieces := make([]string, len(runes))
		for i, r := range runes {
			pieces[i] = string(r)
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// merge greedily packs pieces into chunks of at most size characters.
// When a chunk is emitted, leading pieces are dropped from the window
// until at most overlap characters remain; those carry over into the
// next chunk.
func merge(pieces []string, size, overlap int) []string {
	var chunks []string
	var window []string
	total := 0

	for _, p := range pieces {
		l := utf8.RuneCountInString(p)
		if total+l > size && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > overlap || (total+l > size && total > 0) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += l
	}

	if len(window) > 0 {
		if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
