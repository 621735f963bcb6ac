package app

import "errors"

// Failure classes for the two pipelines. Remote generation failures
// have their own types in the ai package (ai.APIError, ai.ErrNetwork).
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmbedding    = errors.New("embedding error")
	ErrVectorStore  = errors.New("vector store error")
	ErrStorage      = errors.New("storage error")
	ErrProcessing   = errors.New("processing error")
)
