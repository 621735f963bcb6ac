package app

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"ragapi/internal/chunker"
	"ragapi/internal/extract"
	"ragapi/internal/model"
)

// DocumentStore persists raw uploaded documents.
type DocumentStore interface {
	Create(doc *model.Document) error
}

// ChunkStore embeds and indexes chunk texts with their metadata.
type ChunkStore interface {
	Store(ctx context.Context, texts []string, metadatas []model.ChunkMetadata) error
}

// IngestPublisher emits an audit event after a successful ingestion.
type IngestPublisher interface {
	Publish(ctx context.Context, event model.IngestEvent) error
}

// IngestService runs the ingestion pipeline: extract text, chunk,
// persist the raw document, index the chunks. Failures are returned as
// data in the TrainResult, never as a Go error, so the transport always
// has a response body to serve.
type IngestService struct {
	docs         DocumentStore
	chunks       ChunkStore
	publisher    IngestPublisher // optional
	chunkSize    int
	chunkOverlap int
}

func NewIngestService(docs DocumentStore, chunks ChunkStore, publisher IngestPublisher) *IngestService {
	return &IngestService{
		docs:         docs,
		chunks:       chunks,
		publisher:    publisher,
		chunkSize:    chunker.DefaultChunkSize,
		chunkOverlap: chunker.DefaultChunkOverlap,
	}
}

type TrainInput struct {
	UserID   string
	Filename string
	Content  []byte
	// ReadDuration is how long the transport spent reading the upload;
	// it is reported in the timing breakdown.
	ReadDuration time.Duration
}

type IngestTimings struct {
	FileRead       string `json:"file_read"`
	TextExtraction string `json:"text_extraction"`
	DocumentSave   string `json:"document_save"`
	Chunking       string `json:"chunking"`
	Metadata       string `json:"metadata"`
	VectorStorage  string `json:"vector_storage"`
	Total          string `json:"total"`
}

type ProcessingSummary struct {
	TotalChunks     int           `json:"total_chunks"`
	FileSize        int           `json:"file_size"`
	TextLength      int           `json:"text_length"`
	ProcessingTime  string        `json:"processing_time"`
	TimingBreakdown IngestTimings `json:"timing_breakdown"`
}

type StorageInfo struct {
	VectorDB     string `json:"vector_db"`
	DocumentDB   string `json:"document_db"`
	ChunksStored int    `json:"chunks_stored"`
	FileStored   bool   `json:"file_stored"`
}

// TrainResult is the ingestion response body. On failure only error,
// message, user_id, filename and status are populated.
type TrainResult struct {
	UserID            string             `json:"user_id"`
	Filename          string             `json:"filename"`
	ProcessingSummary *ProcessingSummary `json:"processing_summary,omitempty"`
	StorageInfo       *StorageInfo       `json:"storage_info,omitempty"`
	Status            string             `json:"status"`
	Message           string             `json:"message"`
	Error             string             `json:"error,omitempty"`
}

// Train processes one uploaded document end to end. Chunking runs
// before any store write, so a document that yields zero chunks leaves
// no trace in the document store or the vector index.
func (s *IngestService) Train(ctx context.Context, input TrainInput) *TrainResult {
	start := time.Now()

	extractStart := time.Now()
	text, err := extract.FromFile(input.Content, input.Filename)
	if err != nil {
		return s.failed(input, fmt.Errorf("%w: %v", ErrProcessing, err))
	}
	extractTime := time.Since(extractStart)

	storedFilename := input.UserID + "_" + input.Filename

	chunkStart := time.Now()
	textChunks := chunker.Split(text, s.chunkSize, s.chunkOverlap)
	chunkTime := time.Since(chunkStart)
	if len(textChunks) == 0 {
		return s.failed(input, fmt.Errorf("%w: no chunks generated from document", ErrProcessing))
	}

	saveStart := time.Now()
	doc := &model.Document{
		UserID:    input.UserID,
		Filename:  storedFilename,
		Content:   text,
		CreatedAt: time.Now(),
	}
	if err := s.docs.Create(doc); err != nil {
		return s.failed(input, fmt.Errorf("%w: save document: %v", ErrStorage, err))
	}
	saveTime := time.Since(saveStart)

	metadataStart := time.Now()
	metadatas := make([]model.ChunkMetadata, len(textChunks))
	for i := range textChunks {
		metadatas[i] = model.ChunkMetadata{Source: storedFilename, UserID: input.UserID}
	}
	metadataTime := time.Since(metadataStart)

	vectorStart := time.Now()
	if err := s.chunks.Store(ctx, textChunks, metadatas); err != nil {
		return s.failed(input, err)
	}
	vectorTime := time.Since(vectorStart)

	if s.publisher != nil {
		event := model.IngestEvent{
			UserID:     input.UserID,
			Filename:   storedFilename,
			ChunkCount: len(textChunks),
			FileSize:   len(input.Content),
			CreatedAt:  time.Now(),
		}
		// Audit only; never fails the ingestion.
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("publish ingest event failed: %v", err)
		}
	}

	return &TrainResult{
		UserID:   input.UserID,
		Filename: input.Filename,
		ProcessingSummary: &ProcessingSummary{
			TotalChunks:    len(textChunks),
			FileSize:       len(input.Content),
			TextLength:     utf8.RuneCountInString(text),
			ProcessingTime: time.Now().UTC().Format(time.RFC3339),
			TimingBreakdown: IngestTimings{
				FileRead:       formatSeconds(input.ReadDuration),
				TextExtraction: formatSeconds(extractTime),
				DocumentSave:   formatSeconds(saveTime),
				Chunking:       formatSeconds(chunkTime),
				Metadata:       formatSeconds(metadataTime),
				VectorStorage:  formatSeconds(vectorTime),
				Total:          formatSeconds(time.Since(start)),
			},
		},
		StorageInfo: &StorageInfo{
			VectorDB:     "Qdrant",
			DocumentDB:   "MySQL",
			ChunksStored: len(textChunks),
			FileStored:   true,
		},
		Status:  "success",
		Message: fmt.Sprintf("Document '%s' processed and stored successfully", input.Filename),
	}
}

func (s *IngestService) failed(input TrainInput, err error) *TrainResult {
	log.Printf("ingest failed | user=%s file=%s: %v", input.UserID, input.Filename, err)
	return &TrainResult{
		UserID:   input.UserID,
		Filename: input.Filename,
		Status:   "failed",
		Message:  err.Error(),
		Error:    "Processing Error",
	}
}
