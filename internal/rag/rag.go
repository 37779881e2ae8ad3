package rag

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"hybrid-rag/internal/chunker"
	"hybrid-rag/internal/classifier"
	"hybrid-rag/internal/config"
	"hybrid-rag/internal/embedding"
	"hybrid-rag/internal/helper"
	"hybrid-rag/internal/llmservice"
	"hybrid-rag/internal/models"
	"hybrid-rag/internal/parser"
	"hybrid-rag/internal/retrieval"
	"hybrid-rag/internal/vectorstore"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrEmptyDocument = errors.New("document text is empty")
)

// RAG wires the two retrieval paths to the shared answer gateway. Each
// question runs as one logical task with strictly sequential stages.
type RAG struct {
	store    *vectorstore.Store
	embedder embedding.Embedder
	gateway  *llmservice.Client
	refiner  *classifier.Refiner
	dataset  *retrieval.DatasetStrategy
	cfg      *config.Config
}

func NewRAG(store *vectorstore.Store, embedder embedding.Embedder, gateway *llmservice.Client,
	fetcher retrieval.DataFetcher, refiner *classifier.Refiner, cfg *config.Config) *RAG {
	return &RAG{
		store:    store,
		embedder: embedder,
		gateway:  gateway,
		refiner:  refiner,
		dataset:  &retrieval.DatasetStrategy{Fetcher: fetcher, Planner: refiner},
		cfg:      cfg,
	}
}

// AnswerFile extracts text from the file at path and answers from it.
func (r *RAG) AnswerFile(ctx context.Context, path, question string) (*models.PromptResponse, error) {
	text, err := parser.ExtractText(path)
	if err != nil {
		return nil, err
	}
	return r.AnswerDocument(ctx, text, question)
}

// AnswerDocument runs the document path: chunk, embed, store, search, answer.
// The request's vector store entry is released on every exit path.
func (r *RAG) AnswerDocument(ctx context.Context, text, question string) (*models.PromptResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	chunks, err := chunker.Split(text, chunker.Options{
		TargetSize:   r.cfg.RAG.ChunkSize,
		OverlapWords: r.cfg.RAG.OverlapWords,
	})
	if err != nil {
		return nil, err
	}

	requestID := helper.RequestID()
	defer r.store.Release(requestID)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := r.embedder.EmbedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	records := make([]models.VectorRecord, len(chunks))
	for i := range chunks {
		records[i] = models.VectorRecord{Text: chunks[i].Text, Embedding: vectors[i]}
	}
	r.store.Put(requestID, records)

	strategy := &retrieval.DocumentStrategy{Store: r.store, Embedder: r.embedder, TopK: r.cfg.RAG.TopK}
	bundle, err := strategy.Retrieve(ctx, requestID, question)
	if err != nil {
		return nil, err
	}

	return r.answer(ctx, question, bundle.Context())
}

// AnswerDataset runs the dataset path: classify, retrieve, answer.
func (r *RAG) AnswerDataset(ctx context.Context, question string) (*models.PromptResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	cls := classifier.ClassifyRules(question)
	cls = r.refiner.Refine(ctx, question, cls)
	log.Debug().
		Str("type", string(cls.Type)).
		Float64("confidence", cls.Confidence).
		Msg("Classified question")

	bundle, err := r.dataset.Retrieve(ctx, question, cls)
	if err != nil {
		return nil, err
	}

	return r.answer(ctx, question, bundle.Context())
}

func (r *RAG) answer(ctx context.Context, question, contextText string) (*models.PromptResponse, error) {
	content, err := r.gateway.Answer(ctx, question, contextText)
	if err != nil {
		return nil, err
	}
	return &models.PromptResponse{
		Query:   question,
		Source:  contextText,
		Content: content,
	}, nil
}
