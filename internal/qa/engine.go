package qa

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docqa/internal/qa Engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/llm"
	"docqa/internal/storage"
)

// Answers returned instead of an error when the answer generator fails or
// produces nothing.
const (
	emptyContext  = "No relevant documents found."
	emptyAnswer   = "No response generated."
	failureAnswer = "Error generating response from LLM."
)

// Engine answers questions about ingested documents.
type Engine interface {
	// Ask retrieves passages relevant to the question and synthesizes an
	// answer from them. document names the file the caller is asking about;
	// it only narrows the search when document scoping is enabled.
	Ask(ctx context.Context, document, question string) (string, error)
}

type qaEngine struct {
	retriever       Retriever
	docRepo         storage.DocumentStore
	synthesizer     llm.Synthesizer
	scopeToDocument bool
	logger          *slog.Logger
}

// NewEngine creates a QA engine. When scopeToDocument is true, Ask resolves
// the named document and restricts retrieval to it; otherwise retrieval is
// global across all documents.
func NewEngine(retriever Retriever, docRepo storage.DocumentStore, synthesizer llm.Synthesizer, scopeToDocument bool) Engine {
	return &qaEngine{
		retriever:       retriever,
		docRepo:         docRepo,
		synthesizer:     synthesizer,
		scopeToDocument: scopeToDocument,
		logger:          slog.Default(),
	}
}

func (e *qaEngine) Ask(ctx context.Context, document, question string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	logger.InfoContext(ctx, "question received", "document", document, "scoped", e.scopeToDocument)

	fingerprint := ""
	if e.scopeToDocument && document != "" {
		doc, err := e.docRepo.GetByFilename(ctx, document)
		if err != nil {
			return "", err
		}
		fingerprint = doc.Fingerprint
	}

	results, err := e.retriever.Retrieve(ctx, question, fingerprint)
	if err != nil {
		return "", err
	}

	passages := make([]string, 0, len(results))
	for _, result := range results {
		if result.Text != "" {
			passages = append(passages, result.Text)
		}
	}

	contextText := emptyContext
	if len(passages) > 0 {
		contextText = strings.Join(passages, "\n")
	}
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", contextText, question)

	logger.DebugContext(ctx, "prompt built", "passages", len(passages), "prompt_length", len(prompt))

	answer, err := e.synthesizer.Complete(ctx, prompt)
	if err != nil {
		// Provider errors are not the caller's problem to untangle.
		logger.ErrorContext(ctx, "answer synthesis failed", "error", err)
		return failureAnswer, nil
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		logger.WarnContext(ctx, "synthesizer returned empty answer")
		return emptyAnswer, nil
	}

	logger.InfoContext(ctx, "answer generated", "answer_length", len(answer))
	return answer, nil
}
