package tools

// knowledge.go defines the knowledge base tools exposed to the chat model.
//
// add_resource ingests a piece of knowledge stated by the user.
// get_information retrieves stored knowledge relevant to a question.

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/onwyhq/onwy/internal/knowledge"
)

// Tool name constants registered with Genkit.
const (
	// AddResourceName is the Genkit tool name for storing new knowledge.
	AddResourceName = "add_resource"
	// GetInformationName is the Genkit tool name for retrieving knowledge.
	GetInformationName = "get_information"
)

// MaxResourceContentSize is the maximum allowed content size for
// add_resource (10KB). Prevents runaway embedding computation from a
// single chat turn; bulk ingestion goes through the CLI.
const MaxResourceContentSize = 10_000

// AddResourceInput defines input for the add_resource tool.
type AddResourceInput struct {
	Content string `json:"content" jsonschema_description:"The knowledge content to store"`
}

// GetInformationInput defines input for the get_information tool.
type GetInformationInput struct {
	Question string `json:"question" jsonschema_description:"The user's question to look up"`
}

// KnowledgeStore is the subset of the knowledge store the tools need.
type KnowledgeStore interface {
	CreateResource(ctx context.Context, input knowledge.ResourceInput) (string, error)
	FindRelevantContent(ctx context.Context, query string) ([]knowledge.ContentMatch, error)
}

// Knowledge holds dependencies for the knowledge tool handlers.
type Knowledge struct {
	store  KnowledgeStore
	logger *slog.Logger
}

// NewKnowledge creates a Knowledge instance.
func NewKnowledge(store KnowledgeStore, logger *slog.Logger) (*Knowledge, error) {
	if store == nil {
		return nil, fmt.Errorf("knowledge store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Knowledge{store: store, logger: logger}, nil
}

// RegisterKnowledge registers the knowledge tools with Genkit.
func RegisterKnowledge(g *genkit.Genkit, kt *Knowledge) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if kt == nil {
		return nil, fmt.Errorf("Knowledge is required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, AddResourceName,
			"Add a resource to your knowledge base. "+
				"If the user provides a random piece of knowledge unprompted, "+
				"use this tool without asking for confirmation.",
			kt.AddResource),
		genkit.DefineTool(g, GetInformationName,
			"Get information from your knowledge base to answer questions. "+
				"Returns stored content ranked by similarity to the question.",
			kt.GetInformation),
	}, nil
}

// AddResource stores a new piece of knowledge.
// Store failures are caught and reported inside the Result so the model
// can relay them to the user instead of aborting the turn.
func (k *Knowledge) AddResource(ctx *ai.ToolContext, input AddResourceInput) (Result, error) {
	k.logger.Info("AddResource called", "content_len", len(input.Content))

	if input.Content == "" {
		return failure(ErrCodeValidation, "content is required"), nil
	}
	if len(input.Content) > MaxResourceContentSize {
		return failure(ErrCodeValidation,
			fmt.Sprintf("content size %d exceeds maximum %d bytes", len(input.Content), MaxResourceContentSize)), nil
	}

	// Content hash identifies the entry in logs without echoing its text.
	contentHash := fmt.Sprintf("%x", sha256.Sum256([]byte(input.Content)))

	msg, err := k.store.CreateResource(ctx, knowledge.ResourceInput{Content: input.Content})
	if err != nil {
		k.logger.Warn("AddResource failed", "content_hash", contentHash, "error", err)
		return failure(ErrCodeExecution, fmt.Sprintf("storing resource: %v", err)), nil
	}

	k.logger.Info("AddResource succeeded", "content_hash", contentHash)
	return success(map[string]any{
		"message":      msg,
		"content_hash": contentHash,
	}), nil
}

// GetInformation retrieves knowledge relevant to a question.
// Retrieval errors propagate as Go errors; unlike ingestion there is no
// partial state to report, and the model should not fabricate an answer
// from a failed lookup.
func (k *Knowledge) GetInformation(ctx *ai.ToolContext, input GetInformationInput) (Result, error) {
	k.logger.Info("GetInformation called", "question_len", len(input.Question))

	if input.Question == "" {
		return failure(ErrCodeValidation, "question is required"), nil
	}

	matches, err := k.store.FindRelevantContent(ctx, input.Question)
	if err != nil {
		return Result{}, fmt.Errorf("retrieving knowledge: %w", err)
	}

	k.logger.Info("GetInformation succeeded", "result_count", len(matches))
	return success(map[string]any{
		"question":     input.Question,
		"result_count": len(matches),
		"results":      matches,
	}), nil
}
