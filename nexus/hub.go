package nexus

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ErrUnavailable is returned when no LLM is configured (missing API key).
var ErrUnavailable = errors.New("assistant is not configured: set NEXUS_GEMINI_API_KEY")

// maxToolRounds bounds the function-calling loop per user message.
const maxToolRounds = 4

const systemPrompt = "You are the office assistant for an Australian roof " +
	"restoration company. You help staff look up leads and quotes, answer " +
	"questions about the service catalog, and draft short customer emails. " +
	"Use the provided tools to read and create CRM data instead of guessing. " +
	"All prices are in Australian dollars and include 10% GST where stated. " +
	"Keep answers short and practical."

// Hub ties the LLM, the tool registry and chat persistence together.
type Hub struct {
	llm      LLM
	registry *Registry
}

// NewHub creates a hub. A nil llm produces a hub that reports ErrUnavailable
// on every message, so the rest of the app can run without an API key.
func NewHub(llm LLM) *Hub {
	return &Hub{llm: llm, registry: NewRegistry()}
}

// HandleMessage runs one user message through the assistant: it persists the
// user turn, lets the model call tools until it produces text, and persists
// and returns the assistant's reply.
func (h *Hub) HandleMessage(ctx context.Context, app core.App, sessionID, text string) (string, error) {
	if h.llm == nil {
		return "", ErrUnavailable
	}

	session, err := app.FindRecordById("chat_sessions", sessionID)
	if err != nil {
		return "", fmt.Errorf("chat session %s not found: %w", sessionID, err)
	}

	intent := ClassifyIntent(text)
	if err := h.saveMessage(app, session.Id, RoleUser, text, intent, ""); err != nil {
		return "", err
	}

	history, err := h.loadHistory(app, session.Id)
	if err != nil {
		return "", err
	}

	specs := h.registry.Specs()
	for round := 0; round < maxToolRounds; round++ {
		reply, err := h.llm.Generate(ctx, systemPrompt, history, specs)
		if err != nil {
			return "", fmt.Errorf("assistant generate: %w", err)
		}

		if len(reply.ToolCalls) == 0 {
			if err := h.saveMessage(app, session.Id, RoleAssistant, reply.Text, intent, ""); err != nil {
				return "", err
			}
			return reply.Text, nil
		}

		for _, call := range reply.ToolCalls {
			result := h.registry.Execute(app, call)

			history = append(history,
				Message{Role: RoleAssistant, ToolCall: &call},
				Message{Role: RoleTool, ToolResult: &result},
			)
			if err := h.saveMessage(app, session.Id, RoleTool, fmt.Sprintf("%v", result.Content), intent, call.Name); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("assistant exceeded %d tool rounds without answering", maxToolRounds)
}

// loadHistory reconstructs the text turns of a session for the model. Tool
// turns are not replayed across messages; each message starts a fresh tool
// loop.
func (h *Hub) loadHistory(app core.App, sessionID string) ([]Message, error) {
	records, err := app.FindRecordsByFilter(
		"chat_messages",
		"session = {:sessionId} && role != 'tool'",
		"created",
		0,
		0,
		map[string]any{"sessionId": sessionID},
	)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	history := make([]Message, 0, len(records))
	for _, rec := range records {
		history = append(history, Message{
			Role: rec.GetString("role"),
			Text: rec.GetString("content"),
		})
	}
	return history, nil
}

func (h *Hub) saveMessage(app core.App, sessionID, role, content, intent, toolName string) error {
	col, err := app.FindCollectionByNameOrId("chat_messages")
	if err != nil {
		return fmt.Errorf("chat_messages collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("session", sessionID)
	rec.Set("role", role)
	rec.Set("content", content)
	rec.Set("intent", intent)
	if toolName != "" {
		rec.Set("tool_name", toolName)
	}
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}
