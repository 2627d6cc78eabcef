// Package nexus is the assistant hub: it routes chat messages through an
// LLM with function calling wired to the CRM data.
package nexus

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Message roles stored on chat_messages and passed to the model.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult carries a tool's output back to the model.
type ToolResult struct {
	Name    string
	Content map[string]any
}

// Message is one turn of a conversation.
type Message struct {
	Role       string
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// Reply is the model's response: either text, or one or more tool calls to
// execute before asking again.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
}

// ParamSpec describes one tool parameter.
type ParamSpec struct {
	Type        string // "string" or "number"
	Description string
	Required    bool
}

// ToolSpec declares a callable tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	Params      map[string]ParamSpec
}

// LLM generates a reply for a conversation. Implementations must be safe for
// concurrent use.
type LLM interface {
	Generate(ctx context.Context, system string, history []Message, tools []ToolSpec) (*Reply, error)
}

// GeminiLLM implements LLM using Google's Gemini API.
type GeminiLLM struct {
	client *genai.Client
	model  string
}

// NewGeminiLLM creates a Gemini-backed LLM client.
func NewGeminiLLM(ctx context.Context, apiKey, model string) (*GeminiLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiLLM{client: client, model: model}, nil
}

// Generate sends the conversation to Gemini and returns its reply.
func (g *GeminiLLM) Generate(ctx context.Context, system string, history []Message, tools []ToolSpec) (*Reply, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch {
		case msg.ToolCall != nil:
			contents = append(contents, &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{{
					FunctionCall: &genai.FunctionCall{
						Name: msg.ToolCall.Name,
						Args: msg.ToolCall.Args,
					},
				}},
			})
		case msg.ToolResult != nil:
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     msg.ToolResult.Name,
						Response: msg.ToolResult.Content,
					},
				}},
			})
		case msg.Role == RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Text, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{
			FunctionDeclarations: toFunctionDeclarations(tools),
		}}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini generate failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("Gemini returned no candidates")
	}

	reply := &Reply{}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}
	reply.Text = result.Text()

	return reply, nil
}

func toFunctionDeclarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]*genai.Schema, len(t.Params))
		var required []string
		for name, p := range t.Params {
			schemaType := genai.TypeString
			if p.Type == "number" {
				schemaType = genai.TypeNumber
			}
			props[name] = &genai.Schema{
				Type:        schemaType,
				Description: p.Description,
			}
			if p.Required {
				required = append(required, name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return decls
}
