package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for intent extraction.
const DefaultModelName = "gemini-2.5-flash"

// GeminiInterpreter implements Interpreter against the Gemini API. The
// API key comes from the environment (GEMINI_API_KEY / GOOGLE_API_KEY),
// resolved by the genai client itself.
type GeminiInterpreter struct {
	client *genai.Client
	model  string
}

// NewGeminiInterpreter creates a Gemini-backed interpreter. An empty
// model falls back to DefaultModelName.
func NewGeminiInterpreter(ctx context.Context, model string) (*GeminiInterpreter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiInterpreter: create genai client: %w", err)
	}

	if model == "" {
		model = DefaultModelName
	}

	return &GeminiInterpreter{client: client, model: model}, nil
}

// Interpret sends the system prompt plus the conversation to the model
// and decodes the strict-JSON reply. Assistant turns map to the "model"
// role.
func (g *GeminiInterpreter) Interpret(ctx context.Context, conversation []Message) (*Interpretation, error) {
	contents := make([]*genai.Content, 0, len(conversation))
	for _, m := range conversation {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Interpret: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("Interpret: empty response from model")
	}

	return decodeReply(raw), nil
}
