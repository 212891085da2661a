package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kitsune-cli/kitsune/internal/actions"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-lite"

// Gemini is the production Model backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *zap.Logger
}

// NewGemini creates the client. An empty apiKey yields ErrMissingAPIKey.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: FunctionDeclarations(actions.Declarations())}},
		},
		logger: logger,
	}, nil
}

// Generate sends the whole conversation and converts the first candidate.
func (g *Gemini) Generate(ctx context.Context, history []Turn) (Turn, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, toContents(history), g.config)
	if err != nil {
		return Turn{}, fmt.Errorf("gemini request failed: %w", err)
	}
	g.logger.Debug("gemini reply",
		zap.String("model", g.model),
		zap.Int("turns", len(history)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return fromResponse(resp)
}

// FunctionDeclarations converts action declarations to Gemini tool schemas.
func FunctionDeclarations(decls []actions.Declaration) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if len(d.Params) > 0 {
			props := make(map[string]*genai.Schema, len(d.Params))
			for _, p := range d.Params {
				props[p.Name] = paramSchema(p)
			}
			fd.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   d.Required(),
			}
		}
		out = append(out, fd)
	}
	return out
}

func paramSchema(p actions.Param) *genai.Schema {
	switch p.Type {
	case actions.TypeInteger:
		return &genai.Schema{Type: genai.TypeInteger, Description: p.Description}
	case actions.TypeStringArray:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: p.Description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	default:
		schema := &genai.Schema{Type: genai.TypeString, Description: p.Description}
		if len(p.Enum) > 0 {
			schema.Format = "enum"
			schema.Enum = p.Enum
		}
		return schema
	}
}

func toContents(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		content := &genai.Content{Role: string(t.Role)}
		for _, p := range t.Parts {
			switch {
			case p.FunctionCall != nil:
				content.Parts = append(content.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   p.FunctionCall.ID,
					Name: p.FunctionCall.Name,
					Args: p.FunctionCall.Args,
				}})
			case p.FunctionResponse != nil:
				content.Parts = append(content.Parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       p.FunctionResponse.ID,
					Name:     p.FunctionResponse.Name,
					Response: p.FunctionResponse.Response,
				}})
			default:
				content.Parts = append(content.Parts, genai.NewPartFromText(p.Text))
			}
		}
		contents = append(contents, content)
	}
	return contents
}

func fromResponse(resp *genai.GenerateContentResponse) (Turn, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return Turn{}, fmt.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return Turn{}, errors.New("gemini returned no candidates")
	}

	turn := Turn{Role: RoleModel}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		switch {
		case p.FunctionCall != nil:
			turn.Parts = append(turn.Parts, CallPart(FunctionCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			}))
		case p.Text != "":
			turn.Parts = append(turn.Parts, TextPart(p.Text))
		}
	}
	if len(turn.Parts) == 0 {
		return Turn{}, fmt.Errorf("gemini returned an empty reply (finish reason %s)", resp.Candidates[0].FinishReason)
	}
	return turn, nil
}
