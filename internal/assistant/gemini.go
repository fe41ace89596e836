package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coldcase/internal/logging"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiConfig holds the settings for the Gemini assistant.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string // optional endpoint override
}

// Gemini answers questions through the Google GenAI SDK.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini assistant.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

// Model returns the model name requests are sent to.
func (g *Gemini) Model() string { return g.model }

// Ask sends the question as a single user turn with the instruction as system
// instruction, and returns the trimmed text of the answer.
func (g *Gemini) Ask(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Question, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}

	start := time.Now()
	logging.APIDebug("generate: model=%s question_len=%d instruction_len=%d", g.model, len(req.Question), len(req.SystemInstruction))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		logging.API("generate failed after %s: %v", time.Since(start), err)
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		logging.API("generate returned no text after %s", time.Since(start))
		return "", ErrEmptyResponse
	}

	logging.APIDebug("generate ok: model=%s answer_len=%d took=%s", g.model, len(text), time.Since(start))
	return text, nil
}
