package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const transcribePrompt = `Transcribe every line of text visible in this document image.
Languages likely present: %s.

Return ONLY a JSON array of strings, one element per line of text, top to bottom, exactly as printed.
Do not correct, reformat or translate anything. Do not use markdown code blocks.`

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini recognizes text with a Google Gemini model. Fragments carry no
// boxes or confidences.
type Gemini struct {
	client    *genai.Client
	model     contentGenerator
	languages []string
}

func NewGemini(ctx context.Context, apiKey, modelName string, languages []string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{client: client, model: model, languages: languages}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Recognize(ctx context.Context, png []byte) ([]Fragment, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData("png", png),
		genai.Text(fmt.Sprintf(transcribePrompt, strings.Join(g.languages, ", "))),
	)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return parseLines(text.String())
}

func parseLines(raw string) ([]Fragment, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var lines []string
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("parsing gemini transcription: %w", err)
	}

	fragments := make([]Fragment, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			fragments = append(fragments, Fragment{Text: line})
		}
	}
	return fragments, nil
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
