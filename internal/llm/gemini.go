package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiProvider struct {
	apiKey string
	model  string
}

func newGemini(apiKey, model string) *geminiProvider {
	return &geminiProvider{apiKey: apiKey, model: model}
}

// The client is built per call so a missing key fails the request,
// not process startup.
func (p *geminiProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini completion: no API key configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), geminiConfig(system, opts))
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func geminiConfig(system string, opts *CompleteOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts == nil {
		return cfg
	}
	cfg.Temperature = opts.Temperature
	cfg.TopP = opts.TopP
	if opts.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(opts.TopK))
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.BlockUnsafe {
		cfg.SafetySettings = []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		}
	}
	return cfg
}
