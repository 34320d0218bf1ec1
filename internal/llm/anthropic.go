package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropic(apiKey, model string) *anthropicProvider {
	return &anthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *anthropicProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts != nil {
		if opts.MaxTokens > 0 {
			params.MaxTokens = int64(opts.MaxTokens)
		}
		// The API rejects temperature and top_p together on newer models;
		// temperature wins.
		if opts.Temperature != nil {
			params.Temperature = anthropic.Float(float64(*opts.Temperature))
		} else if opts.TopP != nil {
			params.TopP = anthropic.Float(float64(*opts.TopP))
		}
		if opts.TopK > 0 {
			params.TopK = anthropic.Int(int64(opts.TopK))
		}
	}
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic returned no text content")
}
