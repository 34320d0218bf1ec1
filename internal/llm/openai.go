package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type openaiProvider struct {
	client *openai.Client
	model  string
}

func newOpenAI(apiKey, model string) *openaiProvider {
	return &openaiProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *openaiProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.9,
	}
	if opts != nil {
		if opts.Temperature != nil {
			req.Temperature = *opts.Temperature
		}
		if opts.TopP != nil {
			req.TopP = *opts.TopP
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
	}
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
