package llm

import (
	"testing"

	"google.golang.org/genai"
)

func ptr(f float32) *float32 { return &f }

func TestOllamaOptions(t *testing.T) {
	if got := ollamaOptions(nil); got != nil {
		t.Errorf("ollamaOptions(nil) = %v, want nil", got)
	}
	if got := ollamaOptions(&CompleteOptions{}); got != nil {
		t.Errorf("ollamaOptions(empty) = %v, want nil", got)
	}

	got := ollamaOptions(&CompleteOptions{Temperature: ptr(0.9), TopP: ptr(0.5), TopK: 40, MaxTokens: 512})
	if got["temperature"] != float32(0.9) {
		t.Errorf("temperature = %v", got["temperature"])
	}
	if got["top_p"] != float32(0.5) {
		t.Errorf("top_p = %v", got["top_p"])
	}
	if got["top_k"] != 40 {
		t.Errorf("top_k = %v", got["top_k"])
	}
	if got["num_predict"] != 512 {
		t.Errorf("num_predict = %v", got["num_predict"])
	}
}

func TestGeminiConfig(t *testing.T) {
	t.Run("no options", func(t *testing.T) {
		cfg := geminiConfig("", nil)
		if cfg.SystemInstruction != nil || cfg.Temperature != nil || len(cfg.SafetySettings) != 0 {
			t.Errorf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("sampling and safety", func(t *testing.T) {
		cfg := geminiConfig("be funny", &CompleteOptions{
			Temperature: ptr(0.9),
			TopP:        ptr(0.9),
			TopK:        40,
			MaxTokens:   512,
			BlockUnsafe: true,
		})
		if cfg.SystemInstruction == nil {
			t.Error("expected system instruction")
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0.9 {
			t.Errorf("temperature = %v", cfg.Temperature)
		}
		if cfg.TopK == nil || *cfg.TopK != 40 {
			t.Errorf("top_k = %v", cfg.TopK)
		}
		if cfg.MaxOutputTokens != 512 {
			t.Errorf("max output tokens = %d", cfg.MaxOutputTokens)
		}
		if len(cfg.SafetySettings) != 2 {
			t.Fatalf("expected 2 safety settings, got %d", len(cfg.SafetySettings))
		}
		for _, s := range cfg.SafetySettings {
			if s.Threshold != genai.HarmBlockThresholdBlockMediumAndAbove {
				t.Errorf("threshold = %v", s.Threshold)
			}
		}
	})
}
