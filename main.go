package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drpaneas/gitroast/internal/config"
	"github.com/drpaneas/gitroast/internal/ghfetch"
	"github.com/drpaneas/gitroast/internal/gif"
	"github.com/drpaneas/gitroast/internal/llm"
	"github.com/drpaneas/gitroast/internal/roast"
	"github.com/drpaneas/gitroast/internal/roaster"
	"github.com/drpaneas/gitroast/internal/server"
)

func main() {
	var cfg config.Config
	var provider string
	flag.StringVar(&cfg.Addr, "addr", "", "HTTP listen address (default :$PORT, else "+config.DefaultAddr+")")
	flag.StringVar(&provider, "provider", "gemini", "Roast generator: gemini, openai, anthropic, ollama, none")
	flag.StringVar(&cfg.Model, "model", "", "LLM model (default: per-provider)")
	flag.DurationVar(&cfg.Timeout, "timeout", 15*time.Second, "Timeout for each outbound API call")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gitroast [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Provider = llm.ProviderName(provider)
	cfg.LoadFromEnv()
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, &cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("starting gitroast", "addr", cfg.Addr, "provider", cfg.Provider, "model", cfg.Model)
	for name, v := range map[string]string{
		"GITHUB_TOKEN":  cfg.GitHubToken,
		"GIPHY_API_KEY": cfg.GiphyAPIKey,
	} {
		if v == "" {
			slog.Warn("credential not set, calls that need it will fail", "env", name)
		}
	}
	if cfg.APIKey == "" && cfg.Provider != llm.ProviderNone && cfg.Provider != llm.ProviderOllama {
		slog.Warn("LLM API key not set, roasts will fall back to templates", "provider", cfg.Provider)
	}

	fetcher, err := ghfetch.NewFetcher(cfg.GitHubToken)
	if err != nil {
		return fmt.Errorf("creating github fetcher: %w", err)
	}

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Name:       cfg.Provider,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		OllamaHost: cfg.OllamaHost,
	})
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	svc := roaster.New(
		fetcher,
		roast.NewComposer(provider, roast.DefaultBanks()),
		gif.NewFetcher(cfg.GiphyAPIKey),
		roaster.WithTimeout(cfg.Timeout),
	)

	srv := server.New(server.Config{
		Addr:           cfg.Addr,
		AllowedOrigins: cfg.AllowedOrigins,
	}, svc, logger)
	return srv.Run(ctx)
}
