package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nexusats/matchengine/internal/config"
	"github.com/nexusats/matchengine/internal/engine"
	"github.com/nexusats/matchengine/internal/ingestion"
	"github.com/nexusats/matchengine/internal/llm"
	"github.com/nexusats/matchengine/internal/skillmatch"
	"github.com/nexusats/matchengine/internal/store"
	"github.com/nexusats/matchengine/internal/worker"
)

// loadConfig resolves the engine configuration from the engine's built-in
// defaults, an optional JSON file, and environment variables, in that
// ascending order of precedence: the file overrides the defaults and the
// environment overrides both.
func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.Defaults

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(config.Defaults)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// buildStore connects to Postgres when DatabaseURL is set, otherwise falls
// back to an in-memory store seeded from nothing (suitable for demos and
// tests, not production data).
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemoryStore(), func() {}, nil
	}

	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pg, pg.Close, nil
}

// buildExtractors wires the LLM-backed ingestion collaborators when an API
// key is configured. Real PDF-to-text extraction stays out of scope per
// §1; passthroughDocumentExtractor stands in its place.
func buildExtractors(ctx context.Context, cfg *config.Config) (ingestion.DocumentExtractor, ingestion.IdentityExtractor, ingestion.ExperienceExtractor, ingestion.JDExtractor, llm.Client, error) {
	if cfg.LLMAPIKey == "" {
		return nil, nil, nil, nil, nil, nil
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.LLMAPIKey)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("create LLM client: %w", err)
	}

	return passthroughDocumentExtractor{},
		&llmIdentityExtractor{client: client},
		&llmExperienceExtractor{client: client},
		&llmJDExtractor{client: client},
		client,
		nil
}

// buildEmbedder wraps the Gemini client's embedding method with the
// persistence-backed cache, when both an LLM client and the embedding
// method are available. Returning a nil Embedder is not an error: the
// matcher simply skips its vector tier (§4.2).
func buildEmbedder(s store.Store, client llm.Client) skillmatch.Embedder {
	gemini, ok := client.(*llm.GeminiClient)
	if !ok || gemini == nil {
		return nil
	}
	return llm.NewCachedEmbedder(s, gemini)
}

// engineHandle bundles a constructed Engine with its teardown.
type engineHandle struct {
	Engine  *engine.Engine
	Cleanup func()
}

// buildEngine assembles a fully wired Engine from configuration: the
// persistence layer, the four-tier matcher (with its vector tier if an
// API key is configured), the eligibility gate, the ranker, the
// fixed-size worker pool, and the ingestion collaborators.
func buildEngine(ctx context.Context, cfg *config.Config) (*engineHandle, error) {
	s, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	docs, identity, experience, jd, client, err := buildExtractors(ctx, cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	var embedder skillmatch.Embedder
	if client != nil {
		embedder = buildEmbedder(s, client)
	}

	matcher, gate, ranker, err := engine.Bootstrap(ctx, s, embedder, cfg.VectorMatchThreshold, cfg.RecencyMonthsLimit)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("bootstrap matching components: %w", err)
	}

	referenceDate, err := cfg.ParsedReferenceDate()
	if err != nil {
		closeStore()
		return nil, err
	}

	pool := worker.New(cfg.WorkerPoolSize)

	e := engine.New(engine.Config{
		Store:         s,
		Matcher:       matcher,
		Gate:          gate,
		Ranker:        ranker,
		Pool:          pool,
		Docs:          docs,
		Identity:      identity,
		Experience:    experience,
		JD:            jd,
		ReferenceDate: referenceDate,
	})

	cleanup := func() {
		closeStore()
		if client != nil {
			_ = client.Close()
		}
	}

	return &engineHandle{Engine: e, Cleanup: cleanup}, nil
}
