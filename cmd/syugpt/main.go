package main

import (
	"context"
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/y2chan/SYUGPT/internal/chunker"
	"github.com/y2chan/SYUGPT/internal/config"
	"github.com/y2chan/SYUGPT/internal/domain"
	"github.com/y2chan/SYUGPT/internal/embedding/openai"
	"github.com/y2chan/SYUGPT/internal/embedding/tfidf"
	"github.com/y2chan/SYUGPT/internal/llm"
	"github.com/y2chan/SYUGPT/internal/service"
	"github.com/y2chan/SYUGPT/internal/summarizer"
	"github.com/y2chan/SYUGPT/internal/tracing"
	"github.com/y2chan/SYUGPT/internal/tui"
	"github.com/y2chan/SYUGPT/internal/vectorstore"
	"github.com/y2chan/SYUGPT/internal/vectorstore/memory"
	"github.com/y2chan/SYUGPT/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var corpusDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/syugpt/config.yaml if not provided)")
	flag.StringVar(&corpusDir, "corpus", "", "Corpus directory (overrides config)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "syugpt"})

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
		})
		if err != nil {
			logger.Fatal("embedder init failed", "err", err)
		}
		emb = client
	case "tfidf":
		emb = tfidf.NewEmbedder()
	default:
		logger.Fatal("unknown embedder", "type", cfg.Embedder.Type)
	}

	profiles, fallback := cfg.ChunkProfiles()
	ch, err := chunker.New(profiles, fallback)
	if err != nil {
		logger.Fatal("invalid chunker config", "err", err)
	}

	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		st = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			logger.Fatal("qdrant config missing")
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
		})
	default:
		logger.Fatal("unknown vector store", "type", cfg.VectorStore.Type)
	}

	var tracer tracing.Tracer = tracing.Noop{}
	if cfg.Tracing.Enabled {
		tracer = tracing.NewExporter(tracing.Config{
			Endpoint:  cfg.Tracing.Endpoint,
			APIKeyEnv: cfg.Tracing.APIKeyEnv,
			Project:   cfg.Tracing.Project,
		}, logger)
	}

	assistant, err := service.New(service.Options{
		Chunker:  ch,
		Embedder: emb,
		Store:    st,
		LLM: llm.NewOpenAIClient(llm.Config{
			BaseURL:   cfg.LLM.BaseURL,
			APIKeyEnv: cfg.LLM.APIKeyEnv,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
		}),
		Summarizer:    summarizer.NewFrequencySummarizer(),
		Tracer:        tracer,
		Logger:        logger,
		TopK:          cfg.Retriever.TopK,
		FetchK:        cfg.Retriever.FetchK,
		Lambda:        cfg.Retriever.Lambda,
		CacheCapacity: cfg.Cache.Capacity,
		MaxSentences:  cfg.Summarizer.MaxSentences,
	})
	if err != nil {
		logger.Fatal("assistant init failed", "err", err)
	}

	// A failed or empty corpus load is not fatal to the process: the shell
	// still runs and every question gets the not-initialized message.
	if err := assistant.IngestCorpus(context.Background(), cfg.Corpus.Dir); err != nil {
		logger.Error("corpus ingest failed, continuing without index", "err", err)
	}

	if _, err := tea.NewProgram(tui.New(assistant)).Run(); err != nil {
		logger.Fatal("tui failed", "err", err)
	}
}
