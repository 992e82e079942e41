package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/y2chan/SYUGPT/internal/chunker"
)

// CorpusConfig locates the topic text files indexed at startup.
type CorpusConfig struct {
	Dir string `yaml:"dir"`
}

// ChunkProfile is the YAML form of a per-file chunking profile.
type ChunkProfile struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// ChunkerConfig maps filenames (exact match) to chunk profiles. Files not in
// the table use Default.
type ChunkerConfig struct {
	Profiles map[string]ChunkProfile `yaml:"profiles"`
	Default  ChunkProfile            `yaml:"default"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible
// embeddings endpoint.
type OpenAIEmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// LLMConfig configures the remote generation endpoint. Sampling is fixed at
// temperature 0; only the output length bound is configurable.
type LLMConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// RetrieverConfig controls the MMR retrieval step.
type RetrieverConfig struct {
	TopK   int     `yaml:"top_k"`
	FetchK int     `yaml:"fetch_k"`
	Lambda float64 `yaml:"lambda"`
}

// CacheConfig bounds the exact-question answer cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// TracingConfig configures the optional run-tracing exporter.
type TracingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	APIKeyEnv string `yaml:"api_key_env"`
	Project   string `yaml:"project"`
}

// SummarizerConfig controls the corpus overview shown on the welcome panel.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus      CorpusConfig      `yaml:"corpus"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Retriever   RetrieverConfig   `yaml:"retriever"`
	Cache       CacheConfig       `yaml:"cache"`
	Tracing     TracingConfig     `yaml:"tracing"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/syugpt/config.yaml.
// If neither exists, it writes defaults to ~/.config/syugpt/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects configurations the pipeline cannot run with. Chunk
// profiles with overlap >= size are a configuration error, not something the
// chunker handles defensively.
func (c *AppConfig) Validate() error {
	check := func(name string, p ChunkProfile) error {
		if p.Size <= 0 {
			return fmt.Errorf("chunker profile %q: size must be positive", name)
		}
		if p.Overlap < 0 || p.Overlap >= p.Size {
			return fmt.Errorf("chunker profile %q: overlap %d must be less than size %d", name, p.Overlap, p.Size)
		}
		return nil
	}
	if err := check("default", c.Chunker.Default); err != nil {
		return err
	}
	for name, p := range c.Chunker.Profiles {
		if err := check(name, p); err != nil {
			return err
		}
	}
	if c.Retriever.TopK > c.Retriever.FetchK {
		return fmt.Errorf("retriever: top_k %d must not exceed fetch_k %d", c.Retriever.TopK, c.Retriever.FetchK)
	}
	return nil
}

// ChunkProfiles converts the YAML table into the chunker's profile table.
func (c *AppConfig) ChunkProfiles() (map[string]chunker.Profile, chunker.Profile) {
	profiles := make(map[string]chunker.Profile, len(c.Chunker.Profiles))
	for name, p := range c.Chunker.Profiles {
		profiles[name] = chunker.Profile{Size: p.Size, Overlap: p.Overlap}
	}
	return profiles, chunker.Profile{Size: c.Chunker.Default.Size, Overlap: c.Chunker.Default.Overlap}
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "syugpt", "config.yaml"), nil
}

// defaultProfiles is the hand-tuned per-topic chunking table. Keys are exact
// filenames under the corpus directory.
func defaultProfiles() map[string]ChunkProfile {
	return map[string]ChunkProfile{
		"introduce.txt":    {Size: 1500, Overlap: 300},
		"관련 링크 data.txt":   {Size: 1500, Overlap: 300},
		"교통 data.txt":      {Size: 1500, Overlap: 300},
		"도서관 data.txt":     {Size: 2000, Overlap: 300},
		"동아리 data.txt":     {Size: 4500, Overlap: 300},
		"등록 data.txt":      {Size: 2000, Overlap: 300},
		"성적 data.txt":      {Size: 1500, Overlap: 300},
		"셔틀버스 data.txt":    {Size: 1000, Overlap: 300},
		"수강신청 data.txt":    {Size: 1500, Overlap: 250},
		"시설 정보 data.txt":   {Size: 2000, Overlap: 350},
		"업무별 전화번호 data.txt": {Size: 1000, Overlap: 200},
		"장학금 data.txt":     {Size: 4000, Overlap: 100},
		"졸업 data.txt":      {Size: 1200, Overlap: 250},
		"증명서 data.txt":     {Size: 2000, Overlap: 250},
		"학과 data.txt":      {Size: 7000, Overlap: 500},
		"학사 일정 data.txt":   {Size: 1500, Overlap: 200},
		"후문 정보 data.txt":   {Size: 2000, Overlap: 300},
		"학교 건물 data.txt":   {Size: 3000, Overlap: 100},
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{Dir: filepath.Join("data", "SYU_GPT")},
		Chunker: ChunkerConfig{
			Profiles: defaultProfiles(),
			Default:  ChunkProfile{Size: 1500, Overlap: 300},
		},
		Embedder: EmbedderConfig{
			Type: "openai",
			OpenAI: &OpenAIEmbedderConfig{
				BaseURL:   "https://api.openai.com/v1",
				APIKeyEnv: "OPENAI_API_KEY",
				Model:     "text-embedding-3-small",
			},
		},
		VectorStore: VectorStoreConfig{Type: "memory"},
		LLM: LLMConfig{
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai/",
			APIKeyEnv: "GOOGLE_API_KEY",
			Model:     "gemini-pro",
			MaxTokens: 2048,
		},
		Retriever:  RetrieverConfig{TopK: 3, FetchK: 10, Lambda: 0.5},
		Cache:      CacheConfig{Capacity: 100},
		Tracing:    TracingConfig{Endpoint: "https://api.smith.langchain.com", APIKeyEnv: "LANGSMITH_API_TOKEN", Project: "SYU-GPT"},
		Summarizer: SummarizerConfig{MaxSentences: 5},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = def.Corpus.Dir
	}
	if cfg.Chunker.Profiles == nil {
		cfg.Chunker.Profiles = def.Chunker.Profiles
	}
	if cfg.Chunker.Default.Size == 0 {
		cfg.Chunker.Default = def.Chunker.Default
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder = def.Embedder
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = def.Embedder.OpenAI
		} else {
			if cfg.Embedder.OpenAI.BaseURL == "" {
				cfg.Embedder.OpenAI.BaseURL = def.Embedder.OpenAI.BaseURL
			}
			if cfg.Embedder.OpenAI.APIKeyEnv == "" {
				cfg.Embedder.OpenAI.APIKeyEnv = def.Embedder.OpenAI.APIKeyEnv
			}
			if cfg.Embedder.OpenAI.Model == "" {
				cfg.Embedder.OpenAI.Model = def.Embedder.OpenAI.Model
			}
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = def.LLM.BaseURL
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = def.LLM.APIKeyEnv
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = def.Retriever.TopK
	}
	if cfg.Retriever.FetchK == 0 {
		cfg.Retriever.FetchK = def.Retriever.FetchK
	}
	if cfg.Retriever.Lambda == 0 {
		cfg.Retriever.Lambda = def.Retriever.Lambda
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = def.Cache.Capacity
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = def.Tracing.Endpoint
	}
	if cfg.Tracing.APIKeyEnv == "" {
		cfg.Tracing.APIKeyEnv = def.Tracing.APIKeyEnv
	}
	if cfg.Tracing.Project == "" {
		cfg.Tracing.Project = def.Tracing.Project
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = def.Summarizer.MaxSentences
	}
}
