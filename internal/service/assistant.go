package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/y2chan/SYUGPT/internal/corpus"
	"github.com/y2chan/SYUGPT/internal/domain"
	"github.com/y2chan/SYUGPT/internal/llm"
	"github.com/y2chan/SYUGPT/internal/prompt"
	"github.com/y2chan/SYUGPT/internal/tracing"
	"github.com/y2chan/SYUGPT/internal/vectorstore"
)

// Options configures an Assistant.
type Options struct {
	Chunker    domain.Chunker
	Embedder   domain.Embedder
	Store      vectorstore.Storage
	LLM        llm.Client
	Summarizer domain.Summarizer
	Tracer     tracing.Tracer
	Logger     *log.Logger

	TopK          int
	FetchK        int
	Lambda        float64
	CacheCapacity int
	// MaxSentences bounds the corpus overview produced at ingest.
	MaxSentences int
}

// Assistant is the question-answering core: it owns the retrieval pipeline,
// the prompt template, the remote generation client and the bounded answer
// cache. It is built once at startup; after IngestCorpus the index is
// treated as read-only.
type Assistant struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      vectorstore.Storage
	llm        llm.Client
	template   *prompt.Template
	summarizer domain.Summarizer
	tracer     tracing.Tracer
	log        *log.Logger

	topK   int
	fetchK int
	lambda float64

	// cache memoizes answers by exact question text. Capacity-bound LRU,
	// process lifetime, never invalidated by UI re-renders. Errors are not
	// cached.
	cache *lru.Cache[string, string]

	maxSentences int
	ready        bool
	overview     string
}

// New assembles an Assistant from its collaborators.
func New(opts Options) (*Assistant, error) {
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = 100
	}
	cache, err := lru.New[string, string](opts.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("create answer cache: %w", err)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}
	fetchK := opts.FetchK
	if fetchK == 0 {
		fetchK = 10
	}
	if fetchK < topK {
		fetchK = topK
	}
	lambda := opts.Lambda
	if lambda <= 0 || lambda > 1 {
		lambda = 0.5
	}
	return &Assistant{
		chunker:      opts.Chunker,
		embedder:     opts.Embedder,
		store:        opts.Store,
		llm:          opts.LLM,
		template:     prompt.New(),
		summarizer:   opts.Summarizer,
		tracer:       tracer,
		log:          logger,
		topK:         topK,
		fetchK:       fetchK,
		lambda:       lambda,
		cache:        cache,
		maxSentences: opts.MaxSentences,
	}, nil
}

// IngestCorpus loads every topic file under dir, chunks it with its per-file
// profile, embeds all chunks and builds the vector index. An empty corpus is
// not an error: the assistant simply stays not-ready and every question gets
// the not-initialized answer. A load failure is returned to the caller, who
// decides whether to continue degraded.
func (a *Assistant) IngestCorpus(ctx context.Context, dir string) error {
	documents, err := corpus.Load(dir)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		a.log.Warn("corpus is empty, index not built", "dir", dir)
		return nil
	}

	var allChunks []domain.Chunk
	var allTexts []string
	var corpusText strings.Builder
	for _, doc := range documents {
		chunks, err := a.chunker.Chunk(doc)
		if err != nil {
			return fmt.Errorf("chunk %s: %w", doc.Name, err)
		}
		for _, ch := range chunks {
			allChunks = append(allChunks, ch)
			allTexts = append(allTexts, ch.Text)
		}
		corpusText.WriteString("\n")
		corpusText.WriteString(doc.Content)
	}
	if len(allChunks) == 0 {
		a.log.Warn("corpus produced no chunks, index not built", "dir", dir)
		return nil
	}

	if err := a.embedder.Prepare(allTexts); err != nil {
		return fmt.Errorf("prepare embedder: %w", err)
	}
	vectors := make([][]float64, len(allChunks))
	for i := range allChunks {
		vec, err := a.embedder.Embed(ctx, allChunks[i].Text)
		if err != nil {
			return fmt.Errorf("embed chunk %s[%d]: %w", allChunks[i].Source, allChunks[i].Index, err)
		}
		vectors[i] = vec
	}
	if err := a.store.Init(len(vectors[0])); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := a.store.Upsert(allChunks, vectors); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}

	if a.summarizer != nil {
		overview, err := a.summarizer.Summarize(corpusText.String(), a.maxSentences)
		if err != nil {
			a.log.Warn("corpus overview failed", "err", err)
		} else {
			a.overview = overview
		}
	}

	a.ready = true
	a.log.Info("corpus indexed",
		"documents", len(documents),
		"chunks", len(allChunks),
		"embedder", a.embedder.Name(),
		"dimension", len(vectors[0]))
	return nil
}

// Ready reports whether the vector index has been built.
func (a *Assistant) Ready() bool { return a.ready }

// Overview returns the corpus summary produced at ingest time.
func (a *Assistant) Overview() string { return a.overview }

// Ask answers a single question: exact repeats are served from the answer
// cache without retrieval or a remote call; otherwise the question is
// embedded, the top chunks are retrieved with MMR re-ranking, and the filled
// persona prompt is submitted to the remote model. Failures come back as
// domain.ErrNotInitialized or *domain.GenerationError; they are terminal for
// this question and nothing is cached.
func (a *Assistant) Ask(ctx context.Context, question string) (answer string, err error) {
	if cached, ok := a.cache.Get(question); ok {
		a.log.Debug("answer cache hit", "question", question)
		run := a.tracer.StartRun("ask.cached", question)
		a.tracer.EndRun(run, cached, nil)
		return cached, nil
	}
	if !a.ready {
		return "", domain.ErrNotInitialized
	}

	run := a.tracer.StartRun("ask", question)
	defer func() { a.tracer.EndRun(run, answer, err) }()

	vec, err := a.embedder.Embed(ctx, question)
	if err != nil {
		a.log.Error("question embedding failed", "err", err)
		return "", &domain.GenerationError{Stage: "embed", Err: err}
	}
	results, err := a.store.SearchMMR(vec, a.topK, a.fetchK, a.lambda)
	if err != nil {
		a.log.Error("retrieval failed", "err", err)
		return "", &domain.GenerationError{Stage: "retrieve", Err: err}
	}
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, r.Chunk.Text)
	}
	filled, err := a.template.Render(strings.Join(blocks, "\n\n"), question)
	if err != nil {
		a.log.Error("prompt templating failed", "err", err)
		return "", &domain.GenerationError{Stage: "prompt", Err: err}
	}
	answer, err = a.llm.Generate(ctx, filled)
	if err != nil {
		a.log.Error("generation failed", "err", err)
		return "", &domain.GenerationError{Stage: "generate", Err: err}
	}

	a.cache.Add(question, answer)
	return answer, nil
}
