// pipelineworker runs the knowledge-extraction orchestrator's HTTP/WebSocket
// API alongside the worker-pool claim loop, following the structure of
// tarsy's cmd/tarsy/main.go: flag parsing, a .env load from the config
// directory, config/database initialization, dependency wiring, then
// blocking on the HTTP server until shutdown.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/internal/database"
	"github.com/codeready-toolchain/knowledgepipeline/internal/telemetry"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/api"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/browser"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/chunking"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/extract"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/graphcheck"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/ingest"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/ingest/video"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/linker"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/llm"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/objectstore"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/urlexplore"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/verify"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/phases"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: could not load %s: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	dbClient, err := database.NewClient(ctx, cfg.Store.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()
	log.Println("✓ Connected to PostgreSQL database")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Store.Redis.Addr,
		Password: cfg.Store.Redis.Password,
		DB:       cfg.Store.Redis.DB,
	})
	defer redisClient.Close()

	documentStore := store.New(dbClient.Pool, redisClient)
	log.Println("✓ Store initialized")

	var llmClient llm.Client
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		primary := llm.NewAnthropicClient(*cfg.LLM, apiKey)
		llmClient = primary
		if secondaryKey := os.Getenv("ANTHROPIC_SECONDARY_API_KEY"); secondaryKey != "" {
			secondaryCfg := *cfg.LLM
			secondaryCfg.Model = cfg.LLM.SecondaryModel
			llmClient = &llm.FallbackClient{Primary: primary, Secondary: llm.NewAnthropicClient(secondaryCfg, secondaryKey)}
		}
		log.Println("✓ LLM client initialized")
	} else {
		log.Println("Warning: ANTHROPIC_API_KEY not set — LLM-backed extractors and agent-assistance will degrade")
	}

	browserDriver, err := browser.NewRodDriver(true, 30*time.Second)
	if err != nil {
		log.Fatalf("Failed to launch browser driver: %v", err)
	}
	defer browserDriver.Close()
	log.Println("✓ Browser driver launched")

	var objectStore objectstore.Store
	if bucket := os.Getenv("VIDEO_RESULTS_BUCKET"); bucket != "" {
		s3Store, err := objectstore.NewS3Store(ctx, bucket)
		if err != nil {
			log.Fatalf("Failed to initialize object store: %v", err)
		}
		objectStore = s3Store
		log.Println("✓ Object store initialized")
	} else {
		log.Println("Warning: VIDEO_RESULTS_BUCKET not set — video ingestion will degrade")
	}

	counter, err := chunking.NewCounter()
	if err != nil {
		log.Fatalf("Failed to initialize tokenizer: %v", err)
	}
	splitter := chunking.NewSplitter(counter, cfg.Ingest.MaxTokensPerChunk)

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	ac := activity.Context{
		Store:   documentStore,
		LLM:     llmClient,
		Browser: browserDriver,
		Objects: objectStore,
		Config:  cfg,
		Log:     slog.Default(),
	}

	router := &ingest.Router{
		Documentation: &ingest.DocumentationIngester{Splitter: splitter},
		Website:       &ingest.WebsiteIngester{Splitter: splitter},
		Video: &videoIngester{pipeline: &video.Pipeline{
			Transcriber: video.NullTranscriber{},
			Frames:      &video.FFmpegFrameExtractor{},
			Vision:      &video.AnthropicVisionAnalyzer{LLM: llmClient},
			Objects:     objectStore,
			Cfg:         *cfg.Video,
		}},
	}

	orchestratorPhases := []workflow.PhaseRunner{
		&phases.IngestionPhase{Router: router},
		&phases.ExtractionPhase{
			Screens:   &extract.ScreenExtractor{Store: documentStore},
			Tasks:     &extract.TaskExtractor{Store: documentStore, LLM: llmClient},
			Actions:   &extract.ActionExtractor{Store: documentStore},
			Transitions: &extract.TransitionExtractor{Store: documentStore},
			Business:  &extract.BusinessFunctionExtractor{Store: documentStore, LLM: llmClient},
			Workflows: &extract.OperationalWorkflowExtractor{Store: documentStore, LLM: llmClient},
			UserFlows: &extract.UserFlowSynthesizer{Store: documentStore},
		},
		&phases.LinkingPhase{Linker: &linker.Linker{Store: documentStore}},
		&phases.GraphPhase{Checker: &graphcheck.Checker{Store: documentStore}},
		&phases.URLExplorationPhase{Explorer: &urlexplore.Explorer{Driver: browserDriver, Store: documentStore, Cfg: cfg.Crawl}},
	}
	verificationPhase := &phases.VerificationPhase{Verifier: &verify.Verifier{Store: documentStore}}
	orchestratorPhases = append(orchestratorPhases,
		verificationPhase,
		&phases.EnrichmentPhase{Enricher: &verify.Enricher{Store: documentStore}, Verification: verificationPhase},
	)

	pool := workflow.NewPool(documentStore, ac, cfg.Workflow, metrics, orchestratorPhases)
	go pool.Run(ctx)
	log.Println("✓ Worker pool started")

	server, err := api.NewServer(cfg.API, documentStore, llmClient, browserDriver, ac, orchestratorPhases, pool, slog.Default())
	if err != nil {
		log.Fatalf("Failed to initialize API server: %v", err)
	}

	log.Printf("HTTP server listening on :%s", cfg.API.HTTPPort)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("API server exited with error: %v", err)
	}
	log.Println("Shutdown complete")
}

// videoIngester adapts video.Pipeline's Run signature to the
// ingest.Ingester interface, deriving the ingestion id the same way every
// other ingester does (see pkg/ingest/ingestion_id.go's deriveIngestionID,
// which this mirrors exactly).
type videoIngester struct {
	pipeline *video.Pipeline
}

func (v *videoIngester) Ingest(ctx context.Context, ac activity.Context, workflowID, jobID, knowledgeID string, src ingest.Source) (*knowledge.IngestionResult, error) {
	ingestionID := workflow.DeriveIngestionID(workflowID, src.URLOrPath, jobID)
	return v.pipeline.Run(ctx, ingestionID, knowledgeID, jobID, src.URLOrPath)
}
