package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Divas-Gupta30/marco-agent/internal/agents"
	"github.com/Divas-Gupta30/marco-agent/internal/config"
	"github.com/Divas-Gupta30/marco-agent/internal/ingestion"
	"github.com/Divas-Gupta30/marco-agent/internal/llm"
	"github.com/Divas-Gupta30/marco-agent/internal/model"
	"github.com/Divas-Gupta30/marco-agent/internal/outline"
	"github.com/Divas-Gupta30/marco-agent/internal/output"
	"github.com/Divas-Gupta30/marco-agent/internal/processing"
	"github.com/Divas-Gupta30/marco-agent/internal/server"
	"github.com/Divas-Gupta30/marco-agent/internal/storage"
	"github.com/Divas-Gupta30/marco-agent/internal/style"
	"github.com/Divas-Gupta30/marco-agent/internal/workflow"
)

func main() {

	indexCmd := flag.NewFlagSet("index", flag.ExitOnError)
	indexPath := indexCmd.String("path", "", "folder to index (defaults to BIBLIOGRAFIA_PATH)")
	indexDrive := indexCmd.Bool("drive", false, "pull PDFs from the configured Google Drive folder first")

	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	generateSection := generateCmd.String("s", "", "section number to generate, e.g. 2.1 (empty = whole outline)")

	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)
	clearContext := clearCmd.Bool("context", false, "delete re-indexed chunks from previous runs")
	clearOutputs := clearCmd.Bool("outputs", false, "delete generated markdown files")

	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println("Usage: agent <index|generate|stats|clear|serve> [flags]")
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()

	switch os.Args[1] {
	case "index":
		indexCmd.Parse(os.Args[2:])
		runIndex(ctx, cfg, *indexPath, *indexDrive)

	case "generate":
		generateCmd.Parse(os.Args[2:])
		runGenerate(ctx, cfg, *generateSection)

	case "stats":
		statsCmd.Parse(os.Args[2:])
		runStats(ctx, cfg)

	case "clear":
		clearCmd.Parse(os.Args[2:])
		if !*clearContext && !*clearOutputs {
			fmt.Println("Nothing to clear: pass -context and/or -outputs")
			os.Exit(1)
		}
		runClear(ctx, cfg, *clearContext, *clearOutputs)

	case "serve":
		serveCmd.Parse(os.Args[2:])
		runServe(ctx, cfg)

	default:
		fmt.Println("expected 'index', 'generate', 'stats', 'clear' or 'serve' subcommands")
		os.Exit(1)
	}
}

func runIndex(ctx context.Context, cfg *config.Config, path string, fromDrive bool) {
	store := openStore(ctx, cfg)
	defer store.Close()
	embedder := processing.NewEmbedder(cfg.OllamaURL, cfg.EmbedModel)

	if path == "" {
		path = cfg.Bibliography
	}

	if fromDrive {
		if cfg.DriveFolderID == "" {
			log.Fatal("drive indexing requested but DRIVE_FOLDER_ID is not set")
		}
		src, err := ingestion.NewDriveSource(ctx, cfg.DriveCredsFile, cfg.DriveTokenFile)
		if err != nil {
			log.Fatal("drive init:", err)
		}
		dest := filepath.Join(path, "drive")
		downloaded, err := src.Download(ctx, cfg.DriveFolderID, dest)
		if err != nil {
			log.Fatal("drive download:", err)
		}
		log.Printf("Downloaded %d files from Drive into %s", len(downloaded), dest)
	}

	log.Println("Starting indexing:", path)
	files, err := ingestion.ListBibliography(path)
	if err != nil {
		log.Fatal("list files:", err)
	}

	indexed := 0
	for _, f := range files {
		log.Println("Indexing:", f)
		text, err := ingestion.ExtractText(f)
		if err != nil {
			log.Println("skip file:", f, "err:", err)
			continue
		}
		chunks := processing.ChunkText(text, cfg.ChunkSize, cfg.ChunkOverlap)
		embs, err := embedder.EmbedChunks(ctx, chunks)
		if err != nil {
			log.Println("embed error:", err)
			continue
		}
		label := ingestion.SourceLabel(f)
		for i := range chunks {
			if err := store.Insert(ctx, label, "bibliografia", chunks[i], embs[i]); err != nil {
				log.Println("db insert error:", err)
			}
		}
		indexed++
	}
	fmt.Printf("Indexing complete: %d/%d documents.\n", indexed, len(files))
}

func runGenerate(ctx context.Context, cfg *config.Config, target string) {
	store := openStore(ctx, cfg)
	defer store.Close()
	runs := openRunLog(cfg)
	defer runs.Close()

	sections, err := outline.Parse(cfg.OutlinePath)
	if err != nil {
		log.Fatal("outline:", err)
	}
	if target != "" {
		sections, err = outline.Range(sections, target)
		if err != nil {
			log.Fatal(err)
		}
	}

	embedder := processing.NewEmbedder(cfg.OllamaURL, cfg.EmbedModel)
	orch := buildOrchestrator(cfg, store, embedder)
	writer := &output.Writer{Dir: cfg.OutputDir}

	res := orch.ProcessAll(ctx, sections, cfg.Variables)

	for _, p := range res.Processed {
		path, err := writer.WriteSection(p.Section, p.Piece)
		if err != nil {
			log.Println("write output:", err)
		} else {
			log.Println("Wrote", path)
		}
		reindexContext(ctx, cfg, store, embedder, p)
		recordRun(runs, p)
	}
	for _, e := range res.Errors {
		log.Printf("Section %s failed: %s", e.Section, e.Err)
		if err := runs.Record(model.RunRecord{Section: e.Section, State: string(workflow.StateError)}); err != nil {
			log.Println("record run:", err)
		}
	}

	fmt.Printf("Done: %d/%d sections generated (%.0f%% success).\n",
		res.Summary.Succeeded, res.Summary.TotalSections, res.Summary.SuccessRate*100)
}

// reindexContext pushes the freshly generated text back into the store under
// the context tag, so later sections can retrieve what earlier ones said.
func reindexContext(ctx context.Context, cfg *config.Config, store *storage.Store, embedder *processing.Embedder, p workflow.SectionResult) {
	chunks := processing.ChunkText(p.Piece.Content, cfg.ChunkSize, cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return
	}
	embs, err := embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		log.Println("context re-index embed error:", err)
		return
	}
	label := "seccion_" + p.Section.Number
	for i := range chunks {
		if err := store.Insert(ctx, label, storage.SourceContext, chunks[i], embs[i]); err != nil {
			log.Println("context re-index insert error:", err)
		}
	}
	log.Printf("Re-indexed %d chunks of section %s as prior context", len(chunks), p.Section.Number)
}

func recordRun(runs *storage.RunLog, p workflow.SectionResult) {
	rec := model.RunRecord{
		Section:  p.Section.Title,
		State:    string(p.Stats.FinalState),
		Attempts: p.Stats.Attempts,
		Chars:    len(p.Piece.Content),
		Approved: p.Piece.Approved,
	}
	if err := runs.Record(rec); err != nil {
		log.Println("record run:", err)
	}
}

func runStats(ctx context.Context, cfg *config.Config) {
	store := openStore(ctx, cfg)
	defer store.Close()
	runs := openRunLog(cfg)
	defer runs.Close()

	n, err := store.Count(ctx)
	if err != nil {
		log.Fatal("count chunks:", err)
	}
	recent, err := runs.Recent(20)
	if err != nil {
		log.Fatal("run history:", err)
	}

	out := map[string]interface{}{
		"chunks_indexed": n,
		"recent_runs":    recent,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func runClear(ctx context.Context, cfg *config.Config, clearContext, clearOutputs bool) {
	if clearContext {
		store := openStore(ctx, cfg)
		defer store.Close()
		n, err := store.DeleteByTag(ctx, storage.SourceContext)
		if err != nil {
			log.Fatal("clear context:", err)
		}
		fmt.Printf("Deleted %d context chunks.\n", n)
	}
	if clearOutputs {
		writer := &output.Writer{Dir: cfg.OutputDir}
		n, err := writer.Clear()
		if err != nil {
			log.Fatal("clear outputs:", err)
		}
		fmt.Printf("Deleted %d output files.\n", n)
	}
}

func runServe(ctx context.Context, cfg *config.Config) {
	store := openStore(ctx, cfg)
	defer store.Close()
	runs := openRunLog(cfg)
	defer runs.Close()

	sections, err := outline.Parse(cfg.OutlinePath)
	if err != nil {
		log.Fatal("outline:", err)
	}

	embedder := processing.NewEmbedder(cfg.OllamaURL, cfg.EmbedModel)
	srv := &server.Server{
		Orchestrator: buildOrchestrator(cfg, store, embedder),
		Sections:     sections,
		Variables:    cfg.Variables,
		Writer:       &output.Writer{Dir: cfg.OutputDir},
		Store:        store,
		Runs:         runs,
		Addr:         cfg.ListenAddr,
	}
	if err := srv.Run(); err != nil {
		log.Fatal("server:", err)
	}
}

// buildOrchestrator wires the LLM caller, the four agents and the workflow.
func buildOrchestrator(cfg *config.Config, store *storage.Store, embedder *processing.Embedder) *workflow.Orchestrator {
	caller := buildCaller(cfg)

	search := func(ctx context.Context, query string, max int) ([]model.SourceChunk, error) {
		emb, err := embedder.QueryEmbedding(ctx, query)
		if err != nil {
			return nil, err
		}
		return store.QuerySimilar(ctx, emb, max)
	}

	guide, err := style.Load(cfg.StylePath)
	if err != nil {
		log.Println("style exemplar unavailable, using built-in guide:", err)
		guide = style.Default()
	}

	wf := &workflow.Workflow{
		Researcher:  &agents.Researcher{LLM: caller, Search: search, MaxResults: cfg.MaxChunks},
		Editor:      &agents.Editor{LLM: caller},
		Stylist:     &agents.Stylist{LLM: caller, Guide: guide},
		Reviewer:    &agents.Reviewer{LLM: caller},
		MaxAttempts: cfg.MaxAttempts,
	}
	return &workflow.Orchestrator{Workflow: wf}
}

func buildCaller(cfg *config.Config) llm.Caller {
	var caller llm.Caller
	switch cfg.Provider {
	case "openai":
		c, err := llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			log.Fatal("openai init:", err)
		}
		caller = c
	case "mock":
		caller = llm.Mock{}
	default:
		caller = llm.NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	}

	if cfg.RedisURL != "" {
		cached, err := llm.NewCached(caller, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Fatal("redis init:", err)
		}
		log.Println("LLM response cache enabled")
		caller = cached
	}
	return caller
}

func openStore(ctx context.Context, cfg *config.Config) *storage.Store {
	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB init:", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("DB schema:", err)
	}
	return store
}

func openRunLog(cfg *config.Config) *storage.RunLog {
	runs, err := storage.OpenRunLog(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("run log init:", err)
	}
	if err := runs.EnsureSchema(); err != nil {
		log.Fatal("run log schema:", err)
	}
	return runs
}
