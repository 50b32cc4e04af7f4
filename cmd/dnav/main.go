// CLAUDE:SUMMARY Entry point for dnav: distill/memo CLI, HTTP API server, MCP stdio server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/dnav/dbopen"
	"github.com/hazyhaar/dnav/decisionlog"
	"github.com/hazyhaar/dnav/distill"
	"github.com/hazyhaar/dnav/docpipe"
	"github.com/hazyhaar/dnav/shield"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	setupLogging()

	switch os.Args[1] {
	case "distill":
		cmdDistill(os.Args[2:])
	case "memo":
		cmdMemo(os.Args[2:])
	case "serve":
		cmdServe()
	case "mcp":
		cmdMCP()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `dnav — extract and log decision candidates from business documents

usage:
  dnav distill [-config file.yaml] [-memo file] [-json] <file...>
  dnav memo    [-label name] [-json] [file]
  dnav serve
  dnav mcp

distill  Extracts decision candidates from documents (%s).
memo     Extracts from a pasted memo (file or stdin).
serve    Runs the HTTP API (PORT, DB_PATH, DISTILL_CONFIG, LOG_LEVEL).
mcp      Runs an MCP server on stdio exposing the same operations.
`, joinFormats())
}

func joinFormats() string {
	out := ""
	for i, f := range docpipe.SupportedFormats() {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}

func setupLogging() {
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadDistiller builds the extraction engine, with an optional YAML config.
func loadDistiller(configPath string) (*distill.Distiller, error) {
	var cfg distill.Config
	if configPath != "" {
		var err error
		cfg, err = distill.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	cfg.Logger = slog.Default()
	return distill.New(cfg), nil
}

// sourcesFromFiles extracts every file through docpipe and converts the
// pages to distill sources. A malformed document is skipped with a warning
// rather than aborting the run; data-quality conditions (zero pages, poor
// extraction quality) flow through and surface as run warnings.
func sourcesFromFiles(ctx context.Context, pipe *docpipe.Pipeline, paths []string) ([]distill.Source, []string) {
	var sources []distill.Source
	var warnings []string
	for _, path := range paths {
		doc, err := pipe.Extract(ctx, path)
		if err != nil {
			slog.Warn("skipping unreadable document", "path", path, "error", err)
			warnings = append(warnings, fmt.Sprintf("skipped %s: %v", path, err))
			continue
		}
		warnings = append(warnings, qualityWarnings(doc)...)
		src := distill.Source{Name: doc.Path}
		for _, pg := range doc.Pages {
			src.Pages = append(src.Pages, distill.PageText{Page: pg.Number, Text: pg.Text})
		}
		if len(src.Pages) == 0 {
			// Keep the empty source so the run reports it by name.
			src.Pages = []distill.PageText{{Page: 1, Text: ""}}
		}
		sources = append(sources, src)
	}
	return sources, warnings
}

// qualityWarnings turns a document's extraction quality metrics into
// user-facing warnings. Garbled-but-nonempty extractions (low printable
// ratio) would otherwise pass silently into the pipeline.
func qualityWarnings(doc *docpipe.Document) []string {
	q := doc.Quality
	if q == nil {
		return nil
	}
	var warnings []string
	if q.NeedsOCR() {
		warnings = append(warnings, fmt.Sprintf(
			"%s: extracted text looks sparse or garbled (%.0f chars/page, %.0f%% printable); if this is a scanned document, run OCR first",
			doc.Path, q.CharsPerPage, q.PrintableRatio*100))
	}
	if q.HasVisualGap() {
		warnings = append(warnings, fmt.Sprintf(
			"%s: text references %d figures/tables carried as images; their content is not extracted",
			doc.Path, q.VisualRefCount))
	}
	return warnings
}

// --- distill ---

func cmdDistill(args []string) {
	fs := flag.NewFlagSet("distill", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML pipeline config")
	memoPath := fs.String("memo", "", "plain-text memo file added as an extra source")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	fs.Parse(args)

	if fs.NArg() == 0 && *memoPath == "" {
		fmt.Fprintln(os.Stderr, "distill requires at least one file or -memo")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := loadDistiller(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	pipe := docpipe.New(docpipe.Config{Logger: slog.Default()})

	sources, skipped := sourcesFromFiles(ctx, pipe, fs.Args())
	if *memoPath != "" {
		body, err := os.ReadFile(*memoPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read memo: %v\n", err)
			os.Exit(1)
		}
		sources = append(sources, distill.Source{
			Name:  "memo",
			Pages: []distill.PageText{{Page: 1, Text: string(body)}},
		})
	}

	if len(sources) == 0 {
		for _, wmsg := range skipped {
			fmt.Fprintf(os.Stderr, "warning: %s\n", wmsg)
		}
		fmt.Fprintln(os.Stderr, "no readable sources")
		os.Exit(1)
	}

	progress := func(stage distill.Stage, source string) {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", stage, source)
	}
	res, err := d.Run(ctx, sources, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "distill: %v\n", err)
		os.Exit(1)
	}
	res.Warnings = append(skipped, res.Warnings...)
	printResult(res, *asJSON)
}

// --- memo ---

func cmdMemo(args []string) {
	fs := flag.NewFlagSet("memo", flag.ExitOnError)
	label := fs.String("label", "memo", "evidence label for the memo")
	configPath := fs.String("config", "", "YAML pipeline config")
	asJSON := fs.Bool("json", false, "print the full result as JSON")
	fs.Parse(args)

	var body []byte
	var err error
	if fs.NArg() > 0 && fs.Arg(0) != "-" {
		body, err = os.ReadFile(fs.Arg(0))
	} else {
		body, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read memo: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := loadDistiller(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	res, err := d.DistillText(ctx, *label, string(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "distill: %v\n", err)
		os.Exit(1)
	}
	printResult(res, *asJSON)
}

func printResult(res *distill.Result, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(res)
		return
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for i, c := range res.Candidates {
		fmt.Printf("%2d. [%s/%s] %s  (score %d)\n", i+1, c.Strength, c.Category, c.Title, c.Score)
		fmt.Printf("    %s\n", c.Decision)
		if c.Evidence.File != "" {
			fmt.Printf("    — %s p.%d: %q\n", c.Evidence.File, c.Evidence.Page, c.Evidence.Quote)
		} else {
			fmt.Printf("    — p.%d: %q\n", c.Evidence.Page, c.Evidence.Quote)
		}
	}
	fmt.Printf("\n%d candidates (%d raw, %d merged) from %d pages\n",
		len(res.Candidates), res.Stats.RawCandidates, res.Stats.Merged, res.Stats.PagesSeen)
}

// --- serve ---

func cmdServe() {
	port := env("PORT", "8086")
	dbPath := env("DB_PATH", "db/dnav.db")
	configPath := env("DISTILL_CONFIG", "")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := loadDistiller(configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	pipe := docpipe.New(docpipe.Config{Logger: slog.Default()})

	db, err := dbopen.Open(dbPath, dbopen.WithMkdirAll(), dbopen.WithSchema(decisionlog.Schema))
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	dlog := decisionlog.New(db, decisionlog.Config{Logger: slog.Default()})

	r := chi.NewRouter()
	stack, limiter := shield.DefaultAPIStack()
	for _, mw := range stack {
		r.Use(mw)
	}
	limiter.StartGC(ctx.Done())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/api/distill", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Sources []distill.Source `json:"sources"`
			Paths   []string         `json:"paths"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		sources := req.Sources
		var skipped []string
		if len(req.Paths) > 0 {
			extracted, warns := sourcesFromFiles(r.Context(), pipe, req.Paths)
			sources = append(sources, extracted...)
			skipped = warns
		}
		res, err := d.Run(r.Context(), sources, nil)
		if err != nil {
			writeDistillError(w, err)
			return
		}
		res.Warnings = append(skipped, res.Warnings...)
		writeJSON(w, 200, res)
	})

	r.Post("/api/memo", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label string `json:"label"`
			Text  string `json:"text"`
			HTML  string `json:"html"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if req.Label == "" {
			req.Label = "memo"
		}
		text := req.Text
		if text == "" && req.HTML != "" {
			converted, err := distill.MemoFromHTML(req.HTML)
			if err != nil {
				writeDistillError(w, err)
				return
			}
			text = converted
		}
		res, err := d.DistillText(r.Context(), req.Label, text)
		if err != nil {
			writeDistillError(w, err)
			return
		}
		writeJSON(w, 200, res)
	})

	r.Route("/api/decisions", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			entries, err := dlog.List(r.Context())
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if entries == nil {
				entries = []decisionlog.Entry{}
			}
			writeJSON(w, 200, entries)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Candidate distill.Candidate     `json:"candidate"`
				Vars      decisionlog.ScoreVars `json:"vars"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, 400, err)
				return
			}
			entry, err := dlog.Promote(r.Context(), req.Candidate, req.Vars)
			if err != nil {
				writeLogError(w, err)
				return
			}
			writeJSON(w, 201, entry)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			entry, err := dlog.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeLogError(w, err)
				return
			}
			writeJSON(w, 200, entry)
		})

		r.Post("/{id}/rescore", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Vars decisionlog.ScoreVars `json:"vars"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, 400, err)
				return
			}
			entry, err := dlog.Rescore(r.Context(), chi.URLParam(r, "id"), req.Vars)
			if err != nil {
				writeLogError(w, err)
				return
			}
			writeJSON(w, 200, entry)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := dlog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeLogError(w, err)
				return
			}
			writeJSON(w, 200, map[string]string{"status": "deleted"})
		})
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// --- mcp ---

func cmdMCP() {
	dbPath := env("DB_PATH", "db/dnav.db")
	configPath := env("DISTILL_CONFIG", "")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := loadDistiller(configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	pipe := docpipe.New(docpipe.Config{Logger: slog.Default()})

	db, err := dbopen.Open(dbPath, dbopen.WithMkdirAll(), dbopen.WithSchema(decisionlog.Schema))
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	dlog := decisionlog.New(db, decisionlog.Config{Logger: slog.Default()})

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "dnav",
		Version: "1.0.0",
	}, nil)
	d.RegisterMCP(srv)
	pipe.RegisterMCP(srv)
	dlog.RegisterMCP(srv)

	slog.Info("MCP server starting", "transport", "stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		slog.Error("MCP server", "error", err)
		os.Exit(1)
	}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeDistillError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, distill.ErrInvalidInput):
		writeError(w, 400, err)
	case errors.Is(err, context.Canceled):
		writeError(w, 499, err)
	default:
		writeError(w, 500, err)
	}
}

func writeLogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, decisionlog.ErrNotFound):
		writeError(w, 404, err)
	case errors.Is(err, decisionlog.ErrDuplicate):
		writeError(w, 409, err)
	case errors.Is(err, decisionlog.ErrInvalidVars):
		writeError(w, 400, err)
	default:
		writeError(w, 500, err)
	}
}
