package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/lanekit/lanekit/pkg/cache"
	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/observability"
	"github.com/lanekit/lanekit/pkg/pipeline"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// serveCommand creates the serve command, which exposes the rendering
// pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		cacheKind  string
		redisURL   string
		mongoURI   string
		mongoDB    string
		mongoColl  string
		maxBodyKiB int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendering pipeline over HTTP",
		Long: `Serve exposes the rendering pipeline as a small HTTP API:

  POST /v1/render   render an inline roadmap document
  GET  /healthz     liveness probe

The request body for /v1/render carries the document and pipeline options:

  {"source": "<base64 document>", "source_format": "yaml", "formats": ["svg"]}

Artifacts come back base64-encoded in the JSON response, keyed by format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newServeCache(cmd.Context(), cacheKind, redisURL, mongoURI, mongoDB, mongoColl)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, nil, c.Logger)
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServeMux(runner, c.Logger, maxBodyKiB<<10),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			c.Logger.Info("serving", "addr", addr, "cache", cacheKind)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheKind, "cache", "file", "cache backend: file, redis, mongo, none")
	cmd.Flags().StringVar(&redisURL, "redis-url", "redis://localhost:6379/0", "redis URL (with --cache redis)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB URI (with --cache mongo)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", appName, "MongoDB database (with --cache mongo)")
	cmd.Flags().StringVar(&mongoColl, "mongo-collection", "cache", "MongoDB collection (with --cache mongo)")
	cmd.Flags().Int64Var(&maxBodyKiB, "max-body-kib", 1024, "maximum request body size in KiB")

	return cmd
}

// newServeCache builds the cache backend selected by --cache.
func newServeCache(ctx context.Context, kind, redisURL, mongoURI, mongoDB, mongoColl string) (cache.Cache, error) {
	switch kind {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		return newCache(false)
	case "redis":
		return cache.NewRedisCache(ctx, redisURL)
	case "mongo":
		return cache.NewMongoCache(ctx, mongoURI, mongoDB, mongoColl)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be file, redis, mongo, or none)", kind)
	}
}

// newServeMux wires the HTTP routes. Split from serveCommand so tests can
// exercise the handlers without a listener.
func newServeMux(runner *pipeline.Runner, logger *log.Logger, maxBody int64) *chi.Mux {
	if logger == nil {
		logger = log.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), logger)))
		})
	})
	r.Use(hookReporter)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/render", func(w http.ResponseWriter, req *http.Request) {
		var opts pipeline.Options
		body := http.MaxBytesReader(w, req.Body, maxBody)
		if err := json.NewDecoder(body).Decode(&opts); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "decoding request body: %v", err))
			return
		}
		// The server renders inline documents only; local paths would read
		// the server's filesystem.
		if opts.Path != "" {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "path is not allowed; send the document inline as source"))
			return
		}

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			loggerFromContext(req.Context()).Error("render failed", "err", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderResponse{
			DocHash:     result.DocHash,
			ChartHash:   result.ChartHash,
			Title:       result.Chart.Title,
			Warnings:    result.Warnings,
			Artifacts:   result.Artifacts,
			TaskCount:   result.Stats.TaskCount,
			BandCount:   result.Stats.BandCount,
			AssembleHit: result.CacheInfo.AssembleHit,
			RenderHit:   result.CacheInfo.RenderHit,
		})
	})

	return r
}

// renderResponse is the JSON envelope for /v1/render. Artifact bytes are
// base64-encoded by encoding/json.
type renderResponse struct {
	DocHash     string            `json:"doc_hash"`
	ChartHash   string            `json:"chart_hash"`
	Title       string            `json:"title"`
	Warnings    roadmap.Warnings  `json:"warnings,omitempty"`
	Artifacts   map[string][]byte `json:"artifacts"`
	TaskCount   int               `json:"task_count"`
	BandCount   int               `json:"band_count"`
	AssembleHit bool              `json:"assemble_cache_hit"`
	RenderHit   bool              `json:"render_cache_hit"`
}

// errorResponse is the JSON envelope for failures.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// hookReporter reports request and response events to the observability
// hooks.
func hookReporter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDate, errors.ErrCodeInvalidRange,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidStatus, errors.ErrCodeInvalidType,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDocument, errors.ErrCodeDuplicateID:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	var resp errorResponse
	resp.Error.Code = string(errors.GetCode(err))
	resp.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, resp)
}
