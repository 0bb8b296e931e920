// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/lathemind/lathemind/internal/catalog"
	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/config"
	"github.com/lathemind/lathemind/internal/generator"
	"github.com/lathemind/lathemind/internal/knowledge"
	"github.com/lathemind/lathemind/internal/process"
)

// Server is the thin HTTP shell over the generation pipeline, the knowledge
// base and the process dataset.
type Server struct {
	router    chi.Router
	store     *knowledge.Store
	processes *process.Store
	generator *generator.Generator
	history   *catalog.Store
	cfg       config.Config
}

// NewServer wires the transport routes. The history catalog may be nil; the
// corresponding endpoint then reports an empty list.
func NewServer(store *knowledge.Store, processes *process.Store, gen *generator.Generator, history *catalog.Store, cfg config.Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		store:     store,
		processes: processes,
		generator: gen,
		history:   history,
		cfg:       cfg,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"app":    s.cfg.AppName,
			"model":  "CINCOM " + s.cfg.CincomModel,
		})
	})

	s.router.Post("/v1/generate", s.handleGenerate)
	s.router.Post("/v1/analyze", s.handleAnalyze)

	s.router.Get("/v1/knowledge", s.handleKnowledgeIndex)
	s.router.Post("/v1/knowledge", s.handleKnowledgeCreate)
	s.router.Get("/v1/knowledge/{id}", s.handleKnowledgeDetail)
	s.router.Delete("/v1/knowledge/{id}", s.handleKnowledgeDelete)
	s.router.Get("/v1/knowledge/{id}/drawing", s.handleKnowledgeDrawing)

	s.router.Get("/v1/history", s.handleHistory)

	s.router.Post("/v1/process/upload", s.handleProcessUpload)
	s.router.Get("/v1/process", s.handleProcessGet)
	s.router.Put("/v1/process", s.handleProcessReplace)
	s.router.Delete("/v1/process", s.handleProcessClear)

	s.router.Get("/v1/logs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("api: request failed", "status", status, "error", err)
	} else {
		logger.Warn("api: request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
