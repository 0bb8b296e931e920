// File path: internal/api/knowledge_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/knowledge"
)

func (s *Server) handleKnowledgeIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Index())
}

func (s *Server) handleKnowledgeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("サンプルが見つかりません: %s", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleKnowledgeCreate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var meta knowledge.Metadata
	if err := json.Unmarshal([]byte(r.FormValue("metadata")), &meta); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode metadata: %w", err))
		return
	}
	id := strings.TrimSpace(meta.ID)
	if id == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("metadata.id is required"))
		return
	}
	code := r.FormValue("nc_code")
	if strings.TrimSpace(code) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("nc_code is required"))
		return
	}

	var drawing []byte
	if file, header, err := r.FormFile("drawing"); err == nil {
		defer file.Close()
		if strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadSize))
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("read drawing: %w", err))
				return
			}
			drawing = data
		}
	}

	if err := s.store.Register(id, meta, code, drawing); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: sample registered", "sample", id)
	writeJSON(w, http.StatusCreated, registerResponse{Success: true, ID: id})
}

func (s *Server) handleKnowledgeDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("サンプルが見つかりません: %s", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (s *Server) handleKnowledgeDrawing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, mimeType, err := s.store.Drawing(id)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("図面が見つかりません: %s", id))
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"history": []interface{}{}})
		return
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
