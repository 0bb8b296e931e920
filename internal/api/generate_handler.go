// File path: internal/api/generate_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/generator"
)

// readDrawing pulls the uploaded drawing out of the multipart form and
// enforces the image content-type and size limits before any pipeline stage
// runs.
func (s *Server) readDrawing(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("図面画像ファイルが必要です")
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("画像ファイルをアップロードしてください")
	}
	contents, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read drawing: %w", err)
	}
	if int64(len(contents)) > s.cfg.MaxUploadSize {
		return nil, "", fmt.Errorf("ファイルサイズが大きすぎます (最大: %dMB)", s.cfg.MaxUploadSize>>20)
	}
	return contents, mimeType, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var proc generator.ProcessInfo
	if err := json.Unmarshal([]byte(r.FormValue("process_info")), &proc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode process_info: %w", err))
		return
	}
	var cond generator.MachiningConditions
	if err := json.Unmarshal([]byte(r.FormValue("machining_conditions")), &cond); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode machining_conditions: %w", err))
		return
	}
	drawing, mimeType, err := s.readDrawing(r, "drawing")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("api: generate request", "process", proc.ProcessName, "material", cond.Material)
	program, err := s.generator.Generate(r.Context(), drawing, mimeType, proc, cond)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Success:           true,
		NCProgram:         program.Code,
		ProgramNumber:     program.ProgramNumber,
		Analysis:          program.Analysis,
		ReferencedSamples: program.ReferencedSamples,
		Warnings:          program.Warnings,
		GeneratedAt:       program.GeneratedAt,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	drawing, mimeType, err := s.readDrawing(r, "drawing")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("api: analyze request", "bytes", len(drawing))
	analysis, fallback := s.generator.AnalyzeOnly(r.Context(), drawing, mimeType)
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Analysis: analysis, Fallback: fallback})
}
