// File path: internal/api/process_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lathemind/lathemind/internal/common"
	"github.com/lathemind/lathemind/internal/process"
)

func (s *Server) handleProcessUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("工程表ファイルが必要です"))
		return
	}
	defer file.Close()

	data, err := process.ParseSheet(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse process sheet: %w", err))
		return
	}
	s.processes.Replace(data)
	logger.Info("api: process sheet uploaded",
		"front", len(data.FrontOperations), "back", len(data.BackOperations))
	writeJSON(w, http.StatusOK, processUploadResponse{
		Success: true,
		Message: fmt.Sprintf("工程表を読み込みました（正面 %d 工程 / 背面 %d 工程）",
			len(data.FrontOperations), len(data.BackOperations)),
		Data: data,
	})
}

func (s *Server) handleProcessGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.processes.Get())
}

func (s *Server) handleProcessReplace(w http.ResponseWriter, r *http.Request) {
	var data process.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode process data: %w", err))
		return
	}
	s.processes.Replace(data)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleProcessClear(w http.ResponseWriter, r *http.Request) {
	s.processes.Clear()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
