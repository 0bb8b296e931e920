// File path: internal/api/types.go
package api

import (
	"time"

	"github.com/lathemind/lathemind/internal/generator"
	"github.com/lathemind/lathemind/internal/process"
)

type generateResponse struct {
	Success           bool                       `json:"success"`
	NCProgram         string                     `json:"nc_program"`
	ProgramNumber     string                     `json:"program_number,omitempty"`
	Analysis          *generator.DrawingAnalysis `json:"analysis,omitempty"`
	ReferencedSamples []string                   `json:"referenced_samples"`
	Warnings          []string                   `json:"warnings"`
	GeneratedAt       time.Time                  `json:"generated_at"`
}

type analyzeResponse struct {
	Success  bool                       `json:"success"`
	Analysis *generator.DrawingAnalysis `json:"analysis"`
	Fallback bool                       `json:"fallback"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type processUploadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    process.Data `json:"data"`
}
