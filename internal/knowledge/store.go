// File path: internal/knowledge/store.go
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lathemind/lathemind/internal/common"
)

const (
	indexVersion = "1.0"

	indexFile    = "index.json"
	samplesDir   = "samples"
	metadataFile = "metadata.json"
	programFile  = "program.nc"
	drawingFile  = "drawing.png"
	drawingAlt   = "drawing.jpg"
)

// Store owns the on-disk sample collection and its in-memory index. Mutations
// are serialized; the index is replaced wholesale after each mutation so
// readers observe either the previous or the fully rebuilt state.
type Store struct {
	base    string
	samples string
	idxPath string

	mu    sync.RWMutex
	index *Index
}

// NewStore opens (and if necessary initializes) the knowledge base rooted at
// the provided directory.
func NewStore(base string) (*Store, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New("knowledge base path required")
	}
	s := &Store{
		base:    base,
		samples: filepath.Join(base, samplesDir),
		idxPath: filepath.Join(base, indexFile),
	}
	if err := os.MkdirAll(s.samples, 0o755); err != nil {
		return nil, fmt.Errorf("create samples dir: %w", err)
	}
	s.index = s.loadIndex()
	if _, err := os.Stat(s.idxPath); errors.Is(err, os.ErrNotExist) {
		if err := s.saveIndex(s.index); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Index returns the current in-memory index. Reads never trigger a rebuild.
func (s *Store) Index() Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.index
}

// Register persists a new sample as a unit: metadata, code body and optional
// drawing all land or none do. A creation timestamp is stamped when the
// caller omits one. The index is rebuilt before Register returns.
func (s *Store) Register(id string, meta Metadata, code string, drawing []byte) error {
	logger := common.Logger()
	if err := validateID(id); err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return errors.New("nc code required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.samples, id)
	if err := s.writeSample(dir, id, meta, code, drawing); err != nil {
		// All-or-nothing: a half-written sample must never reach the index.
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Error("knowledge: rollback failed", "sample", id, "error", rmErr)
		}
		logger.Error("knowledge: sample registration failed", "sample", id, "error", err)
		return err
	}

	s.rebuildLocked()
	logger.Info("knowledge: sample registered", "sample", id)
	return nil
}

func (s *Store) writeSample(dir, id string, meta Metadata, code string, drawing []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sample dir: %w", err)
	}
	meta.ID = id
	if strings.TrimSpace(meta.CreatedAt) == "" {
		meta.CreatedAt = time.Now().Format(time.RFC3339)
	}
	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), encoded, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, programFile), []byte(code), 0o644); err != nil {
		return fmt.Errorf("write program: %w", err)
	}
	if len(drawing) > 0 {
		if err := os.WriteFile(filepath.Join(dir, drawingFile), drawing, 0o644); err != nil {
			return fmt.Errorf("write drawing: %w", err)
		}
	}
	return nil
}

// Get loads the full sample for an identifier. Structurally incomplete
// samples (missing metadata or code body) read as not-found.
func (s *Store) Get(id string) (*SampleDetail, error) {
	if err := validateID(id); err != nil {
		return nil, ErrNotFound
	}
	dir := filepath.Join(s.samples, id)
	if _, err := os.Stat(dir); err != nil {
		return nil, ErrNotFound
	}
	rawMeta, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, ErrNotFound
	}
	code, err := os.ReadFile(filepath.Join(dir, programFile))
	if err != nil {
		return nil, ErrNotFound
	}
	var meta Metadata
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		common.Logger().Warn("knowledge: corrupt sample metadata", "sample", id, "error", err)
		return nil, ErrNotFound
	}
	_, drawingErr := s.DrawingPath(id)
	return &SampleDetail{
		Metadata:   meta,
		Code:       string(code),
		HasDrawing: drawingErr == nil,
	}, nil
}

// Delete removes every artifact stored for the identifier and rebuilds the
// index. Unknown identifiers report ErrNotFound and leave the index intact.
func (s *Store) Delete(id string) error {
	logger := common.Logger()
	if err := validateID(id); err != nil {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.samples, id)
	if _, err := os.Stat(dir); err != nil {
		return ErrNotFound
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Error("knowledge: sample delete failed", "sample", id, "error", err)
		return fmt.Errorf("delete sample: %w", err)
	}
	s.rebuildLocked()
	logger.Info("knowledge: sample deleted", "sample", id)
	return nil
}

// DrawingPath locates the stored drawing for a sample, preferring PNG over
// JPG when both encodings exist.
func (s *Store) DrawingPath(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", ErrNotFound
	}
	for _, name := range []string{drawingFile, drawingAlt} {
		path := filepath.Join(s.samples, id, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Drawing returns the stored drawing bytes and their MIME type.
func (s *Store) Drawing(id string) ([]byte, string, error) {
	path, err := s.DrawingPath(id)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", ErrNotFound
	}
	mime := "image/png"
	if strings.HasSuffix(path, ".jpg") {
		mime = "image/jpeg"
	}
	return data, mime, nil
}

// rebuildLocked rescans storage and replaces the in-memory index. Callers
// must hold the write lock.
func (s *Store) rebuildLocked() {
	logger := common.Logger()
	next := &Index{Version: indexVersion, Samples: []Summary{}}

	entries, err := os.ReadDir(s.samples)
	if err != nil {
		logger.Error("knowledge: index rebuild scan failed", "error", err)
		return
	}
	seenTypes := make(map[string]bool)
	seenMaterials := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.samples, entry.Name(), metadataFile))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			logger.Warn("knowledge: skipping unreadable metadata", "sample", entry.Name(), "error", err)
			continue
		}
		if meta.ID == "" {
			meta.ID = entry.Name()
		}
		next.Samples = append(next.Samples, Summary{
			ID:          meta.ID,
			Name:        meta.Name,
			Path:        samplesDir + "/" + entry.Name(),
			ProcessType: meta.ProcessType,
			Material:    meta.Material,
			Tags:        meta.Tags,
		})
		if meta.ProcessType != "" && !seenTypes[meta.ProcessType] {
			seenTypes[meta.ProcessType] = true
			next.ProcessTypes = append(next.ProcessTypes, meta.ProcessType)
		}
		if meta.Material != "" && !seenMaterials[meta.Material] {
			seenMaterials[meta.Material] = true
			next.Materials = append(next.Materials, meta.Material)
		}
	}
	next.TotalSamples = len(next.Samples)
	if len(next.ProcessTypes) == 0 {
		next.ProcessTypes = carryOrDefault(s.index.ProcessTypes, defaultProcessTypes)
	}
	if len(next.Materials) == 0 {
		next.Materials = carryOrDefault(s.index.Materials, defaultMaterials)
	}

	s.index = next
	if err := s.saveIndex(next); err != nil {
		logger.Error("knowledge: index persist failed", "error", err)
	}
}

func (s *Store) loadIndex() *Index {
	raw, err := os.ReadFile(s.idxPath)
	if err != nil {
		return emptyIndex()
	}
	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		common.Logger().Error("knowledge: index load failed", "error", err)
		return emptyIndex()
	}
	if idx.Samples == nil {
		idx.Samples = []Summary{}
	}
	return &idx
}

func (s *Store) saveIndex(idx *Index) error {
	encoded, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(s.idxPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func validateID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || trimmed != id {
		return errors.New("invalid sample id")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return errors.New("invalid sample id")
	}
	return nil
}
