// File path: internal/knowledge/search.go
package knowledge

import (
	"sort"

	"github.com/lathemind/lathemind/internal/common"
)

// Relevance weights. Feature-tag overlap is intentionally uncapped so a
// sample matching many detected features can outrank an exact process match.
const (
	scoreProcessType = 10
	scoreMaterial    = 5
	scorePerFeature  = 2
)

type scoredSummary struct {
	summary Summary
	score   int
}

// Search ranks indexed samples against the query and returns up to limit
// fully hydrated samples in descending score order. Zero-score samples are
// excluded outright. Ties keep the index iteration order; the sort is stable
// on purpose and callers may rely on it.
func (s *Store) Search(processType, material string, features []string, limit int) []SampleDetail {
	logger := common.Logger()
	if limit <= 0 {
		return nil
	}

	idx := s.Index()
	scored := make([]scoredSummary, 0, len(idx.Samples))
	for _, summary := range idx.Samples {
		if score := Score(summary, processType, material, features); score > 0 {
			scored = append(scored, scoredSummary{summary: summary, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]SampleDetail, 0, len(scored))
	for _, entry := range scored {
		detail, err := s.Get(entry.summary.ID)
		if err != nil {
			// Summaries without a retrievable code body are dropped silently.
			logger.Warn("knowledge: indexed sample not hydratable", "sample", entry.summary.ID)
			continue
		}
		results = append(results, *detail)
	}
	logger.Debug("knowledge: search complete",
		"process_type", processType, "material", material,
		"features", len(features), "results", len(results))
	return results
}

// Score exposes the relevance score of a single summary against a query.
func Score(summary Summary, processType, material string, features []string) int {
	score := 0
	if processType != "" && summary.ProcessType == processType {
		score += scoreProcessType
	}
	if material != "" && summary.Material == material {
		score += scoreMaterial
	}
	featureSet := make(map[string]bool, len(features))
	for _, f := range features {
		featureSet[f] = true
	}
	for _, tag := range summary.Tags {
		if featureSet[tag] {
			score += scorePerFeature
		}
	}
	return score
}

func carryOrDefault(previous, fallback []string) []string {
	if len(previous) > 0 {
		return append([]string(nil), previous...)
	}
	return append([]string(nil), fallback...)
}
