package answer

import (
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// ValidatePageReferences keeps only claimed pages that were actually
// retrieved, backfills from the retrieved set when too few survive, and
// caps the result. Retrieval order is preserved for backfilled pages.
func ValidatePageReferences(claimed []int, retrieved []commonModels.RetrievalResult, log *logger_i.Logger) []int {
	retrievedPages := make(map[int]bool, len(retrieved))
	for _, r := range retrieved {
		retrievedPages[r.Page] = true
	}

	validated := make([]int, 0, len(claimed))
	kept := make(map[int]bool, len(claimed))
	var dropped []int
	for _, page := range claimed {
		if !retrievedPages[page] {
			dropped = append(dropped, page)
			continue
		}
		if kept[page] {
			continue
		}
		kept[page] = true
		validated = append(validated, page)
	}
	if len(dropped) > 0 {
		log.Warn("Dropped page references absent from retrieval", "count", len(dropped), "pages", dropped)
	}

	if len(validated) < config.MinPageReferences {
		for _, r := range retrieved {
			if len(validated) >= config.MinPageReferences {
				break
			}
			if kept[r.Page] {
				continue
			}
			kept[r.Page] = true
			validated = append(validated, r.Page)
		}
	}

	if len(validated) > config.MaxPageReferences {
		validated = validated[:config.MaxPageReferences]
	}
	return validated
}
