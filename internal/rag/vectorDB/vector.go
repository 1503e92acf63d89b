package vectorDB

import (
	"context"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

// AnswerCache stores full structured answers keyed by the question's
// embedding. One collection per domain keeps cached answers from leaking
// across domains.
type AnswerCache interface {
	GetCachedAnswer(ctx context.Context, domain commonModels.Domain, queryVector []float32) (*commonModels.Answer, bool, error)
	SaveToCache(ctx context.Context, domain commonModels.Domain, id string, vector []float32, answer *commonModels.Answer) error

	// ResetDomain drops the domain's cached answers - called when the
	// domain's documents are cleared, since answers cite those documents.
	ResetDomain(ctx context.Context, domain commonModels.Domain) error
}
