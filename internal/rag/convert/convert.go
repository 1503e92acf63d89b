package convert

import (
	"context"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

// Converter turns an uploaded file into page-scoped markdown. Page numbers
// must be stable across runs of the same file - the splitter stamps them
// onto every chunk and answers cite them back.
type Converter interface {
	Convert(ctx context.Context, path string) ([]commonModels.RawPage, error)
}
