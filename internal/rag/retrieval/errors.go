package retrieval

import (
	"errors"
	"fmt"
)

// ErrNoDocuments means the resolved document-id set was empty: there was
// nothing to search. Callers that want "empty success" (the hybrid path)
// check registration counts before retrieving.
var ErrNoDocuments = errors.New("no documents available for retrieval")

// EmptyDocumentError: every chunk of the document was empty after
// truncation, so no index could be built. The registry is left untouched.
type EmptyDocumentError struct {
	DocumentID string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("document %s has no indexable text", e.DocumentID)
}

// DimensionMismatchError: an embedding inside one document disagreed with
// the dimension fixed by that document's first embedding.
type DimensionMismatchError struct {
	DocumentID string
	Want       int
	Got        int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("document %s: embedding dimension %d, index dimension %d", e.DocumentID, e.Got, e.Want)
}
