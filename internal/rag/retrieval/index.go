package retrieval

import (
	"math"
	"sort"

	"github.com/akolanti/DocQA/internal/config"
)

// flatIndex is a brute-force inner-product index over one document's chunk
// embeddings. Built once, never mutated - adding a document always builds a
// fresh index. Fine at one-PDF scale; an incremental structure would replace
// this if corpora grow.
type flatIndex struct {
	dimension int
	vectors   [][]float32
}

type hit struct {
	position int
	score    float64
}

func newFlatIndex(documentID string, vectors [][]float32) (*flatIndex, error) {
	if len(vectors) == 0 {
		return nil, &EmptyDocumentError{DocumentID: documentID}
	}
	ix := &flatIndex{dimension: len(vectors[0])}
	for _, v := range vectors {
		if len(v) != ix.dimension {
			return nil, &DimensionMismatchError{DocumentID: documentID, Want: ix.dimension, Got: len(v)}
		}
	}
	ix.vectors = vectors
	return ix, nil
}

func (ix *flatIndex) size() int {
	return len(ix.vectors)
}

// search returns the k nearest chunks by inner product, scores rounded to a
// fixed precision so comparisons reproduce across runs.
func (ix *flatIndex) search(query []float32, k int) []hit {
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k <= 0 {
		return nil
	}

	hits := make([]hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = hit{position: i, score: roundScore(innerProduct(query, v))}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	return hits[:k]
}

func innerProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

var scoreFactor = math.Pow10(config.DistancePrecision)

func roundScore(s float64) float64 {
	return math.Round(s*scoreFactor) / scoreFactor
}
