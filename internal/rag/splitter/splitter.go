package splitter

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

// Split chunks the converted pages into a Document. Each chunk keeps the
// page number it came from; chunks never span a page boundary.
func Split(rawPages []commonModels.RawPage, documentName string, filename string) commonModels.Document {
	now := time.Now()
	var chunks []commonModels.Chunk
	maxPage := 0

	for _, page := range rawPages {
		if page.Number > maxPage {
			maxPage = page.Number
		}
		for _, text := range splitTextIntoChunks(page.Content, config.ChunkSizeChars, config.ChunkOverlapChars) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks = append(chunks, commonModels.Chunk{
				Text: text,
				Page: page.Number,
			})
		}
	}

	return commonModels.Document{
		MetaInfo: commonModels.MetaInfo{
			DocumentID:       NewDocumentID(filename, now),
			OriginalFilename: filename,
			DocumentName:     documentName,
			IngestedAt:       now,
		},
		Content: commonModels.DocumentContent{
			Chunks: chunks,
			Pages:  maxPage,
		},
	}
}

// NewDocumentID derives a stable-length id from the filename and the ingest
// time, so re-uploading the same file yields a fresh document.
func NewDocumentID(filename string, at time.Time) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d", filename, at.UnixNano())))
	return hex.EncodeToString(sum[:])
}

// splitTextIntoChunks cuts text at the strongest separator present,
// carrying a trailing overlap into each following chunk.
func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var chunks []string

	if len(text) <= limit {
		return []string{text}
	}

	// separators ordered from best to worst for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// hard cut if no separator found (rare)
		return []string{text[:limit]}
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}
