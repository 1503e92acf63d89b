package splitter

import (
	"strings"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

func TestSplit_PageScopedChunks(t *testing.T) {
	long := strings.Repeat("Paragraph of page two text. ", 60) // well past one chunk
	pages := []commonModels.RawPage{
		{Number: 1, Content: "Short first page."},
		{Number: 2, Content: long},
		{Number: 3, Content: "   \n"},
	}

	doc := Split(pages, "Quarterly Review", "review.pdf")

	if doc.Content.Pages != 3 {
		t.Errorf("Pages got %d, want 3", doc.Content.Pages)
	}
	if doc.MetaInfo.DocumentName != "Quarterly Review" || doc.MetaInfo.OriginalFilename != "review.pdf" {
		t.Errorf("metadata mismatch: %+v", doc.MetaInfo)
	}
	if doc.MetaInfo.DocumentID == "" {
		t.Error("document id must be set")
	}

	pageOneChunks, pageTwoChunks := 0, 0
	for _, c := range doc.Content.Chunks {
		switch c.Page {
		case 1:
			pageOneChunks++
		case 2:
			pageTwoChunks++
		case 3:
			t.Error("blank page produced a chunk")
		}
		if len(c.Text) > config.ChunkSizeChars+config.ChunkOverlapChars {
			t.Errorf("chunk of %d chars escaped the size limit", len(c.Text))
		}
	}
	if pageOneChunks != 1 {
		t.Errorf("short page got %d chunks, want 1", pageOneChunks)
	}
	if pageTwoChunks < 2 {
		t.Errorf("long page got %d chunks, want several", pageTwoChunks)
	}
}

func TestSplitTextIntoChunks_Overlap(t *testing.T) {
	text := strings.Repeat("One more sentence goes here. ", 80)
	chunks := splitTextIntoChunks(text, 200, 50)

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-20:]
		if !strings.Contains(chunks[i], tail) {
			t.Errorf("chunk %d does not carry the previous chunk's tail", i)
		}
	}
}

func TestSplitTextIntoChunks_ShortTextUntouched(t *testing.T) {
	chunks := splitTextIntoChunks("tiny", 100, 10)
	if len(chunks) != 1 || chunks[0] != "tiny" {
		t.Errorf("got %v, want the text unchanged", chunks)
	}
}

func TestSplitTextIntoChunks_NoSeparator(t *testing.T) {
	// with no whitespace the empty-string separator applies and the text
	// is cut character by character at the limit
	text := strings.Repeat("x", 500)
	chunks := splitTextIntoChunks(text, 100, 10)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d has %d chars, want at most 100", i, len(c))
		}
	}
}

func TestNewDocumentID(t *testing.T) {
	at := time.Now()
	first := NewDocumentID("report.pdf", at)
	if len(first) != 40 {
		t.Errorf("id length got %d, want a sha1 hex digest", len(first))
	}
	if first != NewDocumentID("report.pdf", at) {
		t.Error("same inputs must give the same id")
	}
	if first == NewDocumentID("report.pdf", at.Add(time.Nanosecond)) {
		t.Error("a later upload must give a fresh id")
	}
}
