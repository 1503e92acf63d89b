package commonModels

import (
	"fmt"
	"time"
)

// Domain selects which instruction/schema pair the answer generator uses.
// Each domain also owns an isolated document registry and retriever.
type Domain string

const (
	DomainUniversal    Domain = "universal"
	DomainAnnualReport Domain = "annual_report"
	DomainEducation    Domain = "education"
	DomainStock        Domain = "stock"
	DomainAutomotive   Domain = "automotive"
	DomainMedical      Domain = "medical"
)

func AllDomains() []Domain {
	return []Domain{
		DomainUniversal,
		DomainAnnualReport,
		DomainEducation,
		DomainStock,
		DomainAutomotive,
		DomainMedical,
	}
}

// ParseDomain rejects unknown tags - unknown domains are a configuration
// error, never a silent fallback to universal.
func ParseDomain(s string) (Domain, error) {
	if s == "" {
		return DomainUniversal, nil
	}
	for _, d := range AllDomains() {
		if s == string(d) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// AnswerKind is the expected type of final_answer.
type AnswerKind string

const (
	KindString  AnswerKind = "string"
	KindNumber  AnswerKind = "number"
	KindBoolean AnswerKind = "boolean"
	KindNames   AnswerKind = "names"
)

func AllAnswerKinds() []AnswerKind {
	return []AnswerKind{KindString, KindNumber, KindBoolean, KindNames}
}

func ParseAnswerKind(s string) (AnswerKind, error) {
	if s == "" {
		return KindString, nil
	}
	for _, k := range AllAnswerKinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown answer kind %q", s)
}

// Chunk is the atomic retrieval unit - a page-scoped span of extracted text.
type Chunk struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

type MetaInfo struct {
	DocumentID       string    `json:"document_id"`
	OriginalFilename string    `json:"original_filename"`
	DocumentName     string    `json:"document_name"`
	IngestedAt       time.Time `json:"ingested_at"`
}

type DocumentContent struct {
	Chunks []Chunk `json:"chunks"`
	Pages  int     `json:"pages"`
}

// Document is the chunked representation of one uploaded file.
// Chunk order is preserved for display only - retrieval never relies on it.
type Document struct {
	MetaInfo MetaInfo        `json:"metainfo"`
	Content  DocumentContent `json:"content"`
}

// RawPage is what a converter hands to the splitter: one page of markdown.
type RawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// RetrievalResult is ephemeral - produced per query, never persisted.
// Distance is a similarity (higher = more similar); RelevanceScore and
// CombinedScore are filled in by the reranker.
type RetrievalResult struct {
	DocumentID     string  `json:"document_id"`
	Page           int     `json:"page"`
	Text           string  `json:"text"`
	Distance       float64 `json:"distance"`
	RelevanceScore float64 `json:"relevance_score,omitempty"`
	CombinedScore  float64 `json:"combined_score,omitempty"`
}

// Answer is the structured, schema-validated result of one question.
// FinalAnswer is typed per AnswerKind: string, float64, bool, []string
// or the literal "N/A".
type Answer struct {
	StepByStepAnalysis string `json:"step_by_step_analysis"`
	ReasoningSummary   string `json:"reasoning_summary"`
	RelevantPages      []int  `json:"relevant_pages"`
	FinalAnswer        any    `json:"final_answer"`
}

// DocumentRecord is the registry's view of an uploaded document.
type DocumentRecord struct {
	DocumentID   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	Filename     string    `json:"filename"`
	ChunksCount  int       `json:"chunks_count"`
	PagesCount   int       `json:"pages_count"`
	IngestedAt   time.Time `json:"ingested_at"`
}

// IngestResult is reported back to the caller per uploaded file.
type IngestResult struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	DocumentName string `json:"document_name"`
	Status       string `json:"status"` // "success" | "error"
	ChunksCount  int    `json:"chunks_count"`
	PagesCount   int    `json:"pages_count"`
}
