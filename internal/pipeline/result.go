package pipeline

import "github.com/dgallion1/docsift/internal/fragment"

// CollectionResult is the output of one collection analysis run, shaped
// for JSON serialization by the API layer.
type CollectionResult struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []Subsection       `json:"subsection_analysis"`
	Outlines           []DocumentOutline  `json:"outlines"`
}

// Metadata echoes the query back alongside run information.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
	ScoringMode         string   `json:"scoring_mode"`
}

// ExtractedSection is one ranked section in the collection-wide order.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// Subsection is the refined snippet for a top-ranked section.
type Subsection struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// DocumentOutline pairs a document with its extracted outline.
type DocumentOutline struct {
	Document string                  `json:"document"`
	Title    *string                 `json:"title"`
	Outline  []fragment.OutlineEntry `json:"outline"`
}
