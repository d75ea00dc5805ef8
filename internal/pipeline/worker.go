package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docsift/internal/fragment"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/rank"
)

// Worker processes a single collection analysis job.
type Worker struct {
	classifier *outline.Classifier
	ranker     *rank.Ranker
	condenser  *rank.Condenser
	log        *slog.Logger

	maxConcurrentParse int
}

func NewWorker(classifier *outline.Classifier, ranker *rank.Ranker, condenser *rank.Condenser, log *slog.Logger, maxParse int) *Worker {
	if maxParse <= 0 {
		maxParse = 4
	}
	return &Worker{
		classifier:         classifier,
		ranker:             ranker,
		condenser:          condenser,
		log:                log,
		maxConcurrentParse: maxParse,
	}
}

// docResult carries one document's extraction output, keyed to the input
// order so collection-wide rank ties stay deterministic.
type docResult struct {
	filename string
	outline  fragment.Outline
	sections []fragment.Section
	err      error
}

// Process runs the full analysis pipeline for a job: per-document parse +
// classify + assemble (documents are independent units, parsed with bounded
// concurrency), then a collection-wide rank and condensation of the top
// sections. An unreadable document is skipped, not fatal; a collection with
// no readable document at all fails.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	docs := job.Documents()

	// Phase 1: Extract sections per document.
	job.SetStatus(StatusParsing, "parsing")
	results := make([]docResult, len(docs))
	sem := make(chan struct{}, w.maxConcurrentParse)
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, doc DocumentInput) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = w.extractDocument(doc)
			job.IncrDocumentsParsed()
		}(i, doc)
	}
	wg.Wait()

	var inputDocs []string
	var allSections []fragment.Section
	var outlines []DocumentOutline
	readable := 0
	hadErrors := false
	for _, r := range results {
		if r.err != nil {
			log.Warn("document skipped", "document", r.filename, "error", r.err)
			job.AddError(fmt.Sprintf("%s: %s", r.filename, r.err))
			hadErrors = true
			continue
		}
		readable++
		inputDocs = append(inputDocs, r.filename)
		allSections = append(allSections, r.sections...)
		outlines = append(outlines, DocumentOutline{
			Document: r.filename,
			Title:    r.outline.Title,
			Outline:  r.outline.Entries,
		})
	}
	if readable == 0 {
		log.Error("no readable documents in collection")
		job.AddError("no readable documents")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Rank all sections across the whole collection.
	job.SetStatus(StatusRanking, "ranking")
	scored, mode := w.ranker.Rank(ctx, allSections, job.Persona, job.Task)
	log.Info("ranked sections", "sections", len(scored), "mode", mode)

	// Phase 3: Condense the top-ranked sections.
	job.SetStatus(StatusCondensing, "condensing")
	snippets, mode := w.condenser.Condense(ctx, scored, job.Task, mode)
	job.SetCounts(len(scored), len(snippets))

	// Phase 4: Assemble the result.
	res := &CollectionResult{
		Metadata: Metadata{
			InputDocuments:      inputDocs,
			Persona:             job.Persona,
			JobToBeDone:         job.Task,
			ProcessingTimestamp: time.Now().Format(time.RFC3339),
			ScoringMode:         string(mode),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(scored)),
		SubsectionAnalysis: make([]Subsection, 0, len(snippets)),
		Outlines:           outlines,
	}
	for _, s := range scored {
		res.ExtractedSections = append(res.ExtractedSections, ExtractedSection{
			Document:       s.DocumentID,
			SectionTitle:   s.Heading.Text,
			ImportanceRank: s.ImportanceRank,
			PageNumber:     s.Page,
		})
	}
	for _, sn := range snippets {
		res.SubsectionAnalysis = append(res.SubsectionAnalysis, Subsection{
			Document:    sn.DocumentID,
			RefinedText: sn.RefinedText,
			PageNumber:  sn.Page,
		})
	}
	job.SetResult(res)

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("analysis complete", "documents", readable, "sections", len(scored), "snippets", len(snippets))
}

// extractDocument parses one document into fragments and extracts its
// outline and sections. A parse failure is reported, not fatal.
func (w *Worker) extractDocument(doc DocumentInput) docResult {
	res := docResult{filename: doc.Filename}

	src, err := parser.ForFile(doc.Filename)
	if err != nil {
		res.err = err
		return res
	}
	frags, err := src.Parse(bytes.NewReader(doc.Data), doc.Filename)
	if err != nil {
		res.err = err
		return res
	}

	out, positions := w.classifier.ClassifyWithPositions(frags)
	res.outline = out
	res.sections = outline.Assemble(doc.Filename, frags, out, positions)
	return res
}
