package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/outline"
	"github.com/dgallion1/docsift/internal/rank"
)

// Orchestrator manages the collection analysis pipeline.
type Orchestrator struct {
	jobs       *JobStore
	queue      chan *Job
	classifier *outline.Classifier
	ranker     *rank.Ranker
	condenser  *rank.Condenser
	log        *slog.Logger
	cfg        config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, embedder rank.Embedder, log *slog.Logger) *Orchestrator {
	classifier := outline.NewClassifier(outline.Config{
		H1Ratio:         cfg.H1Ratio,
		H2Ratio:         cfg.H2Ratio,
		H3Ratio:         cfg.H3Ratio,
		MaxHeadingWords: cfg.MaxHeadingWords,
	})
	ranker := rank.NewRanker(embedder, rank.Config{
		TaskWeight:    cfg.TaskWeight,
		PersonaWeight: cfg.PersonaWeight,
	}, log)
	condenser := rank.NewCondenser(embedder, rank.CondenserConfig{
		TopSections:      cfg.TopSections,
		MaxSentences:     cfg.MaxSentences,
		MinSentenceChars: cfg.MinSentenceChars,
		VectorFloor:      cfg.VectorFloor,
		KeywordFloor:     cfg.KeywordFloor,
	}, log)

	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		classifier: classifier,
		ranker:     ranker,
		condenser:  condenser,
		log:        log,
		cfg:        cfg,
	}
}

// Classifier exposes the shared heading classifier for the synchronous
// single-document outline endpoint.
func (o *Orchestrator) Classifier() *outline.Classifier {
	return o.classifier
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.classifier, o.ranker, o.condenser, o.log, o.cfg.MaxConcurrentParse)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
