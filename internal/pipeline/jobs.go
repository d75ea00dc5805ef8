package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a collection analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusRanking    JobStatus = "ranking"
	StatusCondensing JobStatus = "condensing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// DocumentInput is one uploaded document awaiting processing.
type DocumentInput struct {
	Filename string
	Data     []byte
}

// Job tracks the state of a single collection analysis run.
type Job struct {
	mu sync.Mutex

	ID      string `json:"job_id"`
	Persona string `json:"persona"`
	Task    string `json:"task"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	documents []DocumentInput
	result    *CollectionResult
	errors    []string
}

// Progress tracks processing progress across pipeline phases.
type Progress struct {
	TotalDocuments   int      `json:"total_documents"`
	DocumentsParsed  int      `json:"documents_parsed"`
	SectionsRanked   int      `json:"sections_ranked"`
	SnippetsProduced int      `json:"snippets_produced"`
	Errors           []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrDocumentsParsed atomically increments the parsed-document count.
func (j *Job) IncrDocumentsParsed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsParsed++
	j.UpdatedAt = time.Now()
}

// SetCounts records section/snippet totals.
func (j *Job) SetCounts(sectionsRanked, snippetsProduced int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsRanked = sectionsRanked
	j.Progress.SnippetsProduced = snippetsProduced
	j.UpdatedAt = time.Now()
}

// SetDocuments sets the uploaded documents for processing.
func (j *Job) SetDocuments(docs []DocumentInput) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.documents = docs
	j.Progress.TotalDocuments = len(docs)
}

// Documents returns the uploaded documents.
func (j *Job) Documents() []DocumentInput {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.documents
}

// SetResult stores the finished collection result.
func (j *Job) SetResult(res *CollectionResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.UpdatedAt = time.Now()
}

// Result returns the finished collection result, or nil if not done.
func (j *Job) Result() *CollectionResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Persona  string    `json:"persona"`
	Task     string    `json:"task"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:      j.ID,
		Persona: j.Persona,
		Task:    j.Task,
		Status:  j.Status,
		Phase:   j.Phase,
		Progress: Progress{
			TotalDocuments:   j.Progress.TotalDocuments,
			DocumentsParsed:  j.Progress.DocumentsParsed,
			SectionsRanked:   j.Progress.SectionsRanked,
			SnippetsProduced: j.Progress.SnippetsProduced,
			Errors:           errs,
		},
	}
}
