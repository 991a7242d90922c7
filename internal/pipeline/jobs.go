package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a print job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusDecoding  JobStatus = "decoding"
	StatusPrinting  JobStatus = "printing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Terminal reports whether a status is final.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single print submission.
type Job struct {
	mu sync.Mutex

	ID      string `json:"job_id"`
	Printer string `json:"printer"`

	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Title       string    `json:"title,omitempty"`
	ContentType string    `json:"content_type"`

	Progress Progress `json:"progress"`
	Error    string   `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	body []byte
}

// Progress tracks interpretation progress.
type Progress struct {
	Nodes  int `json:"nodes"`  // Top-level nodes in the decoded document
	Lines  int `json:"lines"`  // Text lines emitted so far
	Images int `json:"images"` // Images emitted so far
}

// NewJob builds a queued job holding the raw document body.
func NewJob(printer, contentType string, body []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          NewJobID(printer, body),
		Printer:     printer,
		Status:      StatusQueued,
		Phase:       "queued",
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
		body:        body,
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

// Fail marks the job failed with its error.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Phase = phase
	j.Error = err.Error()
	j.UpdatedAt = time.Now()
}

// SetTitle records the document's title once known.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.UpdatedAt = time.Now()
}

// SetNodes records the decoded top-level node count.
func (j *Job) SetNodes(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Nodes = n
	j.UpdatedAt = time.Now()
}

// IncrLines atomically counts one emitted text line.
func (j *Job) IncrLines() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Lines++
	j.UpdatedAt = time.Now()
}

// IncrImages atomically counts one emitted image.
func (j *Job) IncrImages() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Images++
	j.UpdatedAt = time.Now()
}

// Body returns the raw document bytes.
func (j *Job) Body() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.body
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Printer     string    `json:"printer"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Title       string    `json:"title,omitempty"`
	ContentType string    `json:"content_type"`
	Progress    Progress  `json:"progress"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:          j.ID,
		Printer:     j.Printer,
		Status:      j.Status,
		Phase:       j.Phase,
		Title:       j.Title,
		ContentType: j.ContentType,
		Progress:    j.Progress,
		Error:       j.Error,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
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

// NewJobID derives a job ID from printer, document bytes, and submission
// time, so resubmitting the same receipt yields a fresh job.
func NewJobID(printer string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(printer))
	h.Write([]byte{0})
	h.Write(body)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()))
	h.Write(ts[:])
	return fmt.Sprintf("%x", h.Sum(nil))[:20]
}
