package uploads

import (
	"sync"
	"time"
)

// Tracker keeps job snapshots in memory. Finished jobs are pruned after ttl.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]Job
	ttl  time.Duration
	now  func() time.Time
}

func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		jobs: make(map[string]Job),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores a new job.
func (t *Tracker) Put(job Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	t.jobs[job.ID] = job
}

// Update applies fn to the stored job and stamps UpdatedAt.
func (t *Tracker) Update(id string, fn func(*Job)) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return Job{}, false
	}
	fn(&job)
	job.UpdatedAt = t.now().UTC()
	t.jobs[id] = job
	return job, true
}

func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	job, ok := t.jobs[id]
	return job, ok
}

// Len returns the number of tracked jobs.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.jobs)
}

func (t *Tracker) pruneLocked() {
	if t.ttl <= 0 {
		return
	}
	cutoff := t.now().Add(-t.ttl)
	for id, job := range t.jobs {
		if job.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(t.jobs, id)
		}
	}
}
