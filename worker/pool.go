package worker

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is a unit of work submitted to the pool. Failures are the job's own
// business: the pool logs them and moves on, it never retries or aborts the
// batch.
type Job interface {
	Execute() error
	ID() string
}

// Pool runs submitted jobs across a fixed number of workers. It exists for
// best-effort batches (sync pushes) where per-job failures must not stall
// the rest.
type Pool struct {
	workers int
	jobs    chan Job
	pending sync.WaitGroup
	done    sync.WaitGroup
	log     *logrus.Logger
}

// NewPool creates a Pool with the given worker count and queue size.
func NewPool(workers, queueSize int, log *logrus.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, queueSize),
		log:     log,
	}
}

// Run starts the workers. Call once before submitting.
func (p *Pool) Run() {
	for i := 1; i <= p.workers; i++ {
		p.done.Add(1)
		go p.work(i)
	}
}

func (p *Pool) work(id int) {
	defer p.done.Done()
	for job := range p.jobs {
		if err := job.Execute(); err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{
				"worker": id,
				"job":    job.ID(),
			}).Error("Job failed")
		} else {
			p.log.WithFields(logrus.Fields{
				"worker": id,
				"job":    job.ID(),
			}).Debug("Job finished")
		}
		p.pending.Done()
	}
}

// Submit queues a job. It blocks when the queue is full.
func (p *Pool) Submit(job Job) {
	p.pending.Add(1)
	p.jobs <- job
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Stop closes the queue and waits for the workers to drain and exit.
func (p *Pool) Stop() {
	close(p.jobs)
	p.done.Wait()
}
