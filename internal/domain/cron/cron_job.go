package cron

import (
	"context"
	"sync"
	"time"

	"github.com/abi-lab/backend/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)

	// RunNow reports whether the job runs once right after the manager starts
	// instead of waiting for Next.
	RunNow() bool
	Next() time.Time
}

// CronJobManager runs every registered job in its own goroutine. A job never
// overlaps with itself, the next round is scheduled after the current one
// finished.
type CronJobManager struct {
	mutex sync.Mutex
	jobs  []CronJob

	wait     sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{stop: make(chan struct{})}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs = append(m.jobs, job)
}

// Start blocks until Cancel is called or ctx is done, and all running rounds
// have returned.
func (m *CronJobManager) Start(ctx context.Context) {
	m.mutex.Lock()
	jobs := append([]CronJob{}, m.jobs...)
	m.mutex.Unlock()

	xcontext.Logger(ctx).Infof("Cron job manager started with %d jobs", len(jobs))

	m.wait.Add(len(jobs))
	for _, job := range jobs {
		go m.loop(ctx, job)
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

// Cancel stops scheduling new rounds. It is safe to call more than once and
// before Start.
func (m *CronJobManager) Cancel(ctx context.Context) {
	m.stopOnce.Do(func() {
		xcontext.Logger(ctx).Infof("Cron job manager is stopping")
		close(m.stop)
	})
}

func (m *CronJobManager) loop(ctx context.Context, job CronJob) {
	defer m.wait.Done()

	if job.RunNow() && !m.stopped(ctx) {
		m.run(ctx, job)
	}

	for {
		timer := time.NewTimer(time.Until(job.Next()))
		select {
		case <-m.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			m.run(ctx, job)
		}
	}
}

func (m *CronJobManager) stopped(ctx context.Context) bool {
	select {
	case <-m.stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	start := time.Now()
	xcontext.Logger(ctx).Debugf("%T is running", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Infof("%T finished in %s", job, time.Since(start))
}
