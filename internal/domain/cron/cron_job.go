package cron

import (
	"context"
	"sync"
	"time"

	"github.com/koinonia-app/backend/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)

	// RunNow reports whether the job wants an immediate run at startup
	// before settling into its schedule.
	RunNow() bool

	// Next returns the time of the next scheduled run.
	Next() time.Time
}

type CronJobManager struct {
	mutex   sync.Mutex
	wait    sync.WaitGroup
	stopped bool
	jobs    []CronJob
	timers  map[CronJob]*time.Timer
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{timers: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.jobs = append(m.jobs, job)
}

// Start runs every registered job on its own schedule and blocks until
// Cancel is called.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started with %d jobs", len(m.jobs))

	for _, job := range m.jobs {
		m.wait.Add(1)
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}

	m.stopped = true
	for job, timer := range m.timers {
		if timer.Stop() {
			xcontext.Logger(ctx).Infof("Cancelled %T", job)
		}
	}

	for range m.jobs {
		m.wait.Done()
	}
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	xcontext.Logger(ctx).Infof("%T is running...", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Infof("%T ok", job)

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}

	m.timers[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
}
