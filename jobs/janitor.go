package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"stayvia/drafts"
	"stayvia/metrics"
	"stayvia/ratelim"
)

// VisitorIdle is how long a client may stay quiet before its rate-limit
// bucket is dropped.
const VisitorIdle = 10 * time.Minute

// Janitor drops expired in-memory drafts and idle rate-limit buckets.
// Either may be nil.
type Janitor struct {
	Drafts  *drafts.MemoryStore
	Limiter *ratelim.RateLimiter
}

// Sweep runs one pass and reports what it removed.
func (j Janitor) Sweep(now time.Time) (draftsSwept, visitorsSwept int) {
	if j.Drafts != nil {
		draftsSwept = j.Drafts.Sweep(now)
		metrics.DraftsSwept.Add(float64(draftsSwept))
	}
	if j.Limiter != nil {
		visitorsSwept = j.Limiter.Sweep(VisitorIdle)
	}
	return draftsSwept, visitorsSwept
}

// Start schedules Sweep every interval. Call Shutdown on the returned
// scheduler to stop it.
func (j Janitor) Start(every time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			d, v := j.Sweep(time.Now())
			if d > 0 || v > 0 {
				logrus.WithFields(logrus.Fields{"drafts": d, "visitors": v}).Debug("janitor sweep")
			}
		}),
		gocron.WithName("janitor"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule janitor: %w", err)
	}
	sched.Start()
	return sched, nil
}
