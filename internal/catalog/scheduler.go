package catalog

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStatusSweep runs SweepStatuses every interval until the returned
// scheduler is shut down.
func (c *Catalog) StartStatusSweep(interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := c.SweepStatuses(); n > 0 {
				c.logger.Printf("catalog: status sweep updated %d screening(s)", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("ticket-status-sweep"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule status sweep: %w", err)
	}

	s.Start()
	c.logger.Printf("catalog: status sweep every %s", interval)
	return s, nil
}
