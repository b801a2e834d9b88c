// services/scheduler.go
package services

import (
	"time"

	"arcticcare-api/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// StartArchiveScheduler periodically moves long-resolved issues to archived.
func (s *IssueService) StartArchiveScheduler(afterDays, intervalMinutes int) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(time.Duration(intervalMinutes)*time.Minute),
		gocron.NewTask(func() {
			archived, err := s.ArchiveResolved(afterDays, time.Now())
			if err != nil {
				logger.Errorf("[Scheduler] archive pass failed: %v", err)
				return
			}
			if archived > 0 {
				logger.Infof("[Scheduler] archived %d resolved issue(s)", archived)
			}
		}),
	)
}
