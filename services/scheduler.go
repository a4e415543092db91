// services/scheduler.go
package services

import (
	"log"
	"time"

	"student-rewards-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartActivationScheduler activates trivias whose date has arrived and
// deactivates ones whose day has passed. Runs every minute.
func (s *TriviaService) StartActivationScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			tomorrow := today.AddDate(0, 0, 1)

			res := s.DB.Model(&models.Trivia{}).
				Where("active = ? AND date >= ? AND date < ?", false, today, tomorrow).
				Update("active", true)
			if res.Error != nil {
				log.Printf("[Scheduler] DB error activating trivias: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("✅ Auto-activated %d trivia(s)", res.RowsAffected)
			}

			res = s.DB.Model(&models.Trivia{}).
				Where("active = ? AND date < ?", true, today).
				Update("active", false)
			if res.Error != nil {
				log.Printf("[Scheduler] DB error deactivating trivias: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("✅ Deactivated %d expired trivia(s)", res.RowsAffected)
			}
		}),
	)
}
