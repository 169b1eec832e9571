package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
)

const (
	notificationKeep = 20
	interactionKeep  = 10
)

// RetentionWorker prunes rows the API never serves again: read
// notifications past the newest 20 per user and interaction checks past
// the newest 10 per user.
type RetentionWorker struct {
	DB *gorm.DB
}

func NewRetentionWorker(database *gorm.DB) *RetentionWorker {
	return &RetentionWorker{DB: database}
}

// Start runs the prune hourly until the returned scheduler is stopped.
func (w *RetentionWorker) Start() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	scheduler.Every(1).Hour().Do(func() {
		if err := w.Prune(); err != nil {
			log.Printf("Retention prune failed: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Retention worker started")

	return scheduler
}

func (w *RetentionWorker) Prune() error {
	if err := w.pruneNotifications(); err != nil {
		return err
	}

	return w.pruneInteractions()
}

func (w *RetentionWorker) pruneNotifications() error {
	userIDs, err := w.userIDs(&models.Notification{})

	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		var keep []uint

		if err := w.DB.Model(&models.Notification{}).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(notificationKeep).
			Pluck("id", &keep).Error; err != nil {
			return err
		}

		if len(keep) < notificationKeep {
			continue
		}

		if err := w.DB.Unscoped().
			Where("user_id = ? AND is_read = ? AND id NOT IN ?", userID, true, keep).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
	}

	return nil
}

func (w *RetentionWorker) pruneInteractions() error {
	userIDs, err := w.userIDs(&models.Interaction{})

	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		var keep []uint

		if err := w.DB.Model(&models.Interaction{}).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(interactionKeep).
			Pluck("id", &keep).Error; err != nil {
			return err
		}

		if len(keep) < interactionKeep {
			continue
		}

		if err := w.DB.Unscoped().
			Where("user_id = ? AND id NOT IN ?", userID, keep).
			Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
	}

	return nil
}

func (w *RetentionWorker) userIDs(model interface{}) ([]uint, error) {
	var ids []uint

	err := w.DB.Model(model).Distinct("user_id").Pluck("user_id", &ids).Error

	return ids, err
}
