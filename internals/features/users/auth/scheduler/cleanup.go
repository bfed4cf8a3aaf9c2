package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"iltizem_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanupScheduler purge les tokens blacklistés expirés.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		// TTL depuis l'env (défaut: 7 jours)
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				ttlDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Purge token_blacklist...")

			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			var expiredTokens []model.TokenBlacklist
			if err := db.
				Where("expired_at < ? AND deleted_at IS NULL", deleteBefore).
				Limit(100).
				Find(&expiredTokens).Error; err != nil {
				log.Printf("[CLEANUP ERROR] Lecture tokens expirés: %v", err)
			} else if len(expiredTokens) > 0 {
				if err := db.Delete(&expiredTokens).Error; err != nil {
					log.Printf("[CLEANUP ERROR] Suppression tokens: %v", err)
				} else {
					log.Printf("[CLEANUP] %d tokens expirés supprimés", len(expiredTokens))
				}
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
