// workers/ledger_audit_worker.go
package workers

import (
	"context"
	"time"

	"arcticcare-api/models"
	"arcticcare-api/pkg/logger"
	"arcticcare-api/services"

	"gorm.io/gorm"
)

// LedgerAuditor verifies the ledger-sum invariant: every user's cached
// points must equal the sum of their contribution rows. Awards run in one
// transaction so the two should never diverge, but the ledger is the source
// of truth — when a divergence shows up (manual DB edits, partial restores),
// the cache is rewritten from the ledger, never the other way around.
type LedgerAuditor struct {
	DB *gorm.DB
}

func NewLedgerAuditor(db *gorm.DB) *LedgerAuditor {
	return &LedgerAuditor{DB: db}
}

type ledgerDrift struct {
	UserID    string
	Cached    int64
	LedgerSum int64
}

func (a *LedgerAuditor) findDrift() ([]ledgerDrift, error) {
	var drifts []ledgerDrift
	err := a.DB.Raw(`
		SELECT u.id AS user_id, u.points AS cached, COALESCE(SUM(c.points), 0) AS ledger_sum
		FROM users u
		LEFT JOIN contributions c ON c.user_id = u.id
		WHERE u.deleted_at IS NULL
		GROUP BY u.id, u.points
		HAVING u.points <> COALESCE(SUM(c.points), 0)`).Scan(&drifts).Error
	return drifts, err
}

// RunOnce audits every user and repairs drifted caches. Returns how many
// users were repaired.
func (a *LedgerAuditor) RunOnce() (int, error) {
	drifts, err := a.findDrift()
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, d := range drifts {
		logger.Warnf("ledger drift: user=%s cached=%d ledger=%d — rewriting cache from ledger",
			d.UserID, d.Cached, d.LedgerSum)

		err := a.DB.Model(&models.User{}).Where("id = ?", d.UserID).
			Updates(map[string]interface{}{
				"points": d.LedgerSum,
				"level":  services.LevelForPoints(d.LedgerSum),
			}).Error
		if err != nil {
			logger.Errorf("failed to repair user %s: %v", d.UserID, err)
			continue
		}
		repaired++
	}
	return repaired, nil
}

// PollLedgers runs the audit on a fixed interval until the context is done.
func PollLedgers(ctx context.Context, auditor *LedgerAuditor, pollInterval time.Duration) {
	logger.Info("Starting ledger audit worker...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Ledger audit worker stopped.")
			return
		case <-ticker.C:
			repaired, err := auditor.RunOnce()
			if err != nil {
				logger.Errorf("ledger audit pass failed: %v", err)
				continue
			}
			if repaired > 0 {
				logger.Warnf("ledger audit repaired %d user balance(s)", repaired)
			}
		}
	}
}
