package jobs

import (
	"context"

	"equipbook-backend/internal/logger"
)

// MarkOverdueFines promotes unresolved fines past their due date to OVERDUE
// and refreshes the affected account standings. Account holds derived from
// the sweep take effect on the next admission attempt.
func (jr *JobRunner) MarkOverdueFines() {
	jr.runWithRecovery("MarkOverdueFines", func() {
		count, err := jr.ledgerSvc.MarkOverdueFines(context.Background())
		if err != nil {
			logger.Error("Failed to mark overdue fines", "error", err)
			return
		}
		logger.Info("Marked fines as overdue", "count", count)
	})
}
