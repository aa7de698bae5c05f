package jobs

import (
	"context"

	"dilsedaan-backend/internal/logger"
)

// ProcessRecurringDonations charges every subscription whose next payment
// date has arrived. Per-item failures are handled inside the engine; this
// job only reports the batch outcome.
func (jr *JobRunner) ProcessRecurringDonations() {
	jr.runWithRecovery("ProcessRecurringDonations", func() {
		ctx := context.Background()

		summary, err := jr.services.Recurring.ProcessDue(ctx)
		if err != nil {
			logger.Error("Failed to run recurring donation batch", "error", err)
			return
		}

		logger.Info("Recurring donation batch finished",
			"due", summary.Due,
			"charged", summary.Charged,
			"failed", summary.Failed,
			"completed", summary.Completed,
			"paused", summary.Paused,
			"skipped", summary.Skipped)
	})
}

// SendUrgentWithdrawalReminders emails the admin pool a digest of pending
// urgent withdrawal requests so they do not sit unreviewed.
func (jr *JobRunner) SendUrgentWithdrawalReminders() {
	jr.runWithRecovery("SendUrgentWithdrawalReminders", func() {
		ctx := context.Background()

		urgent, err := jr.services.Withdrawal.ListUrgent(ctx)
		if err != nil {
			logger.Error("Failed to list urgent withdrawals", "error", err)
			return
		}
		if len(urgent) == 0 {
			logger.Info("No urgent withdrawal requests pending")
			return
		}

		references := make([]string, 0, len(urgent))
		for _, w := range urgent {
			references = append(references, w.Reference)
		}

		if err := jr.services.Email.SendUrgentWithdrawalDigest(ctx, jr.config.Admin.Email, references); err != nil {
			logger.Error("Failed to send urgent withdrawal digest", "error", err)
			return
		}
		logger.Info("Sent urgent withdrawal digest", "count", len(urgent))
	})
}
