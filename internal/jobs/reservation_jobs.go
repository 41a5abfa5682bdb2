package jobs

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
)

// SendOverdueReminders emails the client of every IN_PROGRESS reservation past its
// scheduled return. The reservation itself is left untouched.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		repos := jr.store.Repositories()

		overdue, err := repos.Reservations.ListOverdue(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to list overdue reservations", "error", err)
			return
		}
		jr.metrics.SetOverdue(len(overdue))

		sent := 0
		for i := range overdue {
			r := &overdue[i]
			client, err := repos.Parties.GetByID(ctx, r.ClientID)
			if err != nil {
				logger.Error("Failed to load client for reminder", "reservation_id", r.ID, "client_id", r.ClientID, "error", err)
				continue
			}
			if err := jr.email.SendOverdueReminder(ctx, client, r); err != nil {
				logger.Error("Failed to send overdue reminder", "reservation_id", r.ID, "error", err)
				continue
			}
			sent++
			logger.Debug("Sent overdue reminder",
				"reservation_id", r.ID,
				"client_id", r.ClientID,
				"scheduled_return_at", r.ScheduledReturnAt)
		}

		logger.Info("Overdue reminders processed", "overdue", len(overdue), "sent", sent)
	})
}

// RecordStatusSnapshot publishes the number of reservations per status as a gauge.
func (jr *JobRunner) RecordStatusSnapshot() {
	jr.runWithRecovery("RecordStatusSnapshot", func() {
		counts, err := jr.store.Repositories().Reservations.CountByStatus(context.Background())
		if err != nil {
			logger.Error("Failed to count reservations", "error", err)
			return
		}

		statuses := make([]string, 0, len(domain.AllReservationStatuses))
		byName := make(map[string]int64, len(counts))
		for _, s := range domain.AllReservationStatuses {
			statuses = append(statuses, string(s))
			byName[string(s)] = counts[s]
		}
		jr.metrics.SetReservationCounts(statuses, byName)
		logger.Info("Recorded reservation status snapshot", "counts", byName)
	})
}
