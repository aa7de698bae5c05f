package domain

import "time"

type RecurringStatus string

const (
	RecurringStatusActive    RecurringStatus = "ACTIVE"
	RecurringStatusPaused    RecurringStatus = "PAUSED"
	RecurringStatusCancelled RecurringStatus = "CANCELLED"
	RecurringStatusCompleted RecurringStatus = "COMPLETED"
)

type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// Subscription amount bounds in rupees.
const (
	MinRecurringAmount = 10
	MaxRecurringAmount = 100000
	MaxOccurrencesCap  = 120
)

// MaxFailedAttempts is the number of consecutive charge failures after
// which a subscription is auto-paused.
const MaxFailedAttempts = 3

// RetryDelay is how long after a failed charge the next attempt is scheduled.
const RetryDelay = 48 * time.Hour

// RecurringDonation is a standing instruction to charge a donor a fixed
// amount on a fixed schedule until a cap, end date or cancellation ends it.
// Terminal records (cancelled, completed) are retained for audit and stats.
type RecurringDonation struct {
	ID                int64           `json:"id"`
	DonorID           int64           `json:"donor_id"`
	CampaignID        int64           `json:"campaign_id"`
	Amount            float64         `json:"amount"`
	Frequency         Frequency       `json:"frequency"`
	PaymentMethod     string          `json:"payment_method"`
	Status            RecurringStatus `json:"status"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	MaxOccurrences    *int            `json:"max_occurrences,omitempty"`
	CurrentOccurrence int             `json:"current_occurrence"`
	NextPaymentDate   time.Time       `json:"next_payment_date"`
	TotalPaid         float64         `json:"total_paid"`
	LastPaymentDate   *time.Time      `json:"last_payment_date,omitempty"`
	LastPaymentStatus PaymentStatus   `json:"last_payment_status,omitempty"`
	FailedAttempts    int             `json:"failed_attempts"`
	PauseReason       string          `json:"pause_reason,omitempty"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
	CreatedOn         time.Time       `json:"created_on"`
	UpdatedOn         time.Time       `json:"updated_on"`
}

// AdvanceSchedule returns the payment date one period after from.
// Successful charges advance from the previous scheduled date, not from
// wall-clock now, so a late batch run does not drift the schedule.
func (f Frequency) AdvanceSchedule(from time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// AnnualizedAmount returns the yearly value of the subscription
// (weekly x52, monthly x12, quarterly x4, yearly x1).
func (rd *RecurringDonation) AnnualizedAmount() float64 {
	switch rd.Frequency {
	case FrequencyWeekly:
		return rd.Amount * 52
	case FrequencyMonthly:
		return rd.Amount * 12
	case FrequencyQuarterly:
		return rd.Amount * 4
	case FrequencyYearly:
		return rd.Amount
	default:
		return rd.Amount * 12
	}
}

// CapReached reports whether the subscription has hit its occurrence cap
// or passed its end date and must transition to COMPLETED.
func (rd *RecurringDonation) CapReached(now time.Time) bool {
	if rd.MaxOccurrences != nil && rd.CurrentOccurrence >= *rd.MaxOccurrences {
		return true
	}
	if rd.EndDate != nil && !now.Before(*rd.EndDate) {
		return true
	}
	return false
}

// IsTerminal reports whether the subscription is in a state that permits
// no further transitions.
func (rd *RecurringDonation) IsTerminal() bool {
	return rd.Status == RecurringStatusCancelled || rd.Status == RecurringStatusCompleted
}

// RecurringDonationStats is the read-side aggregation over all
// subscriptions, terminal records included.
type RecurringDonationStats struct {
	CountByStatus         map[RecurringStatus]int64 `json:"count_by_status"`
	ActiveAnnualizedValue float64                   `json:"active_annualized_value"`
	TotalPaid             float64                   `json:"total_paid"`
}
