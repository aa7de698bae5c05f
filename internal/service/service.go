package service

import (
	"context"
	"time"

	"dilsedaan-backend/internal/domain"
)

type RecurringDonationService interface {
	Create(ctx context.Context, donorID, campaignID int64, input *domain.CreateRecurringDonationInput) (*domain.RecurringDonation, error)
	Get(ctx context.Context, donorID, id int64) (*domain.RecurringDonation, error)
	ListByDonor(ctx context.Context, donorID int64, page, pageSize int32) ([]domain.RecurringDonation, int32, error)
	Update(ctx context.Context, donorID, id int64, input *domain.UpdateRecurringDonationInput) (*domain.RecurringDonation, error)
	Pause(ctx context.Context, donorID, id int64, reason string) (*domain.RecurringDonation, error)
	Resume(ctx context.Context, donorID, id int64) (*domain.RecurringDonation, error)
	Cancel(ctx context.Context, donorID, id int64, reason string) (*domain.RecurringDonation, error)

	// ProcessDue is the scheduler entry point: it charges every active
	// subscription whose payment date has arrived. Per-item failures are
	// logged and counted, never propagated.
	ProcessDue(ctx context.Context) (*ProcessSummary, error)

	Stats(ctx context.Context) (*domain.RecurringDonationStats, error)
}

// ProcessSummary reports the outcome of one batch run.
type ProcessSummary struct {
	Due       int `json:"due"`
	Charged   int `json:"charged"`
	Failed    int `json:"failed"`
	Completed int `json:"completed"`
	Paused    int `json:"paused"`
	Skipped   int `json:"skipped"`
}

type WithdrawalService interface {
	Create(ctx context.Context, campaignID, requesterID int64, input *domain.CreateWithdrawalInput) (*domain.WithdrawalRequest, error)
	Get(ctx context.Context, requesterID, id int64) (*domain.WithdrawalRequest, error)
	Update(ctx context.Context, requesterID, id int64, input *domain.UpdateWithdrawalInput) (*domain.WithdrawalRequest, error)
	Approve(ctx context.Context, id, approverID int64, notes string) (*domain.WithdrawalRequest, error)
	Reject(ctx context.Context, id, approverID int64, reason string) (*domain.WithdrawalRequest, error)
	Process(ctx context.Context, id int64, transactionID string, processorID int64) (*domain.WithdrawalRequest, error)
	Fail(ctx context.Context, id int64, reason string) (*domain.WithdrawalRequest, error)

	// BulkApprove applies Approve to each id independently. One id's
	// failure never aborts the rest; each outcome is reported.
	BulkApprove(ctx context.Context, ids []int64, approverID int64, notes string) []BulkApprovalResult

	AvailableBalance(ctx context.Context, campaignID int64) (float64, error)
	ListByCampaign(ctx context.Context, campaignID int64, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	ListByRequester(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	ListUrgent(ctx context.Context) ([]domain.WithdrawalRequest, error)
	Stats(ctx context.Context) (*domain.WithdrawalStats, error)
}

// BulkApprovalResult is the per-id outcome of a bulk approval.
type BulkApprovalResult struct {
	ID       int64  `json:"id"`
	Approved bool   `json:"approved"`
	Error    string `json:"error,omitempty"`
}

type LedgerService interface {
	// AvailableBalance is completed donations minus approved-or-processed
	// withdrawals for the campaign, recomputed on every call.
	AvailableBalance(ctx context.Context, campaignID int64) (float64, error)
}

// PaymentService is the opaque charge capability. Any non-success result
// is a retryable failure to the recurring engine.
type PaymentService interface {
	Charge(ctx context.Context, donorID int64, amount float64, paymentMethod string) (*ChargeResult, error)
}

// ChargeResult is the gateway's definitive answer for one charge attempt.
type ChargeResult struct {
	Success       bool
	TransactionID string
	Error         string
}

// EmailService sends the platform's notification emails. Every send is
// best effort: callers log failures and never let them block a state
// transition.
type EmailService interface {
	SendRecurringDonationCreated(ctx context.Context, donorEmail string, amount float64, frequency domain.Frequency, campaignTitle string, nextPayment time.Time) error
	SendRecurringChargeSucceeded(ctx context.Context, donorEmail string, amount float64, campaignTitle string, occurrence int, nextPayment time.Time) error
	SendRecurringDonationPaused(ctx context.Context, donorEmail string, campaignTitle, reason string) error

	SendWithdrawalSubmitted(ctx context.Context, adminEmail, reference string, amount float64, campaignTitle string) error
	SendWithdrawalApproved(ctx context.Context, requesterEmail, reference string, netAmount float64) error
	SendWithdrawalRejected(ctx context.Context, requesterEmail, reference, reason string) error
	SendWithdrawalProcessed(ctx context.Context, requesterEmail, reference, transactionID string, netAmount float64) error
	SendWithdrawalFailed(ctx context.Context, requesterEmail, reference, reason string) error
	SendUrgentWithdrawalDigest(ctx context.Context, adminEmail string, references []string) error
}
