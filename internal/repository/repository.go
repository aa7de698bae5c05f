package repository

import (
	"context"
	"time"

	"dilsedaan-backend/internal/domain"
)

type RecurringDonationRepository interface {
	Create(ctx context.Context, rd *domain.RecurringDonation) error
	GetByID(ctx context.Context, id int64) (*domain.RecurringDonation, error)
	Update(ctx context.Context, rd *domain.RecurringDonation) error

	// UpdateIfStatus persists rd only if the stored row still carries the
	// expected status. Returns false when another worker transitioned the
	// record first; the caller must re-read and decide.
	UpdateIfStatus(ctx context.Context, rd *domain.RecurringDonation, expected domain.RecurringStatus) (bool, error)

	// ListDue returns active subscriptions whose next payment date is at or
	// before now.
	ListDue(ctx context.Context, now time.Time) ([]domain.RecurringDonation, error)

	ListByDonor(ctx context.Context, donorID int64, page, pageSize int32) ([]domain.RecurringDonation, int32, error)
	Stats(ctx context.Context) (*domain.RecurringDonationStats, error)
}

type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error)
	Update(ctx context.Context, w *domain.WithdrawalRequest) error

	// ApproveIfBalanceSufficient transitions a pending request to approved
	// in one conditional update that recomputes the campaign's available
	// balance inside the WHERE clause, closing the check-then-act race.
	// Returns false when the row was not pending or the balance no longer
	// covers the amount.
	ApproveIfBalanceSufficient(ctx context.Context, id, approverID int64, notes string, at time.Time) (bool, error)

	ListByCampaign(ctx context.Context, campaignID int64, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	ListByRequester(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)

	// ListUrgent returns pending requests with urgent priority, oldest first.
	ListUrgent(ctx context.Context) ([]domain.WithdrawalRequest, error)

	// SumApprovedOrProcessed returns the total amount already committed
	// against a campaign's balance.
	SumApprovedOrProcessed(ctx context.Context, campaignID int64) (float64, error)

	Stats(ctx context.Context) (*domain.WithdrawalStats, error)
}

type DonationRepository interface {
	Create(ctx context.Context, d *domain.Donation) error
	SumCompletedByCampaign(ctx context.Context, campaignID int64) (float64, error)
}

type UserRepository interface {
	// GetEmail resolves a user's notification address.
	GetEmail(ctx context.Context, id int64) (string, error)
}

type CampaignRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)

	// IncrementRaisedAmount atomically adds amount to the campaign's raised
	// total at the storage layer. Never read-modify-write in memory.
	IncrementRaisedAmount(ctx context.Context, id int64, amount float64) error
}
