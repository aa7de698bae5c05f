package postgres

import (
	"context"
	"database/sql"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/repository"
)

type donationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) repository.DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	query := `INSERT INTO donations (donor_id, campaign_id, recurring_donation_id, amount,
	            payment_method, transaction_id, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.DonorID, d.CampaignID, d.RecurringDonationID,
		d.Amount, d.PaymentMethod, d.TransactionID, d.Status, time.Now()).Scan(&d.ID)
}

func (r *donationRepository) SumCompletedByCampaign(ctx context.Context, campaignID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM donations WHERE campaign_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, campaignID, domain.DonationStatusCompleted).Scan(&total)
	return total, err
}
