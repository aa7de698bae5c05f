package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/repository"
)

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) repository.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	query := `SELECT id, title, creator_id, status, target_amount, raised_amount,
	            is_emergency, is_verified_ngo, created_on
	          FROM campaigns WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.CreatorID, &c.Status,
		&c.TargetAmount, &c.RaisedAmount, &c.IsEmergency, &c.IsVerifiedNGO, &c.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// IncrementRaisedAmount adds at the storage layer so concurrent donations
// never lose updates to a read-modify-write cycle.
func (r *campaignRepository) IncrementRaisedAmount(ctx context.Context, id int64, amount float64) error {
	query := `UPDATE campaigns SET raised_amount = raised_amount + $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, amount, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
