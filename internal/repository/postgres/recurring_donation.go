package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/repository"
)

type recurringDonationRepository struct {
	db *sql.DB
}

func NewRecurringDonationRepository(db *sql.DB) repository.RecurringDonationRepository {
	return &recurringDonationRepository{db: db}
}

const recurringColumns = `id, donor_id, campaign_id, amount, frequency, payment_method, status,
	start_date, end_date, max_occurrences, current_occurrence, next_payment_date,
	total_paid, last_payment_date, last_payment_status, failed_attempts, pause_reason, cancel_reason,
	created_on, updated_on`

func scanRecurring(row interface{ Scan(...any) error }) (*domain.RecurringDonation, error) {
	rd := &domain.RecurringDonation{}
	var lastStatus sql.NullString
	var pauseReason, cancelReason sql.NullString
	err := row.Scan(&rd.ID, &rd.DonorID, &rd.CampaignID, &rd.Amount, &rd.Frequency, &rd.PaymentMethod,
		&rd.Status, &rd.StartDate, &rd.EndDate, &rd.MaxOccurrences, &rd.CurrentOccurrence,
		&rd.NextPaymentDate, &rd.TotalPaid, &rd.LastPaymentDate, &lastStatus, &rd.FailedAttempts,
		&pauseReason, &cancelReason, &rd.CreatedOn, &rd.UpdatedOn)
	if err != nil {
		return nil, err
	}
	rd.LastPaymentStatus = domain.PaymentStatus(lastStatus.String)
	rd.PauseReason = pauseReason.String
	rd.CancelReason = cancelReason.String
	return rd, nil
}

func (r *recurringDonationRepository) Create(ctx context.Context, rd *domain.RecurringDonation) error {
	query := `INSERT INTO recurring_donations (donor_id, campaign_id, amount, frequency, payment_method, status,
	            start_date, end_date, max_occurrences, current_occurrence, next_payment_date,
	            total_paid, failed_attempts, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, rd.DonorID, rd.CampaignID, rd.Amount, rd.Frequency,
		rd.PaymentMethod, rd.Status, rd.StartDate, rd.EndDate, rd.MaxOccurrences,
		rd.CurrentOccurrence, rd.NextPaymentDate, rd.TotalPaid, rd.FailedAttempts, now, now).Scan(&rd.ID)
}

func (r *recurringDonationRepository) GetByID(ctx context.Context, id int64) (*domain.RecurringDonation, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_donations WHERE id = $1`
	rd, err := scanRecurring(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rd, err
}

func (r *recurringDonationRepository) Update(ctx context.Context, rd *domain.RecurringDonation) error {
	query := `UPDATE recurring_donations
	          SET amount=$1, payment_method=$2, status=$3, current_occurrence=$4, next_payment_date=$5,
	              total_paid=$6, last_payment_date=$7, last_payment_status=$8, failed_attempts=$9,
	              pause_reason=$10, cancel_reason=$11, updated_on=$12
	          WHERE id=$13`
	_, err := r.db.ExecContext(ctx, query, rd.Amount, rd.PaymentMethod, rd.Status, rd.CurrentOccurrence,
		rd.NextPaymentDate, rd.TotalPaid, rd.LastPaymentDate, nullString(string(rd.LastPaymentStatus)),
		rd.FailedAttempts, nullString(rd.PauseReason), nullString(rd.CancelReason), time.Now(), rd.ID)
	return err
}

func (r *recurringDonationRepository) UpdateIfStatus(ctx context.Context, rd *domain.RecurringDonation, expected domain.RecurringStatus) (bool, error) {
	query := `UPDATE recurring_donations
	          SET amount=$1, payment_method=$2, status=$3, current_occurrence=$4, next_payment_date=$5,
	              total_paid=$6, last_payment_date=$7, last_payment_status=$8, failed_attempts=$9,
	              pause_reason=$10, cancel_reason=$11, updated_on=$12
	          WHERE id=$13 AND status=$14`
	res, err := r.db.ExecContext(ctx, query, rd.Amount, rd.PaymentMethod, rd.Status, rd.CurrentOccurrence,
		rd.NextPaymentDate, rd.TotalPaid, rd.LastPaymentDate, nullString(string(rd.LastPaymentStatus)),
		rd.FailedAttempts, nullString(rd.PauseReason), nullString(rd.CancelReason), time.Now(), rd.ID, expected)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *recurringDonationRepository) ListDue(ctx context.Context, now time.Time) ([]domain.RecurringDonation, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_donations
	          WHERE status = $1 AND next_payment_date <= $2
	          ORDER BY next_payment_date ASC`
	rows, err := r.db.QueryContext(ctx, query, domain.RecurringStatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []domain.RecurringDonation
	for rows.Next() {
		rd, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		due = append(due, *rd)
	}
	return due, rows.Err()
}

func (r *recurringDonationRepository) ListByDonor(ctx context.Context, donorID int64, page, pageSize int32) ([]domain.RecurringDonation, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM recurring_donations WHERE donor_id = $1`, donorID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recurringColumns + ` FROM recurring_donations
	          WHERE donor_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, donorID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.RecurringDonation
	for rows.Next() {
		rd, err := scanRecurring(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *rd)
	}
	return list, count, rows.Err()
}

func (r *recurringDonationRepository) Stats(ctx context.Context) (*domain.RecurringDonationStats, error) {
	stats := &domain.RecurringDonationStats{
		CountByStatus: make(map[domain.RecurringStatus]int64),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM recurring_donations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.RecurringStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.CountByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Annualized value of active subscriptions: weekly x52, monthly x12,
	// quarterly x4, yearly x1.
	query := `SELECT
	            COALESCE(SUM(CASE frequency
	              WHEN 'WEEKLY' THEN amount * 52
	              WHEN 'MONTHLY' THEN amount * 12
	              WHEN 'QUARTERLY' THEN amount * 4
	              ELSE amount
	            END) FILTER (WHERE status = $1), 0),
	            COALESCE(SUM(total_paid), 0)
	          FROM recurring_donations`
	err = r.db.QueryRowContext(ctx, query, domain.RecurringStatusActive).
		Scan(&stats.ActiveAnnualizedValue, &stats.TotalPaid)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
