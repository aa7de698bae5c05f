package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/repository"
)

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

const withdrawalColumns = `id, reference, campaign_id, requested_by, amount, purpose,
	account_number, ifsc_code, account_holder_name, bank_name, documents, milestone_id,
	processing_fee, gst_amount, net_amount, status, priority, category,
	approved_by, approved_at, approval_notes, rejection_reason,
	transaction_id, processed_by, processed_at, failure_reason, created_on, updated_on`

func scanWithdrawal(row interface{ Scan(...any) error }) (*domain.WithdrawalRequest, error) {
	w := &domain.WithdrawalRequest{}
	var documents []byte
	var approvalNotes, rejectionReason, transactionID, failureReason sql.NullString
	err := row.Scan(&w.ID, &w.Reference, &w.CampaignID, &w.RequestedBy, &w.Amount, &w.Purpose,
		&w.BankAccount.AccountNumber, &w.BankAccount.IFSCCode, &w.BankAccount.AccountHolderName,
		&w.BankAccount.BankName, &documents, &w.MilestoneID,
		&w.ProcessingFee, &w.GSTAmount, &w.NetAmount, &w.Status, &w.Priority, &w.Category,
		&w.ApprovedBy, &w.ApprovedAt, &approvalNotes, &rejectionReason,
		&transactionID, &w.ProcessedBy, &w.ProcessedAt, &failureReason, &w.CreatedOn, &w.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if len(documents) > 0 {
		if err := json.Unmarshal(documents, &w.Documents); err != nil {
			return nil, fmt.Errorf("failed to decode documents: %w", err)
		}
	}
	w.ApprovalNotes = approvalNotes.String
	w.RejectionReason = rejectionReason.String
	w.TransactionID = transactionID.String
	w.FailureReason = failureReason.String
	return w, nil
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	documents, err := json.Marshal(w.Documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	query := `INSERT INTO withdrawal_requests (reference, campaign_id, requested_by, amount, purpose,
	            account_number, ifsc_code, account_holder_name, bank_name, documents, milestone_id,
	            processing_fee, gst_amount, net_amount, status, priority, category, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, w.Reference, w.CampaignID, w.RequestedBy, w.Amount, w.Purpose,
		w.BankAccount.AccountNumber, w.BankAccount.IFSCCode, w.BankAccount.AccountHolderName,
		w.BankAccount.BankName, documents, w.MilestoneID,
		w.ProcessingFee, w.GSTAmount, w.NetAmount, w.Status, w.Priority, w.Category, now, now).Scan(&w.ID)
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	w, err := scanWithdrawal(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return w, err
}

func (r *withdrawalRepository) Update(ctx context.Context, w *domain.WithdrawalRequest) error {
	documents, err := json.Marshal(w.Documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}
	query := `UPDATE withdrawal_requests
	          SET amount=$1, purpose=$2, account_number=$3, ifsc_code=$4, account_holder_name=$5,
	              bank_name=$6, documents=$7, processing_fee=$8, gst_amount=$9, net_amount=$10,
	              status=$11, priority=$12, approved_by=$13, approved_at=$14, approval_notes=$15,
	              rejection_reason=$16, transaction_id=$17, processed_by=$18, processed_at=$19,
	              failure_reason=$20, updated_on=$21
	          WHERE id=$22`
	_, err = r.db.ExecContext(ctx, query, w.Amount, w.Purpose, w.BankAccount.AccountNumber,
		w.BankAccount.IFSCCode, w.BankAccount.AccountHolderName, w.BankAccount.BankName, documents,
		w.ProcessingFee, w.GSTAmount, w.NetAmount, w.Status, w.Priority, w.ApprovedBy, w.ApprovedAt,
		nullString(w.ApprovalNotes), nullString(w.RejectionReason), nullString(w.TransactionID),
		w.ProcessedBy, w.ProcessedAt, nullString(w.FailureReason), time.Now(), w.ID)
	return err
}

// ApproveIfBalanceSufficient recomputes the campaign's available balance
// inside the UPDATE's WHERE clause so the balance check and the status
// transition commit atomically. A concurrent approval that drains the
// balance makes this statement affect zero rows.
func (r *withdrawalRepository) ApproveIfBalanceSufficient(ctx context.Context, id, approverID int64, notes string, at time.Time) (bool, error) {
	query := `UPDATE withdrawal_requests w
	          SET status=$3, approved_by=$2, approved_at=$4, approval_notes=$5, updated_on=$4
	          WHERE w.id=$1 AND w.status=$6
	            AND w.amount <= (
	              COALESCE((SELECT SUM(d.amount) FROM donations d
	                        WHERE d.campaign_id = w.campaign_id AND d.status = $7), 0)
	              - COALESCE((SELECT SUM(o.amount) FROM withdrawal_requests o
	                          WHERE o.campaign_id = w.campaign_id
	                            AND o.status IN ($3, $8) AND o.id <> w.id), 0)
	            )`
	res, err := r.db.ExecContext(ctx, query, id, approverID,
		domain.WithdrawalStatusApproved, at, nullString(notes),
		domain.WithdrawalStatusPending, domain.DonationStatusCompleted,
		domain.WithdrawalStatusProcessed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *withdrawalRepository) ListByCampaign(ctx context.Context, campaignID int64, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE campaign_id = $1`
	args := []any{campaignID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)
	return r.queryList(ctx, query, args, count)
}

func (r *withdrawalRepository) ListByRequester(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM withdrawal_requests WHERE requested_by = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
	          WHERE requested_by = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	return r.queryList(ctx, query, []any{userID, pageSize, offset}, count)
}

func (r *withdrawalRepository) ListUrgent(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
	          WHERE status = $1 AND priority = $2 ORDER BY created_on ASC`
	list, _, err := r.queryList(ctx, query,
		[]any{domain.WithdrawalStatusPending, domain.WithdrawalPriorityUrgent}, 0)
	return list, err
}

func (r *withdrawalRepository) SumApprovedOrProcessed(ctx context.Context, campaignID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM withdrawal_requests
	          WHERE campaign_id = $1 AND status IN ($2, $3)`
	err := r.db.QueryRowContext(ctx, query, campaignID,
		domain.WithdrawalStatusApproved, domain.WithdrawalStatusProcessed).Scan(&total)
	return total, err
}

func (r *withdrawalRepository) Stats(ctx context.Context) (*domain.WithdrawalStats, error) {
	stats := &domain.WithdrawalStats{
		CountByStatus: make(map[domain.WithdrawalStatus]int64),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM withdrawal_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.WithdrawalStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.CountByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query := `SELECT
	            COALESCE(SUM(amount), 0),
	            COALESCE(SUM(amount) FILTER (WHERE status = $1), 0),
	            COALESCE(SUM(processing_fee + gst_amount), 0),
	            COALESCE(AVG(EXTRACT(EPOCH FROM (approved_at - created_on)) / 86400)
	                     FILTER (WHERE approved_at IS NOT NULL), 0)
	          FROM withdrawal_requests`
	err = r.db.QueryRowContext(ctx, query, domain.WithdrawalStatusProcessed).
		Scan(&stats.TotalRequested, &stats.TotalProcessed, &stats.TotalFees, &stats.AvgApprovalTimeDays)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *withdrawalRepository) queryList(ctx context.Context, query string, args []any, count int32) ([]domain.WithdrawalRequest, int32, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *w)
	}
	return list, count, rows.Err()
}
