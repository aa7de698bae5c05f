package service

import (
	"context"
	"fmt"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/fees"
	"dilsedaan-backend/internal/logger"
	"dilsedaan-backend/internal/repository"

	"github.com/google/uuid"
)

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	campaignRepo   repository.CampaignRepository
	userRepo       repository.UserRepository
	ledger         LedgerService
	emailSvc       EmailService
	adminEmail     string
	adminIDs       map[int64]bool
}

func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	ledger LedgerService,
	emailSvc EmailService,
	adminEmail string,
	adminIDs []int64,
) WithdrawalService {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		campaignRepo:   campaignRepo,
		userRepo:       userRepo,
		ledger:         ledger,
		emailSvc:       emailSvc,
		adminEmail:     adminEmail,
		adminIDs:       admins,
	}
}

func (s *withdrawalService) Create(ctx context.Context, campaignID, requesterID int64, input *domain.CreateWithdrawalInput) (*domain.WithdrawalRequest, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsActive() {
		return nil, fmt.Errorf("%w: campaign is not active", domain.ErrInvalidState)
	}
	if campaign.CreatorID != requesterID && !s.adminIDs[requesterID] {
		return nil, fmt.Errorf("%w: only the campaign owner or an admin may request withdrawals", domain.ErrForbidden)
	}

	available, err := s.ledger.AvailableBalance(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if input.Amount > available {
		return nil, fmt.Errorf("%w: requested %.2f, available %.2f", domain.ErrInsufficientFunds, input.Amount, available)
	}

	breakdown := fees.CalculateWithdrawalFees(input.Amount)

	w := &domain.WithdrawalRequest{
		Reference:     "WDR-" + uuid.NewString(),
		CampaignID:    campaignID,
		RequestedBy:   requesterID,
		Amount:        input.Amount,
		Purpose:       input.Purpose,
		BankAccount:   input.BankAccount,
		Documents:     input.Documents,
		MilestoneID:   input.MilestoneID,
		ProcessingFee: breakdown.ProcessingFee,
		GSTAmount:     breakdown.GSTAmount,
		NetAmount:     breakdown.NetAmount,
		Status:        domain.WithdrawalStatusPending,
		Priority:      input.Priority,
		Category:      input.Category,
	}
	if w.Priority == "" {
		w.Priority = domain.WithdrawalPriorityMedium
	}
	if w.Category == "" {
		w.Category = domain.WithdrawalCategoryOperational
	}

	if err := s.withdrawalRepo.Create(ctx, w); err != nil {
		return nil, err
	}

	s.notify(func() error {
		return s.emailSvc.SendWithdrawalSubmitted(ctx, s.adminEmail, w.Reference, w.Amount, campaign.Title)
	})
	return w, nil
}

func (s *withdrawalService) Get(ctx context.Context, requesterID, id int64) (*domain.WithdrawalRequest, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.RequestedBy != requesterID && !s.adminIDs[requesterID] {
		return nil, domain.ErrForbidden
	}
	return w, nil
}

func (s *withdrawalService) Update(ctx context.Context, requesterID, id int64, input *domain.UpdateWithdrawalInput) (*domain.WithdrawalRequest, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.RequestedBy != requesterID && !s.adminIDs[requesterID] {
		return nil, domain.ErrForbidden
	}
	if !w.IsMutable() {
		return nil, fmt.Errorf("%w: only pending requests can be updated", domain.ErrInvalidState)
	}

	if input.Amount != nil && *input.Amount != w.Amount {
		available, err := s.ledger.AvailableBalance(ctx, w.CampaignID)
		if err != nil {
			return nil, err
		}
		if *input.Amount > available {
			return nil, fmt.Errorf("%w: requested %.2f, available %.2f", domain.ErrInsufficientFunds, *input.Amount, available)
		}
		w.Amount = *input.Amount
		// Amount changed, fees must follow.
		breakdown := fees.CalculateWithdrawalFees(w.Amount)
		w.ProcessingFee = breakdown.ProcessingFee
		w.GSTAmount = breakdown.GSTAmount
		w.NetAmount = breakdown.NetAmount
	}
	if input.Purpose != nil {
		w.Purpose = *input.Purpose
	}
	if input.BankAccount != nil {
		w.BankAccount = *input.BankAccount
	}
	if input.Documents != nil {
		w.Documents = input.Documents
	}
	if input.Priority != nil {
		w.Priority = *input.Priority
	}

	if err := s.withdrawalRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Approve transitions pending -> approved. The balance recheck and the
// status flip happen in one conditional update at the storage layer; a
// balance that shrank since creation fails the approval here.
func (s *withdrawalService) Approve(ctx context.Context, id, approverID int64, notes string) (*domain.WithdrawalRequest, error) {
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, fmt.Errorf("%w: request is %s, not pending", domain.ErrInvalidState, w.Status)
	}

	ok, err := s.withdrawalRepo.ApproveIfBalanceSufficient(ctx, id, approverID, notes, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Zero rows means either a concurrent transition or a drained
		// balance. Re-read to tell them apart.
		current, rerr := s.withdrawalRepo.GetByID(ctx, id)
		if rerr != nil {
			return nil, rerr
		}
		if current.Status != domain.WithdrawalStatusPending {
			return nil, fmt.Errorf("%w: request is %s, not pending", domain.ErrInvalidState, current.Status)
		}
		return nil, fmt.Errorf("%w: campaign balance no longer covers %.2f", domain.ErrInsufficientFunds, w.Amount)
	}

	w, err = s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyRequester(ctx, w.RequestedBy, func(email string) error {
		return s.emailSvc.SendWithdrawalApproved(ctx, email, w.Reference, w.NetAmount)
	})
	return w, nil
}

func (s *withdrawalService) Reject(ctx context.Context, id, approverID int64, reason string) (*domain.WithdrawalRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrValidation)
	}
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, fmt.Errorf("%w: request is %s, not pending", domain.ErrInvalidState, w.Status)
	}

	w.Status = domain.WithdrawalStatusRejected
	w.RejectionReason = reason
	if err := s.withdrawalRepo.Update(ctx, w); err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, w.RequestedBy, func(email string) error {
		return s.emailSvc.SendWithdrawalRejected(ctx, email, w.Reference, reason)
	})
	return w, nil
}

func (s *withdrawalService) Process(ctx context.Context, id int64, transactionID string, processorID int64) (*domain.WithdrawalRequest, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", domain.ErrValidation)
	}
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusApproved {
		return nil, fmt.Errorf("%w: request is %s, not approved", domain.ErrInvalidState, w.Status)
	}

	now := time.Now()
	w.Status = domain.WithdrawalStatusProcessed
	w.TransactionID = transactionID
	w.ProcessedBy = &processorID
	w.ProcessedAt = &now
	if err := s.withdrawalRepo.Update(ctx, w); err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, w.RequestedBy, func(email string) error {
		return s.emailSvc.SendWithdrawalProcessed(ctx, email, w.Reference, transactionID, w.NetAmount)
	})
	return w, nil
}

// Fail marks an approved request whose funds transfer could not be
// completed. Only approved requests can fail; pending ones are rejected
// and processed ones are immutable.
func (s *withdrawalService) Fail(ctx context.Context, id int64, reason string) (*domain.WithdrawalRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: failure reason is required", domain.ErrValidation)
	}
	w, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalStatusApproved {
		return nil, fmt.Errorf("%w: request is %s, not approved", domain.ErrInvalidState, w.Status)
	}

	w.Status = domain.WithdrawalStatusFailed
	w.FailureReason = reason
	if err := s.withdrawalRepo.Update(ctx, w); err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, w.RequestedBy, func(email string) error {
		return s.emailSvc.SendWithdrawalFailed(ctx, email, w.Reference, reason)
	})
	return w, nil
}

// BulkApprove never aborts the batch: each id is approved independently
// and reported with its own outcome.
func (s *withdrawalService) BulkApprove(ctx context.Context, ids []int64, approverID int64, notes string) []BulkApprovalResult {
	results := make([]BulkApprovalResult, 0, len(ids))
	for _, id := range ids {
		_, err := s.Approve(ctx, id, approverID, notes)
		result := BulkApprovalResult{ID: id, Approved: err == nil}
		if err != nil {
			result.Error = err.Error()
			logger.Warn("Bulk approval item failed", "withdrawal_id", id, "error", err)
		}
		results = append(results, result)
	}
	return results
}

func (s *withdrawalService) AvailableBalance(ctx context.Context, campaignID int64) (float64, error) {
	return s.ledger.AvailableBalance(ctx, campaignID)
}

func (s *withdrawalService) ListByCampaign(ctx context.Context, campaignID int64, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	return s.withdrawalRepo.ListByCampaign(ctx, campaignID, status, page, pageSize)
}

func (s *withdrawalService) ListByRequester(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	return s.withdrawalRepo.ListByRequester(ctx, userID, page, pageSize)
}

func (s *withdrawalService) ListUrgent(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	return s.withdrawalRepo.ListUrgent(ctx)
}

func (s *withdrawalService) Stats(ctx context.Context) (*domain.WithdrawalStats, error) {
	return s.withdrawalRepo.Stats(ctx)
}

func (s *withdrawalService) notifyRequester(ctx context.Context, userID int64, send func(email string) error) {
	email, err := s.userRepo.GetEmail(ctx, userID)
	if err != nil {
		logger.Warn("Could not resolve requester email", "user_id", userID, "error", err)
		return
	}
	s.notify(func() error { return send(email) })
}

func (s *withdrawalService) notify(send func() error) {
	if err := send(); err != nil {
		logger.Warn("Failed to send withdrawal notification", "error", err)
	}
}
