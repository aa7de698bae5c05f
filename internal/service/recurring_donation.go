package service

import (
	"context"
	"fmt"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/logger"
	"dilsedaan-backend/internal/repository"
)

type recurringDonationService struct {
	recurringRepo repository.RecurringDonationRepository
	donationRepo  repository.DonationRepository
	campaignRepo  repository.CampaignRepository
	userRepo      repository.UserRepository
	paymentSvc    PaymentService
	emailSvc      EmailService
}

func NewRecurringDonationService(
	recurringRepo repository.RecurringDonationRepository,
	donationRepo repository.DonationRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	paymentSvc PaymentService,
	emailSvc EmailService,
) RecurringDonationService {
	return &recurringDonationService{
		recurringRepo: recurringRepo,
		donationRepo:  donationRepo,
		campaignRepo:  campaignRepo,
		userRepo:      userRepo,
		paymentSvc:    paymentSvc,
		emailSvc:      emailSvc,
	}
}

func (s *recurringDonationService) Create(ctx context.Context, donorID, campaignID int64, input *domain.CreateRecurringDonationInput) (*domain.RecurringDonation, error) {
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

	// The donor must exist before anything is persisted; a missing donor is
	// a NotFound, not a swallowed notification failure later.
	donorEmail, err := s.userRepo.GetEmail(ctx, donorID)
	if err != nil {
		return nil, err
	}

	rd := &domain.RecurringDonation{
		DonorID:           donorID,
		CampaignID:        campaignID,
		Amount:            input.Amount,
		Frequency:         input.Frequency,
		PaymentMethod:     input.PaymentMethod,
		Status:            domain.RecurringStatusActive,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		MaxOccurrences:    input.MaxOccurrences,
		CurrentOccurrence: 0,
		NextPaymentDate:   input.Frequency.AdvanceSchedule(input.StartDate),
		FailedAttempts:    0,
	}
	if err := s.recurringRepo.Create(ctx, rd); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendRecurringDonationCreated(ctx, donorEmail, rd.Amount, rd.Frequency, campaign.Title, rd.NextPaymentDate); err != nil {
		logger.Warn("Failed to send donor notification", "donor_id", donorID, "error", err)
	}
	return rd, nil
}

func (s *recurringDonationService) Get(ctx context.Context, donorID, id int64) (*domain.RecurringDonation, error) {
	rd, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rd.DonorID != donorID {
		return nil, domain.ErrForbidden
	}
	return rd, nil
}

func (s *recurringDonationService) ListByDonor(ctx context.Context, donorID int64, page, pageSize int32) ([]domain.RecurringDonation, int32, error) {
	return s.recurringRepo.ListByDonor(ctx, donorID, page, pageSize)
}

func (s *recurringDonationService) Update(ctx context.Context, donorID, id int64, input *domain.UpdateRecurringDonationInput) (*domain.RecurringDonation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	rd, err := s.Get(ctx, donorID, id)
	if err != nil {
		return nil, err
	}
	if rd.IsTerminal() {
		return nil, fmt.Errorf("%w: subscription is %s", domain.ErrInvalidState, rd.Status)
	}
	if input.Amount != nil {
		rd.Amount = *input.Amount
	}
	if input.PaymentMethod != nil {
		rd.PaymentMethod = *input.PaymentMethod
	}
	if err := s.recurringRepo.Update(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

func (s *recurringDonationService) Pause(ctx context.Context, donorID, id int64, reason string) (*domain.RecurringDonation, error) {
	rd, err := s.Get(ctx, donorID, id)
	if err != nil {
		return nil, err
	}
	if rd.Status != domain.RecurringStatusActive {
		return nil, fmt.Errorf("%w: only active subscriptions can be paused", domain.ErrInvalidState)
	}
	rd.Status = domain.RecurringStatusPaused
	rd.PauseReason = reason
	if err := s.recurringRepo.Update(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

func (s *recurringDonationService) Resume(ctx context.Context, donorID, id int64) (*domain.RecurringDonation, error) {
	rd, err := s.Get(ctx, donorID, id)
	if err != nil {
		return nil, err
	}
	if rd.Status != domain.RecurringStatusPaused {
		return nil, fmt.Errorf("%w: only paused subscriptions can be resumed", domain.ErrInvalidState)
	}

	campaign, err := s.campaignRepo.GetByID(ctx, rd.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsActive() {
		return nil, fmt.Errorf("%w: campaign is not active", domain.ErrInvalidState)
	}

	rd.Status = domain.RecurringStatusActive
	rd.PauseReason = ""
	rd.FailedAttempts = 0
	// A resumed schedule restarts from now, not from the stale payment
	// date accumulated while paused.
	rd.NextPaymentDate = rd.Frequency.AdvanceSchedule(time.Now())
	if err := s.recurringRepo.Update(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

func (s *recurringDonationService) Cancel(ctx context.Context, donorID, id int64, reason string) (*domain.RecurringDonation, error) {
	rd, err := s.Get(ctx, donorID, id)
	if err != nil {
		return nil, err
	}
	if rd.IsTerminal() {
		return nil, fmt.Errorf("%w: subscription is already %s", domain.ErrInvalidState, rd.Status)
	}
	rd.Status = domain.RecurringStatusCancelled
	rd.CancelReason = reason
	if err := s.recurringRepo.Update(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

// ProcessDue charges every subscription whose payment date has arrived.
// Items are processed independently: one subscription's failure never
// aborts the rest of the batch.
func (s *recurringDonationService) ProcessDue(ctx context.Context) (*ProcessSummary, error) {
	now := time.Now()
	due, err := s.recurringRepo.ListDue(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &ProcessSummary{Due: len(due)}
	for i := range due {
		outcome, err := s.processOne(ctx, &due[i], now)
		if err != nil {
			logger.Error("Failed to process recurring donation",
				"recurring_donation_id", due[i].ID,
				"campaign_id", due[i].CampaignID,
				"error", err)
			summary.Failed++
			continue
		}
		switch outcome {
		case outcomeCharged:
			summary.Charged++
		case outcomeChargeFailed:
			summary.Failed++
		case outcomeCompleted:
			summary.Completed++
		case outcomePaused:
			summary.Paused++
		case outcomeSkipped:
			summary.Skipped++
		}
	}

	logger.Info("Recurring donation batch completed",
		"due", summary.Due,
		"charged", summary.Charged,
		"failed", summary.Failed,
		"completed", summary.Completed,
		"paused", summary.Paused,
		"skipped", summary.Skipped)
	return summary, nil
}

type processOutcome int

const (
	outcomeCharged processOutcome = iota
	outcomeChargeFailed
	outcomeCompleted
	outcomePaused
	outcomeSkipped
)

func (s *recurringDonationService) processOne(ctx context.Context, rd *domain.RecurringDonation, now time.Time) (processOutcome, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, rd.CampaignID)
	if err != nil {
		return 0, err
	}
	if !campaign.IsActive() {
		return s.pauseForReason(ctx, rd, "campaign inactive")
	}

	if rd.CapReached(now) {
		rd.Status = domain.RecurringStatusCompleted
		ok, err := s.recurringRepo.UpdateIfStatus(ctx, rd, domain.RecurringStatusActive)
		if err != nil {
			return 0, err
		}
		if !ok {
			return outcomeSkipped, nil
		}
		return outcomeCompleted, nil
	}

	result, err := s.paymentSvc.Charge(ctx, rd.DonorID, rd.Amount, rd.PaymentMethod)
	if err != nil || !result.Success {
		return s.recordChargeFailure(ctx, rd, now)
	}
	return s.recordChargeSuccess(ctx, rd, campaign, result.TransactionID, now)
}

func (s *recurringDonationService) recordChargeSuccess(ctx context.Context, rd *domain.RecurringDonation, campaign *domain.Campaign, transactionID string, now time.Time) (processOutcome, error) {
	rd.CurrentOccurrence++
	rd.TotalPaid += rd.Amount
	rd.LastPaymentDate = &now
	rd.LastPaymentStatus = domain.PaymentStatusSuccess
	rd.FailedAttempts = 0
	// Advance from the previous scheduled date so a late batch run never
	// shifts the schedule.
	rd.NextPaymentDate = rd.Frequency.AdvanceSchedule(rd.NextPaymentDate)
	if rd.CapReached(now) {
		rd.Status = domain.RecurringStatusCompleted
	}

	// The status guard serializes against a concurrent pause/cancel: if the
	// record moved on, skip the bookkeeping rather than overwrite it.
	ok, err := s.recurringRepo.UpdateIfStatus(ctx, rd, domain.RecurringStatusActive)
	if err != nil {
		return 0, err
	}
	if !ok {
		logger.Warn("Recurring donation changed state during charge, skipping bookkeeping",
			"recurring_donation_id", rd.ID)
		return outcomeSkipped, nil
	}

	donation := &domain.Donation{
		DonorID:             rd.DonorID,
		CampaignID:          rd.CampaignID,
		RecurringDonationID: &rd.ID,
		Amount:              rd.Amount,
		PaymentMethod:       rd.PaymentMethod,
		TransactionID:       transactionID,
		Status:              domain.DonationStatusCompleted,
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return 0, fmt.Errorf("charge succeeded but donation record failed: %w", err)
	}
	if err := s.campaignRepo.IncrementRaisedAmount(ctx, rd.CampaignID, rd.Amount); err != nil {
		return 0, fmt.Errorf("charge succeeded but raised amount update failed: %w", err)
	}

	s.notifyDonor(ctx, rd.DonorID, func(email string) error {
		return s.emailSvc.SendRecurringChargeSucceeded(ctx, email, rd.Amount, campaign.Title, rd.CurrentOccurrence, rd.NextPaymentDate)
	})

	if rd.Status == domain.RecurringStatusCompleted {
		return outcomeCompleted, nil
	}
	return outcomeCharged, nil
}

func (s *recurringDonationService) recordChargeFailure(ctx context.Context, rd *domain.RecurringDonation, now time.Time) (processOutcome, error) {
	rd.FailedAttempts++
	rd.LastPaymentStatus = domain.PaymentStatusFailed

	if rd.FailedAttempts >= domain.MaxFailedAttempts {
		return s.pauseForReason(ctx, rd, fmt.Sprintf("%d consecutive failed charges", rd.FailedAttempts))
	}

	// Transient failure: schedule a retry and stay quiet. The donor only
	// hears about the problem when the subscription is finally paused.
	rd.NextPaymentDate = now.Add(domain.RetryDelay)
	ok, err := s.recurringRepo.UpdateIfStatus(ctx, rd, domain.RecurringStatusActive)
	if err != nil {
		return 0, err
	}
	if !ok {
		return outcomeSkipped, nil
	}
	return outcomeChargeFailed, nil
}

func (s *recurringDonationService) pauseForReason(ctx context.Context, rd *domain.RecurringDonation, reason string) (processOutcome, error) {
	rd.Status = domain.RecurringStatusPaused
	rd.PauseReason = reason
	ok, err := s.recurringRepo.UpdateIfStatus(ctx, rd, domain.RecurringStatusActive)
	if err != nil {
		return 0, err
	}
	if !ok {
		return outcomeSkipped, nil
	}

	campaign, cerr := s.campaignRepo.GetByID(ctx, rd.CampaignID)
	title := ""
	if cerr == nil {
		title = campaign.Title
	}
	s.notifyDonor(ctx, rd.DonorID, func(email string) error {
		return s.emailSvc.SendRecurringDonationPaused(ctx, email, title, reason)
	})
	return outcomePaused, nil
}

func (s *recurringDonationService) Stats(ctx context.Context) (*domain.RecurringDonationStats, error) {
	return s.recurringRepo.Stats(ctx)
}

// notifyDonor resolves the donor's address and sends best effort. Email
// problems are logged and never surfaced to the financial flow.
func (s *recurringDonationService) notifyDonor(ctx context.Context, donorID int64, send func(email string) error) {
	email, err := s.userRepo.GetEmail(ctx, donorID)
	if err != nil {
		logger.Warn("Could not resolve donor email", "donor_id", donorID, "error", err)
		return
	}
	if err := send(email); err != nil {
		logger.Warn("Failed to send donor notification", "donor_id", donorID, "error", err)
	}
}
