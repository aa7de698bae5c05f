package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type recurringFixture struct {
	recurringRepo *MockRecurringDonationRepo
	donationRepo  *MockDonationRepo
	campaignRepo  *MockCampaignRepo
	userRepo      *MockUserRepo
	paymentSvc    *MockPaymentService
	emailSvc      *MockEmailService
	svc           service.RecurringDonationService
}

func newRecurringFixture() *recurringFixture {
	f := &recurringFixture{
		recurringRepo: new(MockRecurringDonationRepo),
		donationRepo:  new(MockDonationRepo),
		campaignRepo:  new(MockCampaignRepo),
		userRepo:      new(MockUserRepo),
		paymentSvc:    new(MockPaymentService),
		emailSvc:      new(MockEmailService),
	}
	f.svc = service.NewRecurringDonationService(
		f.recurringRepo, f.donationRepo, f.campaignRepo, f.userRepo, f.paymentSvc, f.emailSvc,
	)
	return f
}

func activeCampaign(id int64) *domain.Campaign {
	return &domain.Campaign{
		ID:        id,
		Title:     "Clean Water for Villages",
		CreatorID: 7,
		Status:    domain.CampaignStatusActive,
	}
}

func TestRecurringDonationService_Create(t *testing.T) {
	ctx := context.Background()
	input := &domain.CreateRecurringDonationInput{
		Amount:        500,
		Frequency:     domain.FrequencyMonthly,
		PaymentMethod: "upi",
		StartDate:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		f := newRecurringFixture()
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.recurringRepo.On("Create", ctx, mock.AnythingOfType("*domain.RecurringDonation")).Return(nil)
		f.userRepo.On("GetEmail", ctx, int64(1)).Return("donor@test.com", nil)
		f.emailSvc.On("SendRecurringDonationCreated", ctx, "donor@test.com", 500.0, domain.FrequencyMonthly, "Clean Water for Villages", mock.AnythingOfType("time.Time")).Return(nil)

		rd, err := f.svc.Create(ctx, 1, 2, input)
		assert.NoError(t, err)
		assert.Equal(t, domain.RecurringStatusActive, rd.Status)
		assert.Equal(t, 0, rd.CurrentOccurrence)
		// First charge is one period after the start date.
		assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), rd.NextPaymentDate)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		f := newRecurringFixture()
		bad := *input
		bad.Amount = 5

		rd, err := f.svc.Create(ctx, 1, 2, &bad)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, rd)
		f.recurringRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("InactiveCampaign", func(t *testing.T) {
		f := newRecurringFixture()
		paused := activeCampaign(2)
		paused.Status = domain.CampaignStatusPaused
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(paused, nil)

		rd, err := f.svc.Create(ctx, 1, 2, input)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Nil(t, rd)
	})

	t.Run("UnknownDonor", func(t *testing.T) {
		f := newRecurringFixture()
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.userRepo.On("GetEmail", ctx, int64(999)).Return("", domain.ErrNotFound)

		rd, err := f.svc.Create(ctx, 999, 2, input)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, rd)
		f.recurringRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("EmailFailureDoesNotFailCreate", func(t *testing.T) {
		f := newRecurringFixture()
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.recurringRepo.On("Create", ctx, mock.AnythingOfType("*domain.RecurringDonation")).Return(nil)
		f.userRepo.On("GetEmail", ctx, int64(1)).Return("donor@test.com", nil)
		f.emailSvc.On("SendRecurringDonationCreated", ctx, "donor@test.com", 500.0, domain.FrequencyMonthly, "Clean Water for Villages", mock.AnythingOfType("time.Time")).
			Return(errors.New("smtp down"))

		rd, err := f.svc.Create(ctx, 1, 2, input)
		assert.NoError(t, err)
		assert.NotNil(t, rd)
	})
}

func TestRecurringDonationService_PauseResumeCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("PauseActive", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Status: domain.RecurringStatusActive,
		}, nil)
		f.recurringRepo.On("Update", ctx, mock.AnythingOfType("*domain.RecurringDonation")).Return(nil)

		rd, err := f.svc.Pause(ctx, 1, 5, "travelling")
		assert.NoError(t, err)
		assert.Equal(t, domain.RecurringStatusPaused, rd.Status)
		assert.Equal(t, "travelling", rd.PauseReason)
	})

	t.Run("PauseByWrongDonor", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Status: domain.RecurringStatusActive,
		}, nil)

		_, err := f.svc.Pause(ctx, 99, 5, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("PauseAlreadyPaused", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Status: domain.RecurringStatusPaused,
		}, nil)

		_, err := f.svc.Pause(ctx, 1, 5, "")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("ResumeResetsFailuresAndSchedule", func(t *testing.T) {
		f := newRecurringFixture()
		stale := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, CampaignID: 2,
			Status:          domain.RecurringStatusPaused,
			Frequency:       domain.FrequencyMonthly,
			FailedAttempts:  2,
			PauseReason:     "card expired",
			NextPaymentDate: stale,
		}, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.recurringRepo.On("Update", ctx, mock.AnythingOfType("*domain.RecurringDonation")).Return(nil)

		rd, err := f.svc.Resume(ctx, 1, 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.RecurringStatusActive, rd.Status)
		assert.Equal(t, 0, rd.FailedAttempts)
		assert.Empty(t, rd.PauseReason)
		assert.True(t, rd.NextPaymentDate.After(time.Now()))
	})

	t.Run("ResumeFailsWhenCampaignInactive", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, CampaignID: 2, Status: domain.RecurringStatusPaused,
		}, nil)
		closed := activeCampaign(2)
		closed.Status = domain.CampaignStatusCompleted
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(closed, nil)

		_, err := f.svc.Resume(ctx, 1, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("CancelRecordsReason", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Status: domain.RecurringStatusActive,
		}, nil)
		f.recurringRepo.On("Update", ctx, mock.AnythingOfType("*domain.RecurringDonation")).Return(nil)

		rd, err := f.svc.Cancel(ctx, 1, 5, "changed my mind")
		assert.NoError(t, err)
		assert.Equal(t, domain.RecurringStatusCancelled, rd.Status)
		assert.Equal(t, "changed my mind", rd.CancelReason)
		// The pause trail is separate from the cancellation trail.
		assert.Empty(t, rd.PauseReason)
	})

	t.Run("CancelIsTerminal", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Status: domain.RecurringStatusCancelled,
		}, nil)

		_, err := f.svc.Cancel(ctx, 1, 5, "changed my mind")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestRecurringDonationService_ProcessDue_ChargeSuccess(t *testing.T) {
	ctx := context.Background()
	f := newRecurringFixture()

	scheduled := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	due := []domain.RecurringDonation{{
		ID: 5, DonorID: 1, CampaignID: 2,
		Amount:            500,
		Frequency:         domain.FrequencyMonthly,
		PaymentMethod:     "upi",
		Status:            domain.RecurringStatusActive,
		CurrentOccurrence: 3,
		TotalPaid:         1500,
		FailedAttempts:    1,
		NextPaymentDate:   scheduled,
	}}

	f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
	f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
	f.paymentSvc.On("Charge", ctx, int64(1), 500.0, "upi").
		Return(&service.ChargeResult{Success: true, TransactionID: "pay_123"}, nil)

	var updated *domain.RecurringDonation
	f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*domain.RecurringDonation)
		}).Return(true, nil)
	f.donationRepo.On("Create", ctx, mock.AnythingOfType("*domain.Donation")).Return(nil)
	f.campaignRepo.On("IncrementRaisedAmount", ctx, int64(2), 500.0).Return(nil)
	f.userRepo.On("GetEmail", ctx, int64(1)).Return("donor@test.com", nil)
	f.emailSvc.On("SendRecurringChargeSucceeded", ctx, "donor@test.com", 500.0, "Clean Water for Villages", 4, mock.AnythingOfType("time.Time")).Return(nil)

	summary, err := f.svc.ProcessDue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Due)
	assert.Equal(t, 1, summary.Charged)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, 4, updated.CurrentOccurrence)
	assert.Equal(t, 2000.0, updated.TotalPaid)
	assert.Equal(t, 0, updated.FailedAttempts)
	assert.Equal(t, domain.PaymentStatusSuccess, updated.LastPaymentStatus)
	// Schedule advances from the scheduled date, not from when the batch ran.
	assert.Equal(t, scheduled.AddDate(0, 1, 0), updated.NextPaymentDate)

	f.donationRepo.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(d *domain.Donation) bool {
		return d.Amount == 500 && d.TransactionID == "pay_123" &&
			d.Status == domain.DonationStatusCompleted &&
			d.RecurringDonationID != nil && *d.RecurringDonationID == 5
	}))
}

func TestRecurringDonationService_ProcessDue_ChargeFailure(t *testing.T) {
	ctx := context.Background()

	newDue := func(failedAttempts int) []domain.RecurringDonation {
		return []domain.RecurringDonation{{
			ID: 5, DonorID: 1, CampaignID: 2,
			Amount:          500,
			Frequency:       domain.FrequencyMonthly,
			PaymentMethod:   "card",
			Status:          domain.RecurringStatusActive,
			FailedAttempts:  failedAttempts,
			NextPaymentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}}
	}

	t.Run("FirstFailureIsSilentRetry", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(newDue(0), nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.paymentSvc.On("Charge", ctx, int64(1), 500.0, "card").
			Return(&service.ChargeResult{Success: false, Error: "card declined"}, nil)

		var updated *domain.RecurringDonation
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.RecurringDonation)
			}).Return(true, nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 0, summary.Paused)

		assert.Equal(t, 1, updated.FailedAttempts)
		assert.Equal(t, domain.RecurringStatusActive, updated.Status)
		assert.Equal(t, domain.PaymentStatusFailed, updated.LastPaymentStatus)
		// Retry lands about two days out.
		assert.WithinDuration(t, time.Now().Add(domain.RetryDelay), updated.NextPaymentDate, time.Minute)

		f.emailSvc.AssertNotCalled(t, "SendRecurringDonationPaused", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ThirdFailureAutoPausesAndNotifies", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(newDue(2), nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.paymentSvc.On("Charge", ctx, int64(1), 500.0, "card").
			Return(&service.ChargeResult{Success: false, Error: "card declined"}, nil)

		var updated *domain.RecurringDonation
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.RecurringDonation)
			}).Return(true, nil)
		f.userRepo.On("GetEmail", ctx, int64(1)).Return("donor@test.com", nil)
		f.emailSvc.On("SendRecurringDonationPaused", ctx, "donor@test.com", "Clean Water for Villages", mock.AnythingOfType("string")).Return(nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Paused)
		assert.Equal(t, 0, summary.Failed)

		assert.Equal(t, 3, updated.FailedAttempts)
		assert.Equal(t, domain.RecurringStatusPaused, updated.Status)
		assert.NotEmpty(t, updated.PauseReason)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("GatewayErrorCountsAsFailure", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(newDue(0), nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.paymentSvc.On("Charge", ctx, int64(1), 500.0, "card").
			Return(nil, errors.New("gateway timeout"))
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).Return(true, nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	})
}

func TestRecurringDonationService_ProcessDue_Completion(t *testing.T) {
	ctx := context.Background()

	t.Run("FinalOccurrenceCompletes", func(t *testing.T) {
		f := newRecurringFixture()
		max := 2
		due := []domain.RecurringDonation{{
			ID: 5, DonorID: 1, CampaignID: 2,
			Amount:            500,
			Frequency:         domain.FrequencyMonthly,
			PaymentMethod:     "upi",
			Status:            domain.RecurringStatusActive,
			MaxOccurrences:    &max,
			CurrentOccurrence: 1,
			NextPaymentDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}}

		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.paymentSvc.On("Charge", ctx, int64(1), 500.0, "upi").
			Return(&service.ChargeResult{Success: true, TransactionID: "pay_456"}, nil)

		var updated *domain.RecurringDonation
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.RecurringDonation)
			}).Return(true, nil)
		f.donationRepo.On("Create", ctx, mock.AnythingOfType("*domain.Donation")).Return(nil)
		f.campaignRepo.On("IncrementRaisedAmount", ctx, int64(2), 500.0).Return(nil)
		f.userRepo.On("GetEmail", ctx, int64(1)).Return("donor@test.com", nil)
		f.emailSvc.On("SendRecurringChargeSucceeded", ctx, "donor@test.com", 500.0, "Clean Water for Villages", 2, mock.AnythingOfType("time.Time")).Return(nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Completed)
		assert.Equal(t, 0, summary.Charged)
		assert.Equal(t, domain.RecurringStatusCompleted, updated.Status)
		assert.Equal(t, 2, updated.CurrentOccurrence)
	})

	t.Run("CapAlreadyReachedSkipsCharge", func(t *testing.T) {
		f := newRecurringFixture()
		max := 2
		due := []domain.RecurringDonation{{
			ID: 5, DonorID: 1, CampaignID: 2,
			Amount:            500,
			Frequency:         domain.FrequencyMonthly,
			PaymentMethod:     "upi",
			Status:            domain.RecurringStatusActive,
			MaxOccurrences:    &max,
			CurrentOccurrence: 2,
			NextPaymentDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}}

		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).Return(true, nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Completed)
		f.paymentSvc.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EndDatePassedCompletes", func(t *testing.T) {
		f := newRecurringFixture()
		end := time.Now().Add(-24 * time.Hour)
		due := []domain.RecurringDonation{{
			ID: 5, DonorID: 1, CampaignID: 2,
			Amount:          500,
			Frequency:       domain.FrequencyMonthly,
			PaymentMethod:   "upi",
			Status:          domain.RecurringStatusActive,
			EndDate:         &end,
			NextPaymentDate: end,
		}}

		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).Return(true, nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Completed)
		f.paymentSvc.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRecurringDonationService_ProcessDue_BatchBehavior(t *testing.T) {
	ctx := context.Background()

	t.Run("OneItemFailureDoesNotAbortBatch", func(t *testing.T) {
		f := newRecurringFixture()
		due := []domain.RecurringDonation{
			{ID: 5, DonorID: 1, CampaignID: 2, Amount: 500, Frequency: domain.FrequencyMonthly, PaymentMethod: "upi", Status: domain.RecurringStatusActive, NextPaymentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 6, DonorID: 3, CampaignID: 4, Amount: 200, Frequency: domain.FrequencyWeekly, PaymentMethod: "upi", Status: domain.RecurringStatusActive, NextPaymentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		}

		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(nil, errors.New("db down"))
		f.campaignRepo.On("GetByID", ctx, int64(4)).Return(activeCampaign(4), nil)
		f.paymentSvc.On("Charge", ctx, int64(3), 200.0, "upi").
			Return(&service.ChargeResult{Success: true, TransactionID: "pay_789"}, nil)
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).Return(true, nil)
		f.donationRepo.On("Create", ctx, mock.AnythingOfType("*domain.Donation")).Return(nil)
		f.campaignRepo.On("IncrementRaisedAmount", ctx, int64(4), 200.0).Return(nil)
		f.userRepo.On("GetEmail", ctx, int64(3)).Return("donor@test.com", nil)
		f.emailSvc.On("SendRecurringChargeSucceeded", ctx, "donor@test.com", 200.0, mock.AnythingOfType("string"), 1, mock.AnythingOfType("time.Time")).Return(nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, summary.Due)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Charged)
	})

	t.Run("InactiveCampaignPausesSubscription", func(t *testing.T) {
		f := newRecurringFixture()
		due := []domain.RecurringDonation{{
			ID: 5, DonorID: 1, CampaignID: 2, Amount: 500,
			Frequency: domain.FrequencyMonthly, PaymentMethod: "upi",
			Status:          domain.RecurringStatusActive,
			NextPaymentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}}
		closed := activeCampaign(2)
		closed.Status = domain.CampaignStatusCompleted

		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(closed, nil)

		var updated *domain.RecurringDonation
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.RecurringDonation)
			}).Return(true, nil)
		f.userRepo.On("GetEmail", ctx, int64(1)).Return("donor@test.com", nil)
		f.emailSvc.On("SendRecurringDonationPaused", ctx, "donor@test.com", mock.AnythingOfType("string"), "campaign inactive").Return(nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Paused)
		assert.Equal(t, domain.RecurringStatusPaused, updated.Status)
		f.paymentSvc.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentTransitionSkipsBookkeeping", func(t *testing.T) {
		f := newRecurringFixture()
		due := []domain.RecurringDonation{{
			ID: 5, DonorID: 1, CampaignID: 2, Amount: 500,
			Frequency: domain.FrequencyMonthly, PaymentMethod: "upi",
			Status:          domain.RecurringStatusActive,
			NextPaymentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}}

		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return(due, nil)
		f.campaignRepo.On("GetByID", ctx, int64(2)).Return(activeCampaign(2), nil)
		f.paymentSvc.On("Charge", ctx, int64(1), 500.0, "upi").
			Return(&service.ChargeResult{Success: true, TransactionID: "pay_123"}, nil)
		// The donor cancelled while the charge was in flight.
		f.recurringRepo.On("UpdateIfStatus", ctx, mock.AnythingOfType("*domain.RecurringDonation"), domain.RecurringStatusActive).Return(false, nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Skipped)
		f.donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).Return([]domain.RecurringDonation{}, nil)

		summary, err := f.svc.ProcessDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, summary.Due)
	})
}

func TestRecurringDonationService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("AmountAndMethod", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Amount: 500, PaymentMethod: "upi",
			Status: domain.RecurringStatusActive,
		}, nil)
		f.recurringRepo.On("Update", ctx, mock.AnythingOfType("*domain.RecurringDonation")).Return(nil)

		amount := 750.0
		method := "card"
		rd, err := f.svc.Update(ctx, 1, 5, &domain.UpdateRecurringDonationInput{Amount: &amount, PaymentMethod: &method})
		assert.NoError(t, err)
		assert.Equal(t, 750.0, rd.Amount)
		assert.Equal(t, "card", rd.PaymentMethod)
	})

	t.Run("TerminalSubscriptionRejected", func(t *testing.T) {
		f := newRecurringFixture()
		f.recurringRepo.On("GetByID", ctx, int64(5)).Return(&domain.RecurringDonation{
			ID: 5, DonorID: 1, Status: domain.RecurringStatusCompleted,
		}, nil)

		amount := 750.0
		_, err := f.svc.Update(ctx, 1, 5, &domain.UpdateRecurringDonationInput{Amount: &amount})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}
