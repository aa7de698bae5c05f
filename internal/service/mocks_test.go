package service_test

import (
	"context"
	"time"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockRecurringDonationRepo
type MockRecurringDonationRepo struct {
	mock.Mock
}

func (m *MockRecurringDonationRepo) Create(ctx context.Context, rd *domain.RecurringDonation) error {
	args := m.Called(ctx, rd)
	return args.Error(0)
}
func (m *MockRecurringDonationRepo) GetByID(ctx context.Context, id int64) (*domain.RecurringDonation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDonation), args.Error(1)
}
func (m *MockRecurringDonationRepo) Update(ctx context.Context, rd *domain.RecurringDonation) error {
	args := m.Called(ctx, rd)
	return args.Error(0)
}
func (m *MockRecurringDonationRepo) UpdateIfStatus(ctx context.Context, rd *domain.RecurringDonation, expected domain.RecurringStatus) (bool, error) {
	args := m.Called(ctx, rd, expected)
	return args.Bool(0), args.Error(1)
}
func (m *MockRecurringDonationRepo) ListDue(ctx context.Context, now time.Time) ([]domain.RecurringDonation, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringDonation), args.Error(1)
}
func (m *MockRecurringDonationRepo) ListByDonor(ctx context.Context, donorID int64, page, pageSize int32) ([]domain.RecurringDonation, int32, error) {
	args := m.Called(ctx, donorID, page, pageSize)
	return args.Get(0).([]domain.RecurringDonation), args.Get(1).(int32), args.Error(2)
}
func (m *MockRecurringDonationRepo) Stats(ctx context.Context) (*domain.RecurringDonationStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDonationStats), args.Error(1)
}

// MockWithdrawalRepo
type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}
func (m *MockWithdrawalRepo) Update(ctx context.Context, w *domain.WithdrawalRequest) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) ApproveIfBalanceSufficient(ctx context.Context, id, approverID int64, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, approverID, notes, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockWithdrawalRepo) ListByCampaign(ctx context.Context, campaignID int64, status domain.WithdrawalStatus, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	args := m.Called(ctx, campaignID, status, page, pageSize)
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) ListByRequester(ctx context.Context, userID int64, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) ListUrgent(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.WithdrawalRequest), args.Error(1)
}
func (m *MockWithdrawalRepo) SumApprovedOrProcessed(ctx context.Context, campaignID int64) (float64, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockWithdrawalRepo) Stats(ctx context.Context) (*domain.WithdrawalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalStats), args.Error(1)
}

// MockDonationRepo
type MockDonationRepo struct {
	mock.Mock
}

func (m *MockDonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDonationRepo) SumCompletedByCampaign(ctx context.Context, campaignID int64) (float64, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(float64), args.Error(1)
}

// MockCampaignRepo
type MockCampaignRepo struct {
	mock.Mock
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}
func (m *MockCampaignRepo) IncrementRaisedAmount(ctx context.Context, id int64, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetEmail(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Charge(ctx context.Context, donorID int64, amount float64, paymentMethod string) (*service.ChargeResult, error) {
	args := m.Called(ctx, donorID, amount, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChargeResult), args.Error(1)
}

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AvailableBalance(ctx context.Context, campaignID int64) (float64, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).(float64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRecurringDonationCreated(ctx context.Context, donorEmail string, amount float64, frequency domain.Frequency, campaignTitle string, nextPayment time.Time) error {
	args := m.Called(ctx, donorEmail, amount, frequency, campaignTitle, nextPayment)
	return args.Error(0)
}
func (m *MockEmailService) SendRecurringChargeSucceeded(ctx context.Context, donorEmail string, amount float64, campaignTitle string, occurrence int, nextPayment time.Time) error {
	args := m.Called(ctx, donorEmail, amount, campaignTitle, occurrence, nextPayment)
	return args.Error(0)
}
func (m *MockEmailService) SendRecurringDonationPaused(ctx context.Context, donorEmail string, campaignTitle, reason string) error {
	args := m.Called(ctx, donorEmail, campaignTitle, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalSubmitted(ctx context.Context, adminEmail, reference string, amount float64, campaignTitle string) error {
	args := m.Called(ctx, adminEmail, reference, amount, campaignTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalApproved(ctx context.Context, requesterEmail, reference string, netAmount float64) error {
	args := m.Called(ctx, requesterEmail, reference, netAmount)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalRejected(ctx context.Context, requesterEmail, reference, reason string) error {
	args := m.Called(ctx, requesterEmail, reference, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalProcessed(ctx context.Context, requesterEmail, reference, transactionID string, netAmount float64) error {
	args := m.Called(ctx, requesterEmail, reference, transactionID, netAmount)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalFailed(ctx context.Context, requesterEmail, reference, reason string) error {
	args := m.Called(ctx, requesterEmail, reference, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendUrgentWithdrawalDigest(ctx context.Context, adminEmail string, references []string) error {
	args := m.Called(ctx, adminEmail, references)
	return args.Error(0)
}
