package service

import (
	"context"

	"dilsedaan-backend/internal/repository"
)

type ledgerService struct {
	donationRepo   repository.DonationRepository
	withdrawalRepo repository.WithdrawalRepository
}

func NewLedgerService(donationRepo repository.DonationRepository, withdrawalRepo repository.WithdrawalRepository) LedgerService {
	return &ledgerService{donationRepo: donationRepo, withdrawalRepo: withdrawalRepo}
}

// AvailableBalance recomputes on every call. Caching here would reintroduce
// the overdraw race the withdrawal engine exists to prevent.
func (s *ledgerService) AvailableBalance(ctx context.Context, campaignID int64) (float64, error) {
	raised, err := s.donationRepo.SumCompletedByCampaign(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	committed, err := s.withdrawalRepo.SumApprovedOrProcessed(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	return raised - committed, nil
}
