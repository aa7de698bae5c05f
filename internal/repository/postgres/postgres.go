package postgres

import (
	"database/sql"

	"dilsedaan-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RecurringDonationRepository
	repository.WithdrawalRepository
	repository.DonationRepository
	repository.CampaignRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                          db,
		RecurringDonationRepository: NewRecurringDonationRepository(db),
		WithdrawalRepository:        NewWithdrawalRepository(db),
		DonationRepository:          NewDonationRepository(db),
		CampaignRepository:          NewCampaignRepository(db),
		UserRepository:              NewUserRepository(db),
	}
}
