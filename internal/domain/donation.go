package domain

import "time"

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "PENDING"
	DonationStatusCompleted DonationStatus = "COMPLETED"
	DonationStatusFailed    DonationStatus = "FAILED"
	DonationStatusRefunded  DonationStatus = "REFUNDED"
)

// Donation is a single completed (or attempted) transfer of money from a
// donor to a campaign. The recurring engine appends one per successful
// scheduled charge; the ledger sums completed rows per campaign.
type Donation struct {
	ID                  int64          `json:"id"`
	DonorID             int64          `json:"donor_id"`
	CampaignID          int64          `json:"campaign_id"`
	RecurringDonationID *int64         `json:"recurring_donation_id,omitempty"`
	Amount              float64        `json:"amount"`
	PaymentMethod       string         `json:"payment_method"`
	TransactionID       string         `json:"transaction_id"`
	Status              DonationStatus `json:"status"`
	CreatedOn           time.Time      `json:"created_on"`
}
