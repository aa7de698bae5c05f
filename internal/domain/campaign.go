package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusPaused    CampaignStatus = "PAUSED"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
	CampaignStatusCancelled CampaignStatus = "CANCELLED"
)

// Campaign is the fundraising campaign both engines operate against.
// Only the fields the engines read (status, creator, fee context) and
// write (raised amount, via atomic increments) are modeled here.
type Campaign struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	CreatorID     int64          `json:"creator_id"`
	Status        CampaignStatus `json:"status"`
	TargetAmount  float64        `json:"target_amount"`
	RaisedAmount  float64        `json:"raised_amount"`
	IsEmergency   bool           `json:"is_emergency"`
	IsVerifiedNGO bool           `json:"is_verified_ngo"`
	CreatedOn     time.Time      `json:"created_on"`
}

// IsActive reports whether the campaign accepts recurring charges and new
// withdrawal requests.
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}
