package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusProcessed WithdrawalStatus = "PROCESSED"
	WithdrawalStatusFailed    WithdrawalStatus = "FAILED"
)

type WithdrawalPriority string

const (
	WithdrawalPriorityLow    WithdrawalPriority = "LOW"
	WithdrawalPriorityMedium WithdrawalPriority = "MEDIUM"
	WithdrawalPriorityHigh   WithdrawalPriority = "HIGH"
	WithdrawalPriorityUrgent WithdrawalPriority = "URGENT"
)

type WithdrawalCategory string

const (
	WithdrawalCategoryMilestone   WithdrawalCategory = "MILESTONE"
	WithdrawalCategoryEmergency   WithdrawalCategory = "EMERGENCY"
	WithdrawalCategoryOperational WithdrawalCategory = "OPERATIONAL"
	WithdrawalCategoryCompletion  WithdrawalCategory = "COMPLETION"
)

// MinWithdrawalAmount is the smallest amount, in rupees, that may be
// requested for withdrawal.
const MinWithdrawalAmount = 100

// BankAccount is the payout destination attached to a withdrawal request.
type BankAccount struct {
	AccountNumber     string `json:"account_number" validate:"required,min=9,max=18"`
	IFSCCode          string `json:"ifsc_code" validate:"required,ifsc"`
	AccountHolderName string `json:"account_holder_name" validate:"required"`
	BankName          string `json:"bank_name" validate:"required"`
}

// WithdrawalDocument is a typed supporting attachment (invoice, quote,
// utilization report) on a withdrawal request.
type WithdrawalDocument struct {
	Type string `json:"type" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name,omitempty"`
}

// WithdrawalRequest is a campaign owner's request to move raised funds out
// of the platform, subject to admin approval. Records are never deleted;
// rejected, processed and failed requests are retained for audit.
type WithdrawalRequest struct {
	ID              int64                `json:"id"`
	Reference       string               `json:"reference"`
	CampaignID      int64                `json:"campaign_id"`
	RequestedBy     int64                `json:"requested_by"`
	Amount          float64              `json:"amount"`
	Purpose         string               `json:"purpose"`
	BankAccount     BankAccount          `json:"bank_account"`
	Documents       []WithdrawalDocument `json:"documents,omitempty"`
	MilestoneID     *int64               `json:"milestone_id,omitempty"`
	ProcessingFee   float64              `json:"processing_fee"`
	GSTAmount       float64              `json:"gst_amount"`
	NetAmount       float64              `json:"net_amount"`
	Status          WithdrawalStatus     `json:"status"`
	Priority        WithdrawalPriority   `json:"priority"`
	Category        WithdrawalCategory   `json:"category"`
	ApprovedBy      *int64               `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time           `json:"approved_at,omitempty"`
	ApprovalNotes   string               `json:"approval_notes,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	TransactionID   string               `json:"transaction_id,omitempty"`
	ProcessedBy     *int64               `json:"processed_by,omitempty"`
	ProcessedAt     *time.Time           `json:"processed_at,omitempty"`
	FailureReason   string               `json:"failure_reason,omitempty"`
	CreatedOn       time.Time            `json:"created_on"`
	UpdatedOn       time.Time            `json:"updated_on"`
}

// IsMutable reports whether the request may still be updated by its
// requester. Only pending requests are mutable.
func (w *WithdrawalRequest) IsMutable() bool {
	return w.Status == WithdrawalStatusPending
}

// WithdrawalStats is the read-side aggregation over all withdrawal
// requests for admin reporting.
type WithdrawalStats struct {
	CountByStatus       map[WithdrawalStatus]int64 `json:"count_by_status"`
	TotalRequested      float64                    `json:"total_requested"`
	TotalProcessed      float64                    `json:"total_processed"`
	TotalFees           float64                    `json:"total_fees"`
	AvgApprovalTimeDays float64                    `json:"avg_approval_time_days"`
}
