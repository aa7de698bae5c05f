package fees

import "math"

// Platform fee percentages by campaign context.
const (
	EmergencyPlatformFeePct   = 1.0
	VerifiedNGOPlatformFeePct = 1.5
	GeneralPlatformFeePct     = 2.5

	// MinPlatformFee is the floor, in rupees, applied to the platform fee
	// on any non-zero donation.
	MinPlatformFee = 10.0

	// GSTRate applies to the platform fee only. Processing fees are passed
	// through from the gateway and carry no GST here; this mirrors the
	// platform's billing policy and is intentional.
	GSTRate = 18.0
)

// Processing fee percentages by payment method. UPI and wallets are free;
// crypto gas fees are paid on-chain, outside the platform.
const (
	CardProcessingFeePct       = 2.9
	NetbankingProcessingFeePct = 1.9
)

// WithdrawalFeePct is the platform's cut on fund withdrawals.
const WithdrawalFeePct = 2.0

// WithdrawalFees is the deduction breakdown for a withdrawal request.
// Net is what reaches the campaign owner's bank account.
type WithdrawalFees struct {
	ProcessingFee float64 `json:"processing_fee"`
	GSTAmount     float64 `json:"gst_amount"`
	NetAmount     float64 `json:"net_amount"`
}

// DonationFeeBreakdown itemizes what a donor pays on top of the donation
// amount. Fees are additive: the campaign receives the full amount and the
// donor pays amount + total fees.
type DonationFeeBreakdown struct {
	Amount           float64 `json:"amount"`
	PlatformFeePct   float64 `json:"platform_fee_percentage"`
	PlatformFee      float64 `json:"platform_fee"`
	ProcessingFeePct float64 `json:"processing_fee_percentage"`
	ProcessingFee    float64 `json:"processing_fee"`
	GSTAmount        float64 `json:"gst_amount"`
	TotalFees        float64 `json:"total_fees"`
	TotalPayable     float64 `json:"total_payable"`
}

// CampaignContext carries the campaign attributes that determine the
// platform fee tier.
type CampaignContext struct {
	IsEmergency   bool
	IsVerifiedNGO bool
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateWithdrawalFees computes the deductions on a withdrawal:
// 2% processing fee, 18% GST on that fee, net = amount - fee - gst.
func CalculateWithdrawalFees(amount float64) WithdrawalFees {
	fee := Round2(amount * WithdrawalFeePct / 100)
	gst := Round2(fee * GSTRate / 100)
	return WithdrawalFees{
		ProcessingFee: fee,
		GSTAmount:     gst,
		NetAmount:     Round2(amount - fee - gst),
	}
}

// CalculateDonationFees computes the donor-facing fee breakdown for a
// donation of the given amount via the given payment method.
func CalculateDonationFees(amount float64, paymentMethod string, c CampaignContext) DonationFeeBreakdown {
	platformPct := GeneralPlatformFeePct
	if c.IsEmergency {
		platformPct = EmergencyPlatformFeePct
	} else if c.IsVerifiedNGO {
		platformPct = VerifiedNGOPlatformFeePct
	}

	platformFee := amount * platformPct / 100
	if amount > 0 && platformFee < MinPlatformFee {
		platformFee = MinPlatformFee
	}
	platformFee = Round2(platformFee)

	processingPct := 0.0
	switch paymentMethod {
	case "card":
		processingPct = CardProcessingFeePct
	case "netbanking":
		processingPct = NetbankingProcessingFeePct
	}
	processingFee := Round2(amount * processingPct / 100)

	gst := Round2(platformFee * GSTRate / 100)
	totalFees := Round2(platformFee + processingFee + gst)

	return DonationFeeBreakdown{
		Amount:           Round2(amount),
		PlatformFeePct:   platformPct,
		PlatformFee:      platformFee,
		ProcessingFeePct: processingPct,
		ProcessingFee:    processingFee,
		GSTAmount:        gst,
		TotalFees:        totalFees,
		TotalPayable:     Round2(amount + totalFees),
	}
}
