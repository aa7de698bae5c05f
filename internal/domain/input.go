package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// RBI bank branch code format, e.g. HDFC0001234.
	_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return ifscPattern.MatchString(fl.Field().String())
	})
	return v
}

// CreateRecurringDonationInput carries the donor-supplied terms of a new
// subscription.
type CreateRecurringDonationInput struct {
	Amount         float64    `json:"amount" validate:"required,gte=10,lte=100000"`
	Frequency      Frequency  `json:"frequency" validate:"required,oneof=WEEKLY MONTHLY QUARTERLY YEARLY"`
	PaymentMethod  string     `json:"payment_method" validate:"required"`
	StartDate      time.Time  `json:"start_date" validate:"required"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	MaxOccurrences *int       `json:"max_occurrences,omitempty" validate:"omitempty,gte=1,lte=120"`
}

// Validate checks structural constraints plus the cross-field rules the
// tags cannot express.
func (in *CreateRecurringDonationInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.EndDate != nil && !in.EndDate.After(in.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	return nil
}

// UpdateRecurringDonationInput carries the mutable terms of an existing
// subscription. Nil fields are left unchanged.
type UpdateRecurringDonationInput struct {
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gte=10,lte=100000"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
}

func (in *UpdateRecurringDonationInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// CreateWithdrawalInput carries a new withdrawal request.
type CreateWithdrawalInput struct {
	Amount      float64              `json:"amount" validate:"required,gte=100"`
	Purpose     string               `json:"purpose" validate:"required,min=10,max=500"`
	BankAccount BankAccount          `json:"bank_account" validate:"required"`
	Documents   []WithdrawalDocument `json:"documents,omitempty" validate:"omitempty,dive"`
	MilestoneID *int64               `json:"milestone_id,omitempty"`
	Priority    WithdrawalPriority   `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Category    WithdrawalCategory   `json:"category,omitempty" validate:"omitempty,oneof=MILESTONE EMERGENCY OPERATIONAL COMPLETION"`
}

func (in *CreateWithdrawalInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// UpdateWithdrawalInput carries the fields a requester may change while the
// request is still pending. Amount changes trigger fee recomputation.
type UpdateWithdrawalInput struct {
	Amount      *float64             `json:"amount,omitempty" validate:"omitempty,gte=100"`
	Purpose     *string              `json:"purpose,omitempty" validate:"omitempty,min=10,max=500"`
	BankAccount *BankAccount         `json:"bank_account,omitempty"`
	Documents   []WithdrawalDocument `json:"documents,omitempty" validate:"omitempty,dive"`
	Priority    *WithdrawalPriority  `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

func (in *UpdateWithdrawalInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.BankAccount != nil {
		if err := validate.Struct(in.BankAccount); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}
