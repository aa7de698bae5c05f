package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dilsedaan-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRecurringDonationCreated(ctx context.Context, donorEmail string, amount float64, frequency domain.Frequency, campaignTitle string, nextPayment time.Time) error {
	subject := "Your recurring donation is set up"
	body := fmt.Sprintf("Thank you for supporting %s!\n\nWe will charge ₹%.2f %s. Your first scheduled payment is on %s.\n\nYou can pause or cancel anytime from your dashboard.\n\nWith gratitude,\nThe DilSeDaan Team",
		campaignTitle, amount, strings.ToLower(string(frequency)), nextPayment.Format("2 Jan 2006"))
	return s.send(donorEmail, subject, body)
}

func (s *emailService) SendRecurringChargeSucceeded(ctx context.Context, donorEmail string, amount float64, campaignTitle string, occurrence int, nextPayment time.Time) error {
	subject := fmt.Sprintf("Donation received - %s", campaignTitle)
	body := fmt.Sprintf("Your recurring donation of ₹%.2f to %s went through (payment #%d).\n\nNext payment: %s.\n\nWith gratitude,\nThe DilSeDaan Team",
		amount, campaignTitle, occurrence, nextPayment.Format("2 Jan 2006"))
	return s.send(donorEmail, subject, body)
}

func (s *emailService) SendRecurringDonationPaused(ctx context.Context, donorEmail string, campaignTitle, reason string) error {
	subject := "Your recurring donation has been paused"
	body := fmt.Sprintf("Your recurring donation to %s has been paused.\n\nReason: %s.\n\nYou can update your payment method and resume from your dashboard.\n\nThe DilSeDaan Team",
		campaignTitle, reason)
	return s.send(donorEmail, subject, body)
}

func (s *emailService) SendWithdrawalSubmitted(ctx context.Context, adminEmail, reference string, amount float64, campaignTitle string) error {
	subject := fmt.Sprintf("Withdrawal request %s awaits review", reference)
	body := fmt.Sprintf("A withdrawal of ₹%.2f has been requested for campaign %s.\n\nReference: %s\n\nPlease review it in the admin console.",
		amount, campaignTitle, reference)
	return s.send(adminEmail, subject, body)
}

func (s *emailService) SendWithdrawalApproved(ctx context.Context, requesterEmail, reference string, netAmount float64) error {
	subject := fmt.Sprintf("Withdrawal %s approved", reference)
	body := fmt.Sprintf("Your withdrawal request %s has been approved.\n\n₹%.2f will be transferred to your bank account shortly.\n\nThe DilSeDaan Team",
		reference, netAmount)
	return s.send(requesterEmail, subject, body)
}

func (s *emailService) SendWithdrawalRejected(ctx context.Context, requesterEmail, reference, reason string) error {
	subject := fmt.Sprintf("Withdrawal %s rejected", reference)
	body := fmt.Sprintf("Your withdrawal request %s was rejected.\n\nReason: %s\n\nYou may submit a new request addressing the above.\n\nThe DilSeDaan Team",
		reference, reason)
	return s.send(requesterEmail, subject, body)
}

func (s *emailService) SendWithdrawalProcessed(ctx context.Context, requesterEmail, reference, transactionID string, netAmount float64) error {
	subject := fmt.Sprintf("Withdrawal %s completed", reference)
	body := fmt.Sprintf("₹%.2f has been transferred to your bank account.\n\nReference: %s\nBank transaction: %s\n\nThe DilSeDaan Team",
		netAmount, reference, transactionID)
	return s.send(requesterEmail, subject, body)
}

func (s *emailService) SendWithdrawalFailed(ctx context.Context, requesterEmail, reference, reason string) error {
	subject := fmt.Sprintf("Withdrawal %s could not be completed", reference)
	body := fmt.Sprintf("The funds transfer for withdrawal %s failed.\n\nReason: %s\n\nOur team has been notified and will follow up.\n\nThe DilSeDaan Team",
		reference, reason)
	return s.send(requesterEmail, subject, body)
}

func (s *emailService) SendUrgentWithdrawalDigest(ctx context.Context, adminEmail string, references []string) error {
	subject := fmt.Sprintf("%d urgent withdrawal requests pending", len(references))
	body := fmt.Sprintf("The following urgent withdrawal requests are awaiting review:\n\n%s\n\nPlease prioritize them in the admin console.",
		strings.Join(references, "\n"))
	return s.send(adminEmail, subject, body)
}
