package utils

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// codeTTL is how long a verification code stays valid.
const codeTTL = 10 * time.Minute

// VerificationService issues and checks one-time codes, delivered over email
// (SendGrid) or SMS (Twilio). Only the sha256 hash of a code is stored.
type VerificationService struct {
	codes    *mongo.Collection
	sendgrid *sendgrid.Client
	twilio   *twilio.RestClient
	sender   string
	from     string
	logger   *slog.Logger
}

// NewVerificationService creates a verification service. Either delivery
// client may be nil when the corresponding credentials are absent; requests
// for that channel then fail with a clear error instead of a panic.
func NewVerificationService(db *mongo.Database, sendgridKey, senderEmail, twilioSID, twilioToken, twilioFrom string, logger *slog.Logger) *VerificationService {
	s := &VerificationService{
		codes:  db.Collection("verification_codes"),
		sender: senderEmail,
		from:   twilioFrom,
		logger: logger,
	}
	if sendgridKey != "" {
		s.sendgrid = sendgrid.NewSendClient(sendgridKey)
	}
	if twilioSID != "" && twilioToken != "" {
		s.twilio = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: twilioSID,
			Password: twilioToken,
		})
	}
	return s
}

// RequestEmailCode generates a code for the given email address and delivers
// it through SendGrid.
func (s *VerificationService) RequestEmailCode(ctx context.Context, email string) error {
	if s.sendgrid == nil {
		return fmt.Errorf("email verification is not configured")
	}
	code, err := s.issueCode(ctx, email, "email")
	if err != nil {
		return err
	}

	from := mail.NewEmail("Marketplace", s.sender)
	to := mail.NewEmail("", email)
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := s.sendgrid.Send(message)
	if err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sending verification email: status %d", resp.StatusCode)
	}
	s.logger.Info("verification email sent", "email", email)
	return nil
}

// RequestSMSCode generates a code for the given phone number and delivers it
// through Twilio.
func (s *VerificationService) RequestSMSCode(ctx context.Context, phone string) error {
	if s.twilio == nil {
		return fmt.Errorf("sms verification is not configured")
	}
	code, err := s.issueCode(ctx, phone, "sms")
	if err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(fmt.Sprintf("Your Marketplace verification code is %s", code))

	if _, err := s.twilio.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending verification sms: %w", err)
	}
	s.logger.Info("verification sms sent", "phone", phone)
	return nil
}

// Verify checks a submitted code for the identifier. Failed attempts are
// counted; a matching unexpired code is marked verified and never reusable.
func (s *VerificationService) Verify(ctx context.Context, identifier, code string) (bool, error) {
	hashed := hashCode(code)

	res := s.codes.FindOneAndUpdate(ctx, bson.M{
		"identifier":  identifier,
		"hashed_code": hashed,
		"verified":    false,
		"expires_at":  bson.M{"$gt": time.Now().UTC()},
	}, bson.M{
		"$set": bson.M{"verified": true, "verified_at": time.Now().UTC()},
	})
	if res.Err() == nil {
		return true, nil
	}
	if res.Err() != mongo.ErrNoDocuments {
		return false, fmt.Errorf("verifying code: %w", res.Err())
	}

	_, err := s.codes.UpdateOne(ctx,
		bson.M{"identifier": identifier},
		bson.M{"$inc": bson.M{"attempts": 1}},
	)
	if err != nil {
		return false, fmt.Errorf("counting failed attempt: %w", err)
	}
	return false, nil
}

// issueCode stores a fresh hashed code for the identifier, replacing any
// outstanding one.
func (s *VerificationService) issueCode(ctx context.Context, identifier, method string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if _, err := s.codes.DeleteMany(ctx, bson.M{"identifier": identifier}); err != nil {
		return "", fmt.Errorf("clearing old codes: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.codes.InsertOne(ctx, bson.M{
		"identifier":  identifier,
		"hashed_code": hashCode(code),
		"method":      method,
		"created_at":  now,
		"expires_at":  now.Add(codeTTL),
		"verified":    false,
		"attempts":    0,
	})
	if err != nil {
		return "", fmt.Errorf("storing verification code: %w", err)
	}
	return code, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
