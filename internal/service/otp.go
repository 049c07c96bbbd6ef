package service

import (
	"context"
	"time"

	"github.com/prudvivenkat/agriconnect/internal/repository"
	"github.com/prudvivenkat/agriconnect/internal/utils"
)

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 300 * time.Second

// OTPService issues and verifies one-time codes. At most one live
// code per contact: issuing replaces, verifying consumes.
type OTPService struct {
	otps *repository.OTPRepo
	now  func() time.Time
}

func NewOTPService(otps *repository.OTPRepo) *OTPService {
	return &OTPService{otps: otps, now: func() time.Time { return time.Now().UTC() }}
}

// Issue generates a fresh 6-digit code for the contact and stores it,
// invalidating any earlier code for the same pair. The code is
// returned for delivery; it is never exposed through query APIs.
func (s *OTPService) Issue(ctx context.Context, contact, contactType string) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}
	expiry := s.now().Add(OTPTTL)
	if err := s.otps.Replace(ctx, contact, contactType, code, expiry); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code when it matches and has not expired.
// Success removes the row, so a replay of the same code fails.
func (s *OTPService) Verify(ctx context.Context, contact, contactType, code string) (bool, error) {
	return s.otps.Consume(ctx, contact, contactType, code, s.now())
}
