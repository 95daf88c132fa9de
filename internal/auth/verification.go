package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"diatrack/internal/email"
)

const (
	// VerificationCodeTTL defines how long verification codes remain valid
	VerificationCodeTTL = 10 * time.Minute
)

// ErrInvalidCode is returned when a verification code is wrong or expired
var ErrInvalidCode = errors.New("invalid or expired verification code")

// Verifier handles the email verification code flow
type Verifier struct {
	accounts Service
	codes    CodeStore
	sender   email.Sender
}

// NewVerifier creates a new email verifier
func NewVerifier(accounts Service, codes CodeStore, sender email.Sender) *Verifier {
	return &Verifier{
		accounts: accounts,
		codes:    codes,
		sender:   sender,
	}
}

// RequestCode generates a verification code for the address, stores it with a
// TTL and emails it to the user.
func (v *Verifier) RequestCode(ctx context.Context, address string) error {
	code := generateSixDigitCode()

	key := fmt.Sprintf("verify:%s", normalizeEmail(address))
	if err := v.codes.Set(ctx, key, code, VerificationCodeTTL); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := v.sender.SendVerificationCode(address, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	return nil
}

// ConfirmCode checks the presented code and marks the user's email verified.
// Used codes are deleted immediately so they cannot be replayed.
func (v *Verifier) ConfirmCode(ctx context.Context, userID int, address, code string) error {
	key := fmt.Sprintf("verify:%s", normalizeEmail(address))

	storedCode, err := v.codes.Get(ctx, key)
	if err != nil {
		return ErrInvalidCode
	}
	if storedCode != code {
		return ErrInvalidCode
	}

	if err := v.codes.Delete(ctx, key); err != nil {
		log.Printf("Warning: failed to delete verification code for %s: %v", address, err)
	}

	return v.accounts.MarkEmailVerified(ctx, userID)
}

// generateSixDigitCode generates a cryptographically secure random 6-digit code
func generateSixDigitCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(fmt.Sprintf("failed to generate secure random number: %v", err))
	}
	return fmt.Sprintf("%06d", int(n.Int64())+100000)
}
