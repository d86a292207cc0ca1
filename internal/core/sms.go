package core

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

type SMSService struct {
	db      DB
	codeTTL time.Duration
}

func NewSMSService(db DB, codeTTL time.Duration) *SMSService {
	return &SMSService{db: db, codeTTL: codeTTL}
}

// RequestCode creates a fresh verification code for the actor's phone and
// returns it for delivery. Gateway dispatch is the caller's concern; only
// the code hash is stored.
func (s *SMSService) RequestCode(ctx context.Context, actor model.Actor, phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate sms code: %w", err)
	}

	v := &model.PhoneVerification{
		ID:        platform.NewID(),
		ActorID:   actor.UserID,
		Phone:     phone,
		CodeHash:  hashCode(code),
		ExpiresAt: time.Now().UTC().Add(s.codeTTL),
		CreatedAt: time.Now().UTC(),
	}

	// One pending verification per actor; a new request replaces it.
	_, err = s.db.Exec(ctx,
		`INSERT INTO phone_verifications (id, actor_id, phone, code_hash, expires_at, verified_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULL, $6)
		 ON CONFLICT (actor_id) DO UPDATE SET
		   phone = EXCLUDED.phone,
		   code_hash = EXCLUDED.code_hash,
		   expires_at = EXCLUDED.expires_at,
		   verified_at = NULL,
		   created_at = EXCLUDED.created_at`,
		v.ID, v.ActorID, v.Phone, v.CodeHash, v.ExpiresAt, v.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("store phone verification: %w", err)
	}
	return code, nil
}

// ValidateCode redeems a code. On success the actor's phone-verified flag
// and the linked organization's validated_at are set in one transaction.
func (s *SMSService) ValidateCode(ctx context.Context, actor model.Actor, code string) error {
	var (
		codeHash  string
		expiresAt time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT code_hash, expires_at FROM phone_verifications
		 WHERE actor_id = $1 AND verified_at IS NULL`, actor.UserID,
	).Scan(&codeHash, &expiresAt)
	if err != nil {
		return fmt.Errorf("load phone verification for %s: %w", actor.UserID, err)
	}

	if time.Now().UTC().After(expiresAt) {
		return fmt.Errorf("validate sms code: code expired")
	}
	if subtle.ConstantTimeCompare([]byte(hashCode(code)), []byte(codeHash)) != 1 {
		return fmt.Errorf("validate sms code: code mismatch")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin validate sms code: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE phone_verifications SET verified_at = now() WHERE actor_id = $1`,
		actor.UserID,
	)
	if err != nil {
		return fmt.Errorf("mark phone verified: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE organizations SET validated_at = now(), updated_at = now()
		 WHERE owner_id = $1 AND validated_at IS NULL`,
		actor.UserID,
	)
	if err != nil {
		return fmt.Errorf("mark organization validated: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit validate sms code: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
