package core

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

type SessionService struct {
	db  DB
	ttl time.Duration
}

func NewSessionService(db DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl}
}

// Login verifies the credentials and opens a session. The raw token is
// returned exactly once; only its hash is stored.
func (s *SessionService) Login(ctx context.Context, email, password string) (*model.Session, string, error) {
	var (
		userID       string
		passwordHash string
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`, email,
	).Scan(&userID, &passwordHash)
	if err != nil {
		// Super admins carry their identity on their own table.
		err = s.db.QueryRow(ctx,
			`SELECT id, password_hash FROM super_admins WHERE email = $1 AND active`, email,
		).Scan(&userID, &passwordHash)
		if err != nil {
			return nil, "", fmt.Errorf("login %s: %w", email, err)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("login %s: invalid credentials", email)
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	var orgID *string
	err = s.db.QueryRow(ctx,
		`SELECT org_id FROM admins WHERE user_id = $1`, userID,
	).Scan(&orgID)
	if err != nil {
		// Super admins have no admin role record; the session still opens.
		orgID = nil
	}

	sess := &model.Session{
		ID:        platform.NewID(),
		UserID:    userID,
		OrgID:     orgID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, org_id, token_hash, expires_at, revoked_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULL, $6)`,
		sess.ID, sess.UserID, sess.OrgID, sess.TokenHash, sess.ExpiresAt, sess.CreatedAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}
	return sess, token, nil
}

// Authenticate resolves a bearer token to the acting identity. The org id
// is resolved against the live admins row, not the login-time snapshot, so
// an organization created mid-session is visible on the next request.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*model.Actor, error) {
	var (
		userID string
		orgID  *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT s.user_id, COALESCE(a.org_id, s.org_id)
		 FROM sessions s
		 LEFT JOIN admins a ON a.user_id = s.user_id
		 WHERE s.token_hash = $1 AND s.revoked_at IS NULL AND s.expires_at > now()`,
		hashToken(token),
	).Scan(&userID, &orgID)
	if err != nil {
		return nil, fmt.Errorf("authenticate session: %w", err)
	}

	actor := &model.Actor{UserID: userID}
	if orgID != nil {
		actor.OrgID = *orgID
	}
	return actor, nil
}

// Logout revokes the session behind the token. Revoking an unknown token is
// not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL`,
		hashToken(token),
	)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
