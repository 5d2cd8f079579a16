package auth

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/safar/makeup-inventory/internal/models"
)

type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth: jwtauth.New("HS256", []byte(secret), nil),
		ttl:  ttl,
	}
}

// JWTAuth exposes the signer for the HTTP verifier middleware.
func (t *TokenIssuer) JWTAuth() *jwtauth.JWTAuth {
	return t.auth
}

type SessionToken struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue signs a session token for user. Every call yields a new session id.
func (t *TokenIssuer) Issue(user *models.User) (*SessionToken, error) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(t.ttl).UTC().Truncate(time.Second)

	claims := jwt.MapClaims{
		"sub":  user.Username,
		"uid":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"sid":  sessionID,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, expiresAt)

	_, tokenString, err := t.auth.Encode(claims)
	if err != nil {
		return nil, err
	}

	return &SessionToken{Token: tokenString, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Claims are the identity fields carried by a session token.
type Claims struct {
	SessionID string
	UserID    int64
	Username  string
	Role      models.Role
	ExpiresAt time.Time
}

func ClaimsFromMap(m map[string]interface{}) (*Claims, error) {
	claims := jwt.MapClaims(m)

	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return nil, errors.New("sub claim is missing or not a string")
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return nil, errors.New("sid claim is missing or not a string")
	}

	uidText, ok := claims["uid"].(string)
	if !ok {
		return nil, errors.New("uid claim is missing or not a string")
	}
	uid, err := strconv.ParseInt(uidText, 10, 64)
	if err != nil {
		return nil, errors.New("uid claim is not a number")
	}

	roleText, _ := claims["role"].(string)
	role, ok := models.ParseRole(roleText)
	if !ok {
		return nil, errors.New("role claim is missing or invalid")
	}

	c := &Claims{SessionID: sid, UserID: uid, Username: username, Role: role}
	// jwtauth hands registered claims over as time.Time; a bare parse
	// leaves them numeric.
	if exp, ok := claims["exp"].(time.Time); ok {
		c.ExpiresAt = exp
	} else if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Revocations remembers session ids that logged out before their token
// expired. Entries are dropped once the token would have expired anyway.
type Revocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{ids: make(map[string]time.Time)}
}

func (r *Revocations) Revoke(sessionID string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, exp := range r.ids {
		if now.After(exp) {
			delete(r.ids, id)
		}
	}
	r.ids[sessionID] = expiresAt
}

func (r *Revocations) IsRevoked(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[sessionID]
	return ok
}
