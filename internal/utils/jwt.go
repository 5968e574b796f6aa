package utils // package utils provides password hashing and token signing helpers

import (
	"errors" // ErrInvalidToken
	"time"   // expirations and the injectable clock

	"github.com/golang-jwt/jwt/v5" // JWT signing and parsing
	"github.com/google/uuid"       // random jti per token
)

// ErrInvalidToken is the only failure VerifyAccess and VerifyRefresh
// report.  Bad signatures, tokens from the other key domain, expired and
// malformed tokens are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of both token classes.  The jti (RegisteredClaims.ID)
// is random so two tokens minted in the same second still differ.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SignedToken is a serialized JWT along with its expiry.
type SignedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// keyDomain is one signing secret plus the lifetime of tokens signed with it.
type keyDomain struct {
	secret []byte
	ttl    time.Duration
}

// TokenIssuer signs and verifies access and refresh tokens.  The two
// classes use different secrets, so a token of one class never verifies
// as the other.  It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	access  keyDomain
	refresh keyDomain
	now     func() time.Time
}

// NewTokenIssuer builds an issuer from the two secrets and lifetimes.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		access:  keyDomain{secret: []byte(accessSecret), ttl: accessTTL},
		refresh: keyDomain{secret: []byte(refreshSecret), ttl: refreshTTL},
		now:     time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.  Both
// signing and expiry checks use it.
func (ti *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *ti
	cp.now = now
	return &cp
}

// IssueAccess signs a short-lived access token for the user.
func (ti *TokenIssuer) IssueAccess(userID, email string) (SignedToken, error) {
	return ti.sign(ti.access, userID, email)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (ti *TokenIssuer) IssueRefresh(userID, email string) (SignedToken, error) {
	return ti.sign(ti.refresh, userID, email)
}

// VerifyAccess checks raw against the access secret and expiry.
func (ti *TokenIssuer) VerifyAccess(raw string) (*Claims, error) {
	return ti.verify(ti.access, raw)
}

// VerifyRefresh checks raw against the refresh secret and expiry.
func (ti *TokenIssuer) VerifyRefresh(raw string) (*Claims, error) {
	return ti.verify(ti.refresh, raw)
}

func (ti *TokenIssuer) sign(d keyDomain, userID, email string) (SignedToken, error) {
	now := ti.now().UTC()
	exp := now.Add(d.ttl)
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

func (ti *TokenIssuer) verify(d keyDomain, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return d.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil || !tok.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
