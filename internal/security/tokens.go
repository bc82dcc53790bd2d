package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or signed for someone else.
	ErrInvalidToken = errors.New("invalid token")
	// ErrCannotSign is returned by Issue on a verify-only provider.
	ErrCannotSign = errors.New("token provider has no private key")
)

// ActorClaims are the claims the identity provider puts in an access token.
type ActorClaims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id,omitempty"`
	Role      string `json:"role"`
}

// Actor is the validated identity carried by a token.
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}

// TokenProvider validates access tokens (RS256 or ES256) and, when it holds the private key,
// issues them for development tooling.
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	ttl        time.Duration
}

// NewTokenVerifier returns a provider that can only validate tokens.
func NewTokenVerifier(publicKey crypto.PublicKey, issuer, audience string) *TokenProvider {
	return &TokenProvider{publicKey: publicKey, issuer: issuer, audience: audience}
}

// NewTokenProvider returns a provider that signs with privateKey and validates with publicKey.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		ttl:        ttl,
	}
}

// Issue signs an access token for the actor. Returns the token and its expiry.
func (p *TokenProvider) Issue(actor Actor) (string, time.Time, error) {
	if p.privateKey == nil {
		return "", time.Time{}, ErrCannotSign
	}
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(p.ttl)
	claims := ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   actor.UserID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		CompanyID: actor.CompanyID,
		Role:      actor.Role,
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", time.Time{}, ErrInvalidKey
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
	return token, expiresAt, err
}

// Validate checks signature, expiry, issuer and audience and returns the actor.
func (p *TokenProvider) Validate(tokenString string) (Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	}, jwt.WithIssuer(p.issuer), jwt.WithAudience(p.audience), jwt.WithExpirationRequired())
	if err != nil {
		return Actor{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.Role == "" {
		return Actor{}, ErrInvalidToken
	}
	return Actor{UserID: claims.Subject, CompanyID: claims.CompanyID, Role: claims.Role}, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
