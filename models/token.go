package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IDToken wraps an identity token issued by an auth provider.
//
// It embeds [jwt.RegisteredClaims] for standard claim access (subject,
// expiry, issuer) while SignedString holds the compact serialized form
// (header.payload.signature) that is attached to the transport.
//
// The SDK never verifies the signature: verification is the deployment's
// job. Claims are extracted only to decide whether a cached token is
// still worth presenting.
type IDToken struct {
	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, nbf, iss, aud, jti) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`
}

// ParseIDToken decodes the claims of a compact JWT without verifying its
// signature and returns them wrapped in an [IDToken].
//
// Returns an error if the string is not a structurally valid JWT.
func ParseIDToken(signed string) (IDToken, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(signed, &claims); err != nil {
		return IDToken{}, fmt.Errorf("error parsing id token: %w", err)
	}

	return IDToken{RegisteredClaims: claims, SignedString: signed}, nil
}

// ExpiresAfter reports whether the token is still valid at instant plus
// the given leeway. Tokens without an "exp" claim never expire from the
// SDK's point of view.
func (t IDToken) ExpiresAfter(instant time.Time, leeway time.Duration) bool {
	if t.ExpiresAt == nil {
		return true
	}
	return t.ExpiresAt.Time.After(instant.Add(leeway))
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t IDToken) String() string {
	return t.SignedString
}
