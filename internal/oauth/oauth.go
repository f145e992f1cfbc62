package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// Credential is what a provider exchange yields and what the marketplace
// social-login endpoint consumes: Google hands over an id_token, GitHub an
// access token.
type Credential struct {
	Provider string
	Token    string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Credential, error)
	Name() string
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
