package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"google.golang.org/api/idtoken"
)

var validateIDToken = idtoken.Validate

// Identity is what a verified federated token tells us about its holder.
type Identity struct {
	Subject string
	Email   string
}

// FederatedVerifier checks a third-party identity token.
type FederatedVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier validates Google-issued ID tokens against the configured
// OAuth client id (the expected audience).
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify checks signature, expiry and audience, then extracts the stable
// subject and the email claim. Every failure is common.ErrorInvalidCredential.
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty id token", common.ErrorInvalidCredential)
	}
	if g.clientID == "" {
		return nil, fmt.Errorf("%w: google client id is not configured", common.ErrorInvalidCredential)
	}

	payload, err := validateIDToken(ctx, idToken, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidCredential, err)
	}

	email, _ := payload.Claims["email"].(string)
	if payload.Subject == "" || email == "" {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidCredential, errors.New("token has no subject or email"))
	}

	return &Identity{Subject: payload.Subject, Email: email}, nil
}
