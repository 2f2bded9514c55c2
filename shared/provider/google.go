package provider

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrInvalidGoogleAudience = errors.New("invalid google audience")

// GoogleOAuthProvider validates Google ID tokens against the tokeninfo
// endpoint.
type GoogleOAuthProvider struct {
	clientID string
}

// NewGoogleOAuthProvider creates a provider bound to an OAuth client ID.
func NewGoogleOAuthProvider(clientID string) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{clientID: clientID}
}

// ValidateIDToken verifies the ID token with Google and checks that it was
// issued for this application.
func (p *GoogleOAuthProvider) ValidateIDToken(ctx context.Context, idToken string) (*oauth2.Tokeninfo, error) {
	oauth2Service, err := oauth2.NewService(ctx, option.WithHTTPClient(&http.Client{}))
	if err != nil {
		return nil, err
	}

	tokenInfoCall := oauth2Service.Tokeninfo()
	tokenInfoCall.IdToken(idToken)
	tokenInfo, err := tokenInfoCall.Do()
	if err != nil {
		return nil, err
	}

	if tokenInfo.Audience != p.clientID {
		return nil, ErrInvalidGoogleAudience
	}

	return tokenInfo, nil
}
