package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CallerIdentity is the only part of a Google account a run ticket cares
// about: the email that becomes the caller ID minted into the token pair.
// No profile fields are kept — nothing downstream renders a name or avatar.
type CallerIdentity struct {
	Email string `json:"email"`
}

// OAuthProvider gates run-launch access behind a Google login: it does not
// manage accounts, it only answers "whose email just authenticated", which
// AuthHandler turns directly into a token pair.
type OAuthProvider struct {
	config *oauth2.Config
}

// NewGoogleOAuth builds a provider scoped to just enough to read the
// caller's email — no "profile" scope, since no profile field is consumed.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// LoginURL builds the consent-screen redirect for a caller starting a run
// launch; state round-trips through Google to the callback unmodified.
func (p *OAuthProvider) LoginURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for the caller's email.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*CallerIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("oauth userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("oauth userinfo status %d: %s", resp.StatusCode, body)
	}

	var identity CallerIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("oauth userinfo decode: %w", err)
	}
	return &identity, nil
}
