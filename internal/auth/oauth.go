package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const defaultGitHubAPI = "https://api.github.com"

// GitHubUser is the part of GitHub's /user response the directory uses.
type GitHubUser struct {
	ID    int64  `json:"id"` // stable, survives username changes
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"` // empty when hidden in GitHub settings
}

type gitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ErrNoVerifiedEmail means the GitHub account has no verified primary
// email, so there is nothing to key the directory account on.
var ErrNoVerifiedEmail = errors.New("auth: GitHub account has no verified primary email")

// GitHubProvider runs the OAuth authorization code flow against GitHub:
//
//  1. AuthURL sends the browser to GitHub with a random state.
//  2. GitHub redirects back to the callback with a short-lived code.
//  3. Exchange trades the code for an access token server-to-server
//     and reads the user's identity with it.
//
// The access token never reaches the browser.
type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

// NewGitHubProvider creates a provider for the OAuth app identified by
// clientID/clientSecret. callbackURL must match the app's registered
// callback exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: defaultGitHubAPI,
	}
}

// withEndpoints points the provider at a fake GitHub. Test only.
func (p *GitHubProvider) withEndpoints(authURL, tokenURL, apiBase string) *GitHubProvider {
	p.config.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	p.apiBase = strings.TrimRight(apiBase, "/")
	return p
}

// AuthURL is where the sign-in button sends the browser. state must be
// echoed back by GitHub and checked against the state cookie (CSRF).
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades code for a token and returns the GitHub identity.
// When the profile email is hidden, the primary verified address from
// /user/emails is used instead.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// The client adds "Authorization: Bearer <token>" to every request.
	client := p.config.Client(ctx, tok)

	var user GitHubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	if user.Email == "" {
		email, err := p.primaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	return &user, nil
}

func (p *GitHubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []gitHubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", ErrNoVerifiedEmail
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("auth: building GitHub %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: calling GitHub %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: GitHub %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("auth: decoding GitHub %s response: %w", path, err)
	}
	return nil
}
