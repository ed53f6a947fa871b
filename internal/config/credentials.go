package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Credentials holds the session material needed to call the site's
// private API directly. The session cookie is the browser session the
// user is already logged in with; the bearer token is optional and
// refreshed by the site itself.
type Credentials struct {
	// SessionCookie is the raw Cookie header value for API requests.
	SessionCookie string

	// BearerToken is an optional Authorization bearer token.
	BearerToken string
}

// LoadCredentials reads credentials from the environment, optionally
// seeded from a .env file next to the working directory.
//
// Recognized variables:
//   - SUNO_COOKIE: raw Cookie header value (required for the API path)
//   - SUNO_TOKEN:  bearer token (optional)
func LoadCredentials(envFile string) (*Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else {
		// Best effort: a .env in the working directory is optional.
		_ = godotenv.Load()
	}

	return &Credentials{
		SessionCookie: os.Getenv("SUNO_COOKIE"),
		BearerToken:   os.Getenv("SUNO_TOKEN"),
	}, nil
}

// HasSession reports whether API calls can be authenticated.
func (c *Credentials) HasSession() bool {
	return c.SessionCookie != "" || c.BearerToken != ""
}
