package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ErrNoCredentials is returned when neither inline JSON nor a key file is configured.
var ErrNoCredentials = errors.New("no Google credentials configured")

// serviceAccountKey is the subset of a key file we inspect before handing it
// to the oauth2 library.
type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
}

// LoadCredentials returns the service-account key, preferring inline JSON over
// the file at path.
func LoadCredentials(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, ErrNoCredentials
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// ServiceAccountEmail returns the client_email of a service-account key.
func ServiceAccountEmail(data []byte) (string, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return "", fmt.Errorf("failed to parse credentials: %w", err)
	}
	if key.Type != "service_account" {
		return "", fmt.Errorf("unsupported credentials type %q, want service_account", key.Type)
	}
	return key.ClientEmail, nil
}

// ClientOptions builds Google API client options authenticating as the
// service account in data with the given scopes.
func ClientOptions(ctx context.Context, data []byte, scopes ...string) ([]option.ClientOption, error) {
	if _, err := ServiceAccountEmail(data); err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		scopes = CalendarScopes
	}

	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	return []option.ClientOption{
		option.WithTokenSource(conf.TokenSource(ctx)),
	}, nil
}
