package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Credentials is the scoped credential material the session manager
// acquires on every fresh construction.
type Credentials struct {
	Principal string `json:"principal"`
	APIKey    string `json:"api_key"`
}

// loadCredentials reads the credential file. Re-read on every session
// rebuild so a rotated file takes effect without a restart. A missing
// or malformed file is a configuration error, not a transient one.
func loadCredentials(path string) (Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: read credentials file: %v", ErrConfig, err)
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: parse credentials file: %v", ErrConfig, err)
	}
	creds.Principal = strings.TrimSpace(creds.Principal)
	creds.APIKey = strings.TrimSpace(creds.APIKey)
	if creds.APIKey == "" {
		return Credentials{}, fmt.Errorf("%w: credentials file has no api_key", ErrConfig)
	}
	return creds, nil
}
