package config

import (
	"fmt"
	"os"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient builds the sync backend client. Environment variables
// SUPABASE_URL and SUPABASE_SERVICE_KEY override the config file values.
// Returns nil without error when no credentials are configured at all: the
// application then runs local-only.
func NewSupabaseClient(cfg SyncConfig) (*supa.Client, error) {
	url := os.Getenv("SUPABASE_URL")
	if url == "" {
		url = cfg.URL
	}
	key := os.Getenv("SUPABASE_SERVICE_KEY")
	if key == "" {
		key = cfg.Key
	}
	if url == "" || key == "" {
		return nil, nil
	}

	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("init supabase client: %w", err)
	}
	return client, nil
}
