// Package firebase owns the Firestore client bootstrap: a lazy singleton
// constructed at most once per process and never invalidated.
package firebase

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Config holds Firestore connection settings.
type Config struct {
	ProjectID       string
	CredentialsFile string // optional; ADC is used when empty
}

var (
	once    sync.Once
	client  *firestore.Client
	initErr error
)

// Client returns the process-wide Firestore client, creating it on first
// call. With FIRESTORE_EMULATOR_HOST set, the SDK connects to the emulator
// and credentials are not required.
func Client(ctx context.Context, cfg Config) (*firestore.Client, error) {
	once.Do(func() {
		if cfg.ProjectID == "" {
			initErr = fmt.Errorf("firebase: project id is required")
			return
		}
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		client, initErr = firestore.NewClient(ctx, cfg.ProjectID, opts...)
	})
	return client, initErr
}
