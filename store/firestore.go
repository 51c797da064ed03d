// Package store holds analysis state: the current result set that drives the
// map, and the background task records behind async analysis. Task records
// persist to Firestore when credentials are configured and degrade to an
// in-memory table when they are not.
package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

var (
	fsClient   *firestore.Client
	fsClientMu sync.Mutex
)

// InitFirestore initializes the shared Firestore client from the
// FIREBASE_CREDENTIALS env var (base64-encoded service account JSON). It is
// safe to call more than once. A missing or bad credential returns an error
// rather than aborting; callers run memory-only in that case.
func InitFirestore(ctx context.Context) (*firestore.Client, error) {
	fsClientMu.Lock()
	defer fsClientMu.Unlock()

	if fsClient != nil {
		return fsClient, nil
	}

	encoded := os.Getenv("FIREBASE_CREDENTIALS")
	if encoded == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS not set")
	}
	creds, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode firestore credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firestore client: %w", err)
	}

	fsClient = client
	return fsClient, nil
}

// CloseFirestore closes the shared client if one was opened.
func CloseFirestore() {
	fsClientMu.Lock()
	defer fsClientMu.Unlock()
	if fsClient != nil {
		fsClient.Close()
		fsClient = nil
	}
}
