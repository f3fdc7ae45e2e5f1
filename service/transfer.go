package service

import (
	"context"

	"worker-recsync/pkg/storage"
)

// FetchFunc downloads the source bytes for one transfer.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Relay moves one file from a source provider into durable storage:
// one download, one upload, no internal retry. A failure at either step
// propagates to the caller untouched.
type Relay struct {
	store storage.ObjectStore
}

func NewRelay(store storage.ObjectStore) *Relay {
	return &Relay{
		store: store,
	}
}

// Transfer returns the durable reference for the uploaded copy along
// with the downloaded bytes, which the adapters also need for
// transcript and chat contents.
func (r *Relay) Transfer(ctx context.Context, fetch FetchFunc, folder, name, mimeType string) (string, []byte, error) {
	data, err := fetch(ctx)
	if err != nil {
		return "", nil, err
	}

	ref, err := r.store.Upload(ctx, folder, name, mimeType, data)
	if err != nil {
		return "", nil, err
	}

	return ref, data, nil
}
