// Package local implements the guest provider: the auth and data contracts
// backed by a file-based key-value store on the local machine. Guest data is
// never synchronized to any remote backend.
package local

import (
	"context"
	"encoding/json"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"yougotthis/internal/errors"
)

// store is a JSON document store over a fileblob bucket. Keys are namespaced
// per logical entity and per user ID. The mutex serializes logical
// read-modify-write sequences so overlapping calls cannot lose updates.
type store struct {
	mu     sync.Mutex
	bucket *blob.Bucket
}

func openStore(dir string) (*store, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local store")
	}

	return &store{bucket: bucket}, nil
}

func (s *store) close() error {
	return s.bucket.Close()
}

// get decodes the value stored under key into dest. It reports false
// (without an error) when the key was never written.
func (s *store) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return false, nil
		}

		return false, errors.Wrapf(err, "failed to read local key %s", key)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrapf(err, "failed to decode local key %s", key)
	}

	return true, nil
}

// put JSON-encodes value and writes it under key.
func (s *store) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode local key %s", key)
	}

	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return errors.Wrapf(err, "failed to write local key %s", key)
	}

	return nil
}
