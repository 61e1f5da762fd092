// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by a [Store] when the id is unknown or expired.
var ErrNotFound = errors.New("session: not found")

// Store persists session records with a time-to-live.
type Store interface {
	// Get loads the record for id, or returns ErrNotFound.
	Get(context context.Context, id string) (*Data, error)

	// Save writes the record for id and resets its expiry to ttl.
	Save(context context.Context, id string, data *Data, ttl time.Duration) error

	// Delete removes the record for id. Deleting an unknown id is not an error.
	Delete(context context.Context, id string) error
}

func encode(data *Data) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("session_encode_failed: %w", err)
	}
	return payload, nil
}

func decode(payload []byte) (*Data, error) {
	data := &Data{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("session_decode_failed: %w", err)
	}
	return data, nil
}
