package boltdb

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/ideacapsule/internal/storage"
)

var errNoBucket = errors.New("settings bucket not found")

// GetSetting returns storage.ErrSettingNotFound when key is absent
func (s *Storage) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return errNoBucket
		}

		raw := bucket.Get([]byte(key))
		if raw == nil {
			return storage.ErrSettingNotFound
		}

		// raw валиден только внутри транзакции
		value = string(raw)
		return nil
	})
	if errors.Is(err, storage.ErrSettingNotFound) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, nil
}

// SetSetting creates or overwrites key
func (s *Storage) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return errNoBucket
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to save setting %q: %w", key, err)
		}
		return nil
	})
}

// DeleteSetting is a no-op for absent keys
func (s *Storage) DeleteSetting(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return errNoBucket
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete setting %q: %w", key, err)
		}
		return nil
	})
}

// ListSettings returns every stored pair
func (s *Storage) ListSettings(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return errNoBucket
		}

		return bucket.ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	return out, nil
}
