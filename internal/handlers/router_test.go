package handlers

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestRetryOnDuplicateRetriesCollisions(t *testing.T) {
	calls := 0
	err := retryOnDuplicate(5, func() error {
		calls++
		if calls < 3 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryOnDuplicateStopsOnOtherErrors(t *testing.T) {
	calls := 0
	dbDown := errors.New("connection refused")
	err := retryOnDuplicate(5, func() error {
		calls++
		return dbDown
	})
	if !errors.Is(err, dbDown) {
		t.Fatalf("expected the original error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-duplicate errors should not be retried, got %d attempts", calls)
	}
}

func TestRetryOnDuplicateExhausted(t *testing.T) {
	calls := 0
	err := retryOnDuplicate(4, func() error {
		calls++
		return gorm.ErrDuplicatedKey
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate error after exhausting retries, got %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 attempts, got %d", calls)
	}
}
