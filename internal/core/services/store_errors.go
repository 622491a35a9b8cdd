package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"gorm.io/gorm"
)

const storeRetryBackoff = 200 * time.Millisecond

// storeErr maps a repository error onto the domain taxonomy: a missing
// row becomes the given not-found kind, anything else is a transient
// store fault the caller may retry once. Store faults are never
// collapsed into a zero value; a balance read that fails must fail
// loudly or it would green-light overdraws.
func storeErr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// infraErr wraps a repository error as a transient store fault when no
// not-found mapping applies (writes, lists).
func infraErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// retryStore runs a store operation and, when it fails with anything
// other than a missing row, runs it exactly once more after a short
// backoff. Only reads and creates of records awaiting admin
// confirmation go through here; compare-and-set writes and the
// confirmed withdrawal debit never do, since a second attempt could
// re-apply a write whose first attempt landed.
func retryStore(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	select {
	case <-time.After(storeRetryBackoff):
	case <-ctx.Done():
		return err
	}
	return op()
}
