package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strings"

	"orgdrive/internal/config"
	"orgdrive/internal/domain"
)

// UniqueAllocator draws candidates and persists them until one does not
// collide with an existing value. Only collisions are retried.
type UniqueAllocator[T any] struct {
	Generate    func() (T, error)
	Persist     func(ctx context.Context, candidate T) error
	IsCollision func(err error) bool
	MaxAttempts int
	Logger      *slog.Logger
	Name        string // used in logs and the exhaustion message
}

// Allocate returns the first candidate that persisted. After MaxAttempts
// collisions it fails with ErrAllocationExhausted.
func (a UniqueAllocator[T]) Allocate(ctx context.Context) (T, error) {
	var zero T
	for attempt := 1; attempt <= a.MaxAttempts; attempt++ {
		candidate, err := a.Generate()
		if err != nil {
			return zero, domain.Internalf("generate %s: %v", a.Name, err)
		}

		err = a.Persist(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !a.IsCollision(err) {
			return zero, err
		}

		if a.Logger != nil {
			a.Logger.Debug("allocation collided, retrying", "allocator", a.Name, "attempt", attempt)
		}
	}

	return zero, domain.Exhausted("could not allocate a unique %s after %d attempts", a.Name, a.MaxAttempts)
}

// GenerateCode draws an invitation code. Each character is chosen uniformly
// and independently with crypto/rand.
func GenerateCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(config.InvitationCodeAlphabet)))

	var b strings.Builder
	b.Grow(config.InvitationCodeLength)
	for i := 0; i < config.InvitationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(config.InvitationCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// isInvitationCodeCollision matches the unique violation on invitation codes
// and nothing else
func isInvitationCodeCollision(err error) bool {
	var conflict *domain.ConflictError
	return errors.As(err, &conflict) && conflict.Field == "invitation_code"
}
