package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound is returned when no code exists for the target,
// either because none was issued or it expired.
var ErrCodeNotFound = errors.New("verification code not found")

// OTPStore keeps short-lived verification codes in Redis.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates a new OTPStore.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func otpKey(target string) string {
	return fmt.Sprintf("otp:%s", target)
}

// SaveCode stores the code for the target with the given TTL, replacing
// any previous code.
func (s *OTPStore) SaveCode(ctx context.Context, target, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(target), code, ttl).Err()
}

// GetCode returns the current code for the target.
func (s *OTPStore) GetCode(ctx context.Context, target string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(target)).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}

	return code, nil
}

// DeleteCode removes the code for the target.
func (s *OTPStore) DeleteCode(ctx context.Context, target string) error {
	return s.client.Del(ctx, otpKey(target)).Err()
}
