package stores

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationRecordVersionV1 = 1

var (
	ErrRevocationNotFound         = errors.New("revocation record not found")
	ErrRevocationRedisUnavailable = errors.New("revocation redis unavailable")
	errRevocationRecordMalformed  = errors.New("revocation record malformed")
)

// RevocationReason tags why a token was revoked.
type RevocationReason uint8

const (
	RevocationUnknown RevocationReason = iota
	RevocationLogout
	RevocationAccountDeleted
	RevocationAdmin
)

func (r RevocationReason) String() string {
	switch r {
	case RevocationLogout:
		return "logout"
	case RevocationAccountDeleted:
		return "account_deleted"
	case RevocationAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type RevocationRecord struct {
	Reason    RevocationReason
	RevokedAt int64
}

// RevocationStore records revoked session tokens.
type RevocationStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRevocationStore(redisClient redis.UniversalClient, prefix string) *RevocationStore {
	return &RevocationStore{redis: redisClient, prefix: prefix}
}

func (s *RevocationStore) key(token string) string {
	return s.prefix + token
}

// Revoke marks token revoked for ttl. Revoking twice refreshes the record.
func (s *RevocationStore) Revoke(ctx context.Context, token string, record RevocationRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("revocation ttl must be > 0")
	}
	if err := s.redis.Set(ctx, s.key(token), encodeRevocationRecord(record), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRevocationRedisUnavailable, err)
	}
	return nil
}

// Exists reports whether any entry is stored for token.
func (s *RevocationStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRevocationRedisUnavailable, err)
	}
	return n > 0, nil
}

// Get returns the stored record. Entries not written by this store decode as
// RevocationUnknown with a zero timestamp.
func (s *RevocationStore) Get(ctx context.Context, token string) (*RevocationRecord, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRevocationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRevocationRedisUnavailable, err)
	}

	record, err := decodeRevocationRecord(data)
	if err != nil {
		return &RevocationRecord{Reason: RevocationUnknown}, nil
	}
	return record, nil
}

func encodeRevocationRecord(record RevocationRecord) []byte {
	var buf bytes.Buffer
	buf.Grow(10)
	buf.WriteByte(revocationRecordVersionV1)
	buf.WriteByte(byte(record.Reason))
	_ = binary.Write(&buf, binary.BigEndian, record.RevokedAt)
	return buf.Bytes()
}

func decodeRevocationRecord(data []byte) (*RevocationRecord, error) {
	if len(data) != 10 || data[0] != revocationRecordVersionV1 {
		return nil, errRevocationRecordMalformed
	}
	return &RevocationRecord{
		Reason:    RevocationReason(data[1]),
		RevokedAt: int64(binary.BigEndian.Uint64(data[2:])),
	}, nil
}

// Ping round-trips to Redis and reports the latency.
func (s *RevocationStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRevocationRedisUnavailable, err)
	}
	return time.Since(start), nil
}
