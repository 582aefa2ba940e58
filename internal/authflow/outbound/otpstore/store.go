// Package otpstore keeps issued one-time codes in process memory, keyed by
// identity. It owns the full code lifecycle: issuing, verification with an
// attempt budget, expiry, and removal.
package otpstore

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/passgate/passgate/internal/authflow/entity"
)

const (
	defaultCodeLength  = 6
	defaultTTL         = 60 * time.Second
	defaultMaxAttempts = 3
)

type clocker interface {
	Now() time.Time
}

// Config tunes code issuance and verification.
type Config struct {
	// CodeLength is the number of digits per code.
	CodeLength int
	// TTL is how long an issued code stays valid.
	TTL time.Duration
	// MaxAttempts is the failed-verification budget per code.
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.CodeLength <= 0 {
		c.CodeLength = defaultCodeLength
	}
	if c.TTL <= 0 {
		c.TTL = defaultTTL
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	return c
}

// Store is an in-memory one-time code store. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	records map[string]*entity.OtpRecord
	clock   clocker
	cfg     Config
}

// New creates a Store using the given clock and configuration.
func New(clock clocker, cfg Config) *Store {
	return &Store{
		records: make(map[string]*entity.OtpRecord),
		clock:   clock,
		cfg:     cfg.withDefaults(),
	}
}

// Generate issues a fresh code for the identity, replacing any existing
// record. The previous code, if any, stops working immediately.
func (s *Store) Generate(identity string) string {
	var b strings.Builder
	b.Grow(s.cfg.CodeLength)
	for range s.cfg.CodeLength {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	code := b.String()

	s.mu.Lock()
	s.records[identity] = &entity.OtpRecord{
		Code:      code,
		ExpiresAt: s.clock.Now().Add(s.cfg.TTL),
		Attempts:  0,
	}
	s.mu.Unlock()

	return code
}

// Validate checks the submitted code against the stored record.
//
// The checks run in a fixed order: missing record, exhausted attempt budget,
// expiry, then code comparison. A successful match removes the record so the
// code cannot be replayed. A mismatch consumes one attempt; the mismatch that
// exhausts the budget reports VerifyMaxAttempts directly.
func (s *Store) Validate(identity, code string) entity.VerifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		return entity.VerifyNoCode
	}

	if rec.Attempts >= s.cfg.MaxAttempts {
		return entity.VerifyMaxAttempts
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		return entity.VerifyExpired
	}

	if rec.Code == code {
		delete(s.records, identity)
		return entity.VerifySuccess
	}

	rec.Attempts++
	if rec.Attempts >= s.cfg.MaxAttempts {
		return entity.VerifyMaxAttempts
	}

	return entity.VerifyInvalidCode
}

// RemainingTime returns the whole seconds until the identity's code expires,
// clamped to zero. Identities without a record also report zero.
func (s *Store) RemainingTime(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		return 0
	}

	remaining := rec.ExpiresAt.Sub(s.clock.Now())
	if remaining <= 0 {
		return 0
	}

	return int(remaining / time.Second)
}

// RemainingAttempts returns how many failed verifications the identity has
// left, clamped to zero. Identities without a record report zero.
func (s *Store) RemainingAttempts(identity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		return 0
	}

	remaining := s.cfg.MaxAttempts - rec.Attempts
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Clear removes the identity's record, if any. Clearing an absent identity
// is a no-op.
func (s *Store) Clear(identity string) {
	s.mu.Lock()
	delete(s.records, identity)
	s.mu.Unlock()
}
