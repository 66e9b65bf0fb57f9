package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RandomSource picks the variant of a new session.
type RandomSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

type SessionOption func(*sessionService)

// WithRandomSource replaces the process-wide generator used for assignment.
func WithRandomSource(rng RandomSource) SessionOption {
	return func(s *sessionService) { s.rng = rng }
}

func WithIDGenerator(gen func() string) SessionOption {
	return func(s *sessionService) { s.newID = gen }
}

func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *sessionService) { s.now = now }
}

type ISessionService interface {
	// Resolve returns the session carried by token, or starts a new one when
	// the token is empty, expired or forged. The returned token must be handed
	// back to the client; it is re-signed on every call.
	Resolve(token string) (*entity.SessionContext, string, error)
}

type sessionService struct {
	repo   *memory.SessionRepository
	secret []byte
	ttl    time.Duration
	rng    RandomSource
	newID  func() string
	now    func() time.Time
}

func NewSessionService(repo *memory.SessionRepository, secret string, ttl time.Duration, opts ...SessionOption) ISessionService {
	s := &sessionService{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		rng:    globalRandom{},
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type sessionClaims struct {
	Variant entity.Variant `json:"variant"`
	jwt.RegisteredClaims
}

func (s *sessionService) Resolve(token string) (*entity.SessionContext, string, error) {
	session := s.lookup(token)
	if session == nil {
		session = &entity.SessionContext{
			SessionID: s.newID(),
			Variant:   entity.Variants[s.rng.IntN(len(entity.Variants))],
			CreatedAt: s.now().UTC(),
		}
		s.repo.Save(session)
	}

	signed, err := s.sign(session)
	if err != nil {
		return nil, "", err
	}
	return session, signed, nil
}

// lookup returns nil for anything that is not a valid, unexpired token. A
// valid token whose session fell out of the store is restored with the
// variant it was signed with, so the assignment never changes mid-session.
func (s *sessionService) lookup(token string) *entity.SessionContext {
	if token == "" {
		return nil
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil
	}

	if session, ok := s.repo.Get(claims.Subject); ok {
		return session
	}
	if !claims.Variant.Valid() {
		return nil
	}

	session := &entity.SessionContext{
		SessionID: claims.Subject,
		Variant:   claims.Variant,
		CreatedAt: s.now().UTC(),
	}
	if claims.IssuedAt != nil {
		session.CreatedAt = claims.IssuedAt.UTC()
	}
	s.repo.Save(session)
	return session
}

func (s *sessionService) sign(session *entity.SessionContext) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret is empty")
	}
	now := s.now()
	claims := sessionClaims{
		Variant: session.Variant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.SessionID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
