package service

import (
	"testing"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

type countingRandom struct{ calls int }

func (c *countingRandom) IntN(n int) int {
	c.calls++
	return c.calls % n
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func TestSessionService_NewSessionGetsAssignedVariant(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)

	svcA := NewSessionService(repo, "secret", time.Hour, WithRandomSource(fixedRandom(0)))
	session, token, err := svcA.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, entity.VariantA, session.Variant)
	assert.NotEmpty(t, session.SessionID)
	assert.NotEmpty(t, token)

	svcB := NewSessionService(repo, "secret", time.Hour, WithRandomSource(fixedRandom(1)))
	session, _, err = svcB.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, entity.VariantB, session.Variant)

	assert.Equal(t, 2, repo.Count())
}

func TestSessionService_VariantIsStableAcrossRequests(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	rng := &countingRandom{}
	svc := NewSessionService(repo, "secret", time.Hour, WithRandomSource(rng), WithIDGenerator(sequentialIDs("sid-")))

	first, token, err := svc.Resolve("")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, next, err := svc.Resolve(token)
		require.NoError(t, err)
		assert.Equal(t, first.SessionID, again.SessionID)
		assert.Equal(t, first.Variant, again.Variant)
		token = next
	}
	assert.Equal(t, 1, rng.calls, "the random source is consulted once per session")
}

func TestSessionService_RestoresEvictedSessionFromToken(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	svc := NewSessionService(repo, "secret", time.Hour, WithRandomSource(fixedRandom(1)))

	first, token, err := svc.Resolve("")
	require.NoError(t, err)
	repo.Delete(first.SessionID)

	// A different generator must not be consulted for a restored session.
	other := NewSessionService(repo, "secret", time.Hour, WithRandomSource(fixedRandom(0)))
	restored, _, err := other.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, restored.SessionID)
	assert.Equal(t, entity.VariantB, restored.Variant)
}

func TestSessionService_RejectsBadTokens(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := NewSessionService(repo, "secret", time.Hour, WithSessionClock(clock), WithIDGenerator(sequentialIDs("sid-")))

	first, token, err := svc.Resolve("")
	require.NoError(t, err)

	forger := NewSessionService(repo, "other-secret", time.Hour)
	_, forged, err := forger.Resolve("")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": first.SessionID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			session, _, err := svc.Resolve(tok)
			require.NoError(t, err)
			assert.NotEqual(t, first.SessionID, session.SessionID)
		})
	}

	t.Run("expired", func(t *testing.T) {
		later := NewSessionService(repo, "secret", time.Hour, WithSessionClock(func() time.Time {
			return now.Add(2 * time.Hour)
		}))
		session, _, err := later.Resolve(token)
		require.NoError(t, err)
		assert.NotEqual(t, first.SessionID, session.SessionID)
	})
}

func TestSessionService_EmptySecret(t *testing.T) {
	svc := NewSessionService(memory.NewSessionRepository(time.Hour), "", time.Hour)
	_, _, err := svc.Resolve("")
	assert.Error(t, err)
}
