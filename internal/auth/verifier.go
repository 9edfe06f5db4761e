// Package auth verifies externally-issued bearer tokens against the
// issuer's published key set and produces a verified identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/time/rate"

	"github.com/ErlanBelekov/habit-tracker/internal/identity"
	"github.com/ErlanBelekov/habit-tracker/internal/metrics"
)

var (
	ErrMalformedToken    = errors.New("malformed token")
	ErrAlgNotAllowed     = errors.New("token signed with disallowed algorithm")
	ErrUnknownKey        = errors.New("no verification key for token key id")
	ErrKeyFetchFailed    = errors.New("key set fetch failed")
	ErrKeyFetchThrottled = errors.New("key set fetch throttled")
	ErrTokenInvalid      = errors.New("token is invalid or expired")
)

// VerifierConfig carries the externally supplied trust parameters. All
// fields are required; config loading fails at startup if any is missing.
type VerifierConfig struct {
	JWKSURL  string
	Audience string
	Issuer   string

	// Allowed signature algorithms, e.g. ["RS256"]. Tokens declaring any
	// other algorithm are rejected before key resolution.
	Algorithms []string

	// Cap on outbound key-set fetches. Excess verifications fail closed
	// with ErrKeyFetchThrottled rather than hammering the issuer.
	FetchPerMinute int
	FetchTimeout   time.Duration
}

// Verifier validates bearer tokens and owns the process-wide signing key
// cache. Safe for concurrent use.
type Verifier struct {
	cfg     VerifierConfig
	allowed map[jwa.SignatureAlgorithm]struct{}
	limiter *rate.Limiter
	client  *http.Client
	logger  *slog.Logger

	mu   sync.RWMutex
	keys map[string]jwk.Key
}

func NewVerifier(cfg VerifierConfig, logger *slog.Logger) *Verifier {
	allowed := make(map[jwa.SignatureAlgorithm]struct{}, len(cfg.Algorithms))
	for _, a := range cfg.Algorithms {
		allowed[jwa.SignatureAlgorithm(a)] = struct{}{}
	}

	return &Verifier{
		cfg:     cfg,
		allowed: allowed,
		limiter: rate.NewLimiter(rate.Limit(cfg.FetchPerMinute)/60, cfg.FetchPerMinute),
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		logger:  logger.With("component", "token_verifier"),
		keys:    make(map[string]jwk.Key),
	}
}

// Verify checks rawToken's signature, algorithm, audience, issuer and
// expiry, and returns the verified identity. Any failure rejects the
// request; there is no partially-verified outcome.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (identity.Identity, error) {
	if rawToken == "" {
		return identity.Identity{}, ErrMalformedToken
	}

	msg, err := jws.Parse([]byte(rawToken))
	if err != nil || len(msg.Signatures()) == 0 {
		return identity.Identity{}, ErrMalformedToken
	}

	hdr := msg.Signatures()[0].ProtectedHeaders()

	alg := hdr.Algorithm()
	if _, ok := v.allowed[alg]; !ok {
		return identity.Identity{}, fmt.Errorf("%w: %s", ErrAlgNotAllowed, alg)
	}

	kid := hdr.KeyID()
	if kid == "" {
		return identity.Identity{}, ErrUnknownKey
	}

	key, err := v.keyFor(ctx, kid)
	if err != nil {
		return identity.Identity{}, err
	}

	tok, err := jwt.Parse([]byte(rawToken),
		jwt.WithKey(alg, key),
		jwt.WithValidate(true),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithIssuer(v.cfg.Issuer),
	)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	sub := tok.Subject()
	if sub == "" {
		return identity.Identity{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return identity.Identity{Subject: sub}, nil
}

// keyFor resolves the verification key for kid: cache hit, or a throttled
// fetch of the full key set on miss. Concurrent misses for the same kid may
// both fetch; last writer wins, which is harmless since both fetched the
// same published set. Failed fetches are never cached.
func (v *Verifier) keyFor(ctx context.Context, kid string) (jwk.Key, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	v.mu.RUnlock()
	if ok {
		return key, nil
	}

	if !v.limiter.Allow() {
		metrics.JWKSFetchesTotal.WithLabelValues("throttled").Inc()
		return nil, ErrKeyFetchThrottled
	}

	fetchCtx, cancel := context.WithTimeout(ctx, v.cfg.FetchTimeout)
	defer cancel()

	set, err := jwk.Fetch(fetchCtx, v.cfg.JWKSURL, jwk.WithHTTPClient(v.client))
	if err != nil {
		metrics.JWKSFetchesTotal.WithLabelValues("error").Inc()
		v.logger.WarnContext(ctx, "key set fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}
	metrics.JWKSFetchesTotal.WithLabelValues("ok").Inc()

	v.mu.Lock()
	for i := 0; i < set.Len(); i++ {
		k, ok := set.Key(i)
		if !ok || k.KeyID() == "" {
			continue
		}
		v.keys[k.KeyID()] = k
	}
	key, ok = v.keys[kid]
	metrics.SigningKeysCached.Set(float64(len(v.keys)))
	v.mu.Unlock()

	if !ok {
		return nil, ErrUnknownKey
	}
	return key, nil
}
