// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package authcache provides an on-device credential cache for auth
// providers. [CachingProvider] decorates any [convex.AuthProvider] so
// that a successful interactive login is persisted, encrypted at rest,
// and LoginFromCache can restore the session without user interaction.
package authcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/internal/logger"
	"github.com/MKhiriev/convex-go/models"
)

// expiryLeeway rejects cached tokens that are about to expire, so a
// restored session does not die on its first request.
const expiryLeeway = 30 * time.Second

// CachingProvider decorates an inner [convex.AuthProvider] with a local
// encrypted credential cache.
type CachingProvider[T any] struct {
	inner    convex.AuthProvider[T]
	store    *Store
	keychain *keychain
	name     string
	log      *logger.Logger

	now func() time.Time
}

var _ convex.AuthProvider[struct{}] = (*CachingProvider[struct{}])(nil)

// NewCachingProvider wraps inner with the credential cache stored under
// name in store. The passphrase protects cached credentials at rest.
func NewCachingProvider[T any](inner convex.AuthProvider[T], store *Store, name, passphrase string, log *logger.Logger) *CachingProvider[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &CachingProvider[T]{
		inner:    inner,
		store:    store,
		keychain: newKeychain(passphrase),
		name:     name,
		log:      log,
		now:      time.Now,
	}
}

// Login performs an interactive login through the inner provider and
// caches the credentials on success. A cache write failure is logged,
// not returned: the login itself succeeded.
func (p *CachingProvider[T]) Login(ctx context.Context) (T, error) {
	credentials, err := p.inner.Login(ctx)
	if err != nil {
		return credentials, err
	}

	p.cache(ctx, credentials)
	return credentials, nil
}

// LoginFromCache restores the cached session if one exists and its token
// is still valid. Otherwise it falls through to the inner provider's own
// LoginFromCache and caches whatever that returns.
func (p *CachingProvider[T]) LoginFromCache(ctx context.Context) (T, error) {
	if credentials, ok := p.restore(ctx); ok {
		return credentials, nil
	}

	credentials, err := p.inner.LoginFromCache(ctx)
	if err != nil {
		return credentials, err
	}

	p.cache(ctx, credentials)
	return credentials, nil
}

// Logout drops the cached credentials and terminates the provider-side
// session.
func (p *CachingProvider[T]) Logout(ctx context.Context) error {
	if err := p.store.Delete(ctx, p.name); err != nil {
		p.log.Warn().Err(err).Str("cache", p.name).Msg("error dropping cached credentials")
	}
	return p.inner.Logout(ctx)
}

// ExtractIDToken delegates to the inner provider.
func (p *CachingProvider[T]) ExtractIDToken(credentials T) (string, error) {
	return p.inner.ExtractIDToken(credentials)
}

func (p *CachingProvider[T]) cache(ctx context.Context, credentials T) {
	payload, err := json.Marshal(credentials)
	if err != nil {
		p.log.Warn().Err(err).Str("cache", p.name).Msg("error encoding credentials for cache")
		return
	}

	blob, err := p.keychain.seal(payload)
	if err != nil {
		p.log.Warn().Err(err).Str("cache", p.name).Msg("error encrypting credentials")
		return
	}

	if err = p.store.Save(ctx, p.name, blob); err != nil {
		p.log.Warn().Err(err).Str("cache", p.name).Msg("error saving credentials")
	}
}

// restore loads, decrypts and validates the cached credentials. ok is
// false when there is nothing usable; the cause is logged.
func (p *CachingProvider[T]) restore(ctx context.Context) (T, bool) {
	var zero T

	blob, err := p.store.Load(ctx, p.name)
	if err != nil {
		p.log.Debug().Err(err).Str("cache", p.name).Msg("no cached session")
		return zero, false
	}

	payload, err := p.keychain.open(blob)
	if err != nil {
		p.log.Warn().Err(err).Str("cache", p.name).Msg("error decrypting cached credentials")
		return zero, false
	}

	var credentials T
	if err = json.Unmarshal(payload, &credentials); err != nil {
		p.log.Warn().Err(err).Str("cache", p.name).Msg("error decoding cached credentials")
		return zero, false
	}

	if err = p.checkExpiry(credentials); err != nil {
		p.log.Debug().Err(err).Str("cache", p.name).Msg("cached session unusable")
		return zero, false
	}

	return credentials, true
}

func (p *CachingProvider[T]) checkExpiry(credentials T) error {
	signed, err := p.inner.ExtractIDToken(credentials)
	if err != nil {
		return fmt.Errorf("extract id token: %w", err)
	}

	token, err := models.ParseIDToken(signed)
	if err != nil {
		return err
	}

	if !token.ExpiresAfter(p.now(), expiryLeeway) {
		return fmt.Errorf("cached token expired")
	}
	return nil
}
