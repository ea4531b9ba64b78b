// Package session holds the client-side session cache: a local mirror of the
// server-issued credential, identity, and questionnaire progress. The cache
// is never authoritative — every mutation writes through only after the
// server confirms, and a failed resume reverts to the unauthenticated state.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studybridge/apply-platform/internal/client/api"
	"github.com/studybridge/apply-platform/internal/core/domain"
)

const (
	keyToken         = "token"
	keyUser          = "user"
	profileKeyPrefix = "profile_"
)

// Session is the explicit session object replacing ad-hoc global state: one
// instance per client process, mutated only through its methods, torn down
// by SignOut.
type Session struct {
	client  *api.Client
	store   Store
	user    *domain.User
	profile *domain.Profile
}

// New builds a Session over the given API client and local store. Call
// Resume afterwards to pick up a persisted session.
func New(client *api.Client, store Store) *Session {
	return &Session{client: client, store: store}
}

// User returns the cached identity, or nil when unauthenticated.
func (s *Session) User() *domain.User { return s.user }

// Profile returns the cached profile snapshot, possibly nil.
func (s *Session) Profile() *domain.Profile { return s.profile }

// IsAuthenticated reports whether a signed-in identity is loaded.
func (s *Session) IsAuthenticated() bool { return s.user != nil }

// Resume restores a persisted session. A stored credential is only trusted
// after the server confirms it: a 401 clears the whole cache so stale
// identity data can never masquerade as a live session. Absence of a
// credential, and a rejected token, are both reported as ok=false with a nil
// error; transport failures and other server faults error, keeping the cache.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	token, err := s.store.Get(ctx, keyToken)
	if err != nil {
		return false, err
	}
	if token == nil {
		return false, nil
	}

	s.client.SetToken(string(token))
	account, err := s.client.Account(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			// Server saw the token and said no: drop everything.
			if clearErr := s.clearLocal(ctx); clearErr != nil {
				return false, clearErr
			}
			return false, nil
		}
		// Transport failure or a server-side fault: the credential may still
		// be good, so keep the cache for the next attempt.
		s.client.ClearToken()
		return false, err
	}

	s.user = &account.User
	s.profile = account.Profile
	if err := s.cacheAccount(ctx, &account.User, account.Profile); err != nil {
		return true, err
	}
	return true, nil
}

// SignUp registers a new account and persists the fresh session.
func (s *Session) SignUp(ctx context.Context, input api.RegisterInput) error {
	payload, err := s.client.Register(ctx, input)
	if err != nil {
		return err
	}
	return s.adopt(ctx, payload)
}

// SignIn authenticates and persists the fresh session.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	payload, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, payload)
}

// SignOut tears the session down. The server is notified best-effort (a
// bearer credential cannot be revoked server-side anyway); the local
// credential and snapshots are always destroyed.
func (s *Session) SignOut(ctx context.Context) error {
	if s.IsAuthenticated() {
		_ = s.client.Logout(ctx)
	}
	return s.clearLocal(ctx)
}

// ResumeRegistration returns the wizard step the UI should re-enter at,
// from the cached snapshot. Purely advisory; defaults to the first step.
func (s *Session) ResumeRegistration() int {
	if s.profile != nil && domain.ValidStep(s.profile.CurrentStep) {
		return s.profile.CurrentStep
	}
	return domain.FirstStep
}

// RefreshProfile fetches the authoritative profile from the server,
// replacing the local snapshot.
func (s *Session) RefreshProfile(ctx context.Context) (*domain.Profile, error) {
	profile, err := s.client.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return profile, s.cacheProfile(ctx, profile)
}

// UpdateProfile writes profile fields through to the server, updating the
// local snapshot only on success.
func (s *Session) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	return profile, s.cacheProfile(ctx, profile)
}

// SaveStep submits a questionnaire step, mirroring the confirmed result.
func (s *Session) SaveStep(ctx context.Context, step int, data api.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.client.SaveStep(ctx, step, data)
	if err != nil {
		return nil, err
	}
	return profile, s.cacheProfile(ctx, profile)
}

// Complete finishes the questionnaire, mirroring the confirmed result.
func (s *Session) Complete(ctx context.Context, data api.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.client.Complete(ctx, data)
	if err != nil {
		return nil, err
	}
	return profile, s.cacheProfile(ctx, profile)
}

// Progress fetches the authoritative progress, refreshing the snapshot.
func (s *Session) Progress(ctx context.Context) (*api.ProgressPayload, error) {
	progress, err := s.client.Progress(ctx)
	if err != nil {
		return nil, err
	}
	if progress.Profile != nil {
		if err := s.cacheProfile(ctx, progress.Profile); err != nil {
			return nil, err
		}
	}
	return progress, nil
}

func (s *Session) adopt(ctx context.Context, payload *api.AuthPayload) error {
	s.client.SetToken(payload.Token)
	s.user = &payload.User
	s.profile = payload.Profile

	if err := s.store.Set(ctx, keyToken, []byte(payload.Token)); err != nil {
		return err
	}
	return s.cacheAccount(ctx, &payload.User, payload.Profile)
}

func (s *Session) cacheAccount(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	if err := s.putJSON(ctx, keyUser, user); err != nil {
		return err
	}
	if profile != nil {
		return s.cacheProfile(ctx, profile)
	}
	return nil
}

func (s *Session) cacheProfile(ctx context.Context, profile *domain.Profile) error {
	if s.user == nil {
		return fmt.Errorf("session: no authenticated user to cache profile for")
	}
	s.profile = profile
	return s.putJSON(ctx, profileKeyPrefix+s.user.ID, profile)
}

func (s *Session) clearLocal(ctx context.Context) error {
	s.user = nil
	s.profile = nil
	s.client.ClearToken()
	return s.store.Clear(ctx)
}

func (s *Session) putJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	return s.store.Set(ctx, key, raw)
}
