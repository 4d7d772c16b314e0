package storefake

import (
	"sync"

	"github.com/luaraumc/pfc-client/credstore"
)

var _ credstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credstore.Store for tests.
type FakeStore struct {
	lock       sync.RWMutex
	credential *credstore.Credential
	profile    *credstore.Profile

	// SetCredentialCalls counts writes, letting tests assert how many times
	// a refresh replaced the credential.
	SetCredentialCalls int
	ClearCalls         int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (s *FakeStore) Credential() (credstore.Credential, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.credential == nil || s.credential.Token == "" {
		return credstore.Credential{}, false
	}
	return *s.credential, true
}

func (s *FakeStore) SetCredential(cred credstore.Credential) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if cred.Type == "" {
		if s.credential != nil && s.credential.Type != "" {
			cred.Type = s.credential.Type
		} else {
			cred.Type = credstore.DefaultTokenType
		}
	}

	s.credential = &cred
	s.SetCredentialCalls++
	return nil
}

func (s *FakeStore) Profile() (credstore.Profile, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.profile == nil {
		return credstore.Profile{}, false
	}
	return *s.profile, true
}

func (s *FakeStore) SetProfile(profile credstore.Profile) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.profile = &profile
	return nil
}

func (s *FakeStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.credential = nil
	s.profile = nil
	s.ClearCalls++
	return nil
}
