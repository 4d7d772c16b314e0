package credstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/luaraumc/pfc-client/internal/apperrors"
)

const stateFileName = "session.json"

type fileState struct {
	Credential *Credential `json:"credential,omitempty"`
	Profile    *Profile    `json:"profile,omitempty"`
}

// FileStore persists session state as a JSON file under a data folder, so a
// session survives process restarts. All mutations are write-through with an
// atomic temp-file rename.
type FileStore struct {
	path string

	mu    sync.RWMutex
	state fileState
}

// NewFileStore creates the data folder if needed and loads any previously
// persisted state. A missing or unreadable state file starts a fresh store.
func NewFileStore(dataFolder string) (*FileStore, error) {
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, apperrors.Wrapf(err, "credstore data folder %q", dataFolder)
	}

	s := &FileStore{path: filepath.Join(dataFolder, stateFileName)}

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		// A corrupt state file is discarded rather than surfaced: the
		// worst case is a forced re-login.
		_ = json.Unmarshal(data, &s.state)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, apperrors.Wrapf(err, "credstore read %q", s.path)
	}

	return s, nil
}

func (s *FileStore) Credential() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Credential == nil || s.state.Credential.Token == "" {
		return Credential{}, false
	}
	return *s.state.Credential, true
}

func (s *FileStore) SetCredential(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred.Type == "" {
		if s.state.Credential != nil && s.state.Credential.Type != "" {
			cred.Type = s.state.Credential.Type
		} else {
			cred.Type = DefaultTokenType
		}
	}

	previous := s.state.Credential
	s.state.Credential = &cred
	if err := s.persist(); err != nil {
		s.state.Credential = previous
		return err
	}
	return nil
}

func (s *FileStore) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Profile == nil {
		return Profile{}, false
	}
	return *s.state.Profile, true
}

func (s *FileStore) SetProfile(profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state.Profile
	s.state.Profile = &profile
	if err := s.persist(); err != nil {
		s.state.Profile = previous
		return err
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fileState{}
	return s.persist()
}

// persist writes the state file atomically. Callers must hold the write lock.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return apperrors.Wrapf(err, "credstore marshal state")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), stateFileName+".*")
	if err != nil {
		return apperrors.Wrapf(err, "credstore temp file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "credstore write state")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "credstore close state")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return apperrors.Wrapf(err, "credstore replace state")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
