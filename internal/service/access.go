package service

import "errors"

// DefaultAccessPassword is the shared quiz password used when none is configured.
const DefaultAccessPassword = "quiz2024"

var ErrWrongPassword = errors.New("wrong password")

// AccessService is the static password gate in front of the quiz.
// It keeps casual visitors out and is not meant as authentication.
type AccessService struct {
	password string
	store    AccessStore
}

// NewAccessService creates the gate. An empty password disables it.
func NewAccessService(password string, store AccessStore) *AccessService {
	return &AccessService{password: password, store: store}
}

func (s *AccessService) Enabled() bool {
	return s.password != ""
}

// Check reports whether password opens the gate.
func (s *AccessService) Check(password string) bool {
	return !s.Enabled() || password == s.password
}

// Login grants key access when the password matches.
func (s *AccessService) Login(key, password string) error {
	if !s.Check(password) {
		return ErrWrongPassword
	}
	s.store.Grant(key)
	return nil
}

func (s *AccessService) Logout(key string) {
	s.store.Revoke(key)
}

// Authorized reports whether key has passed the gate.
func (s *AccessService) Authorized(key string) bool {
	return !s.Enabled() || s.store.Granted(key)
}
