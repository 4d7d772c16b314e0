package config

import "time"

type SessionConfig interface {
	GetExpirySkew() time.Duration
	GetLoginPath() string
	GetUserHomePath() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetExpirySkew() time.Duration {
	return 30 * time.Second
}

func (Session) GetLoginPath() string {
	return "/login"
}

func (Session) GetUserHomePath() string {
	return "/homeUsuario"
}
