// Package auth implements the access gate: a single shared passphrase
// behind an injectable Authenticator so credential storage can be
// replaced without touching the pipeline.
package auth

import (
	"crypto/subtle"
)

// Authenticator decides whether a presented credential grants access.
type Authenticator interface {
	Authenticate(credential string) bool
}

// StaticPassphrase authenticates against one shared passphrase. There
// are no accounts; everyone who knows the passphrase is the operator.
type StaticPassphrase struct {
	passphrase string
}

func NewStaticPassphrase(passphrase string) *StaticPassphrase {
	return &StaticPassphrase{passphrase: passphrase}
}

func (a *StaticPassphrase) Authenticate(credential string) bool {
	if a.passphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(a.passphrase)) == 1
}
