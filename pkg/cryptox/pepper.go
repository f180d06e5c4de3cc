package cryptox

import (
	"encoding/base64"
	"fmt"
	"sync"
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// SetPepper installs the server-wide pepper mixed into every password hash.
// Hashes created under one pepper do not verify under another.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// Pepper returns the current pepper (empty until SetPepper or LoadPepper).
func Pepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}

// LoadPepper reads the pepper from path, creating the file with a fresh random
// value the first time, and installs it.
func LoadPepper(path string) error {
	raw, err := LoadOrCreateFile(path, func() ([]byte, error) {
		b, err := RandomBytes(keyLength)
		if err != nil {
			return nil, err
		}
		return []byte(base64.RawURLEncoding.EncodeToString(b)), nil
	})
	if err != nil {
		return fmt.Errorf("cryptox: load pepper: %w", err)
	}

	SetPepper(string(raw))
	return nil
}
