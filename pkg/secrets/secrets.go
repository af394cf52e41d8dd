// Package secrets resolves named credentials from the sources captured at
// startup: the process environment, a dotenv file and the OS keyring.
package secrets

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// Source looks up a credential by name. A value is only reported present
// when it is non-empty.
type Source interface {
	Lookup(name string) (string, bool)
}

// Map is a fixed set of credentials.
type Map map[string]string

func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FromEnviron snapshots KEY=VALUE pairs, as returned by os.Environ.
func FromEnviron(environ []string) Map {
	m := make(Map, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

// Environ snapshots the current process environment.
func Environ() Map {
	return FromEnviron(os.Environ())
}

// ReadDotenv parses the dotenv file at path. A missing file yields an empty
// set.
func ReadDotenv(path string) (Map, error) {
	if path == "" {
		return Map{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Map{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read dotenv file %s", path)
	}
	return Map(vars), nil
}

// Chain consults each source in order and returns the first present value.
type Chain []Source

func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// Keyring reads credentials stored under Service in the OS keyring, using
// the credential name as the keyring user.
type Keyring struct {
	Service string
}

func (k Keyring) Lookup(name string) (string, bool) {
	v, err := keyring.Get(k.Service, name)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

// Snapshot resolves names through src once and returns the result as a Map
// so later lookups never touch ambient state again.
func Snapshot(src Source, names ...string) Map {
	m := make(Map, len(names))
	for _, name := range names {
		if v, ok := src.Lookup(name); ok {
			m[name] = v
		}
	}
	return m
}
