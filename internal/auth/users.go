package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Directory holds the accounts that can sign in. Email lookups are exact and
// case-sensitive.
type Directory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewDirectory builds a directory. Emails must be unique.
func NewDirectory(entries []Entry) (*Directory, error) {
	d := &Directory{}
	for _, e := range entries {
		if e.Email == "" {
			return nil, fmt.Errorf("user %d has no email", e.ID)
		}
		if _, ok := d.find(e.Email); ok {
			return nil, fmt.Errorf("duplicate user email: %s", e.Email)
		}
		d.entries = append(d.entries, e)
	}
	return d, nil
}

// DecodeDirectory parses directory entries. format is "json" or "yaml".
func DecodeDirectory(data []byte, format string) ([]Entry, error) {
	var out []Entry
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing users json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parsing users yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported users format %q", format)
	}
	return out, nil
}

// LoadDirectoryFile reads a JSON or YAML users file and builds a Directory.
func LoadDirectoryFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	entries, err := DecodeDirectory(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	return NewDirectory(entries)
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Has reports whether an entry with this exact email exists.
func (d *Directory) Has(email string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.find(email)
	return ok
}

// Authenticate returns the user whose email and secret both match.
func (d *Directory) Authenticate(email, secret string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.find(email)
	if !ok {
		return User{}, false
	}
	e := d.entries[i]
	if !checkSecret(e, secret) {
		return User{}, false
	}
	return e.User.clone(), true
}

// Registered returns the entries added through registration.
func (d *Directory) Registered() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Entry, 0)
	for _, e := range d.entries {
		if e.PasswordHash != "" {
			out = append(out, e)
		}
	}
	return out
}

// add appends a new entry, assigning the next ID. Callers check for duplicates.
func (d *Directory) add(e Entry) Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	e.ID = d.nextIDLocked()
	d.entries = append(d.entries, e)
	return e
}

// remove drops the entry with the given email.
func (d *Directory) remove(email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i, ok := d.find(email); ok {
		d.entries = append(d.entries[:i], d.entries[i+1:]...)
	}
}

// restore adds registered entries read back from the snapshot store,
// skipping emails already present.
func (d *Directory) restore(entries []Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range entries {
		if _, ok := d.find(e.Email); !ok {
			d.entries = append(d.entries, e)
		}
	}
}

// nextIDLocked is size+1, bumped past any higher ID already taken.
func (d *Directory) nextIDLocked() int64 {
	next := int64(len(d.entries)) + 1
	for _, e := range d.entries {
		if e.ID >= next {
			next = e.ID + 1
		}
	}
	return next
}

func (d *Directory) find(email string) (int, bool) {
	for i, e := range d.entries {
		if e.Email == email {
			return i, true
		}
	}
	return 0, false
}

func checkSecret(e Entry, secret string) bool {
	if e.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(secret)) == nil
	}
	if e.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(e.Password), []byte(secret)) == 1
}

func hashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}
