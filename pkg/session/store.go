// Package session holds the signed-in user's token and hands it to whatever
// issues upstream requests. The metrics engine never sees it.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sumatoshi-tech/xpfang/pkg/platform"
)

const (
	tokenDirName  = "xpfang"
	tokenFileName = "token"

	tokenFileMode = 0o600
	tokenDirMode  = 0o700
)

// ErrNoToken is returned when no usable token is stored.
var ErrNoToken = errors.New("not signed in")

// Store persists a single token.
type Store interface {
	Get() (platform.Token, error)
	Set(token platform.Token) error
	Clear() error
}

// DefaultTokenPath returns the token file under the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}

	return filepath.Join(dir, tokenDirName, tokenFileName), nil
}

// FileStore keeps the token in a file readable only by the owner.
type FileStore struct {
	Path string
}

// NewFileStore returns a store at path, or at DefaultTokenPath when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error

		path, err = DefaultTokenPath()
		if err != nil {
			return nil, err
		}
	}

	return &FileStore{Path: path}, nil
}

// Get implements Store.
func (s *FileStore) Get() (platform.Token, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}

	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}

	return platform.Token(token), nil
}

// Set implements Store.
func (s *FileStore) Set(token platform.Token) error {
	err := os.MkdirAll(filepath.Dir(s.Path), tokenDirMode)
	if err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	err = os.WriteFile(s.Path, []byte(token), tokenFileMode)
	if err != nil {
		return fmt.Errorf("write token: %w", err)
	}

	return nil
}

// Clear implements Store. Clearing a missing token is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}

	return nil
}

// MemoryStore keeps the token in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	token platform.Token
}

// NewMemoryStore returns a store holding token, which may be empty.
func NewMemoryStore(token platform.Token) *MemoryStore {
	return &MemoryStore{token: token}
}

// Get implements Store.
func (s *MemoryStore) Get() (platform.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return "", ErrNoToken
	}

	return s.token, nil
}

// Set implements Store.
func (s *MemoryStore) Set(token platform.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token

	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	return s.Set("")
}
