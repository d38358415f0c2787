package disk

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store writes raw upload bytes under a root directory with a timestamped,
// collision-free name.
type Store struct {
	root string
}

// NewStore constructs the store and ensures the root directory exists.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("raw store: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Store persists data and returns the stored path.
func (s *Store) Store(data []byte, originalName string) (string, error) {
	safeName := unsafeChars.ReplaceAllString(originalName, "_")
	stamp := time.Now().UTC().Format("20060102T150405Z")
	path := filepath.Join(s.root, stamp+"_"+randomHex()+"_"+safeName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func randomHex() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
