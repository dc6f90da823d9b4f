// Package storage provides blob storage for rendered prescription PDFs,
// keyed by paths of the form prescriptions/{id}.pdf. Stored objects are read
// through long-lived signed URLs.
package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/spf13/afero"
)

var (
	ErrNotFound      = errors.New("blob not found")
	ErrBadSignature  = errors.New("invalid signature")
	ErrLinkExpired   = errors.New("link expired")
	ErrNotConfigured = errors.New("blob storage not configured")
)

// signedURLTTL keeps parity with the hosted backend this replaces, which
// issued effectively non-expiring read links.
const signedURLTTL = 100 * 365 * 24 * time.Hour

// BlobStore persists binary objects and issues signed read URLs.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (signedURL string, err error)
	Open(ctx context.Context, key string) ([]byte, error)
	Verify(key, expires, signature string) error
}

// FileStore keeps blobs on an afero filesystem, which maps to the local disk
// in production and an in-memory filesystem in tests.
type FileStore struct {
	fs      afero.Fs
	root    string
	baseURL string
	secret  []byte
}

type Config struct {
	Root    string `mapstructure:"root"`
	BaseURL string `mapstructure:"base_url"`
	Secret  string `mapstructure:"secret"`
}

func NewFileStore(fs afero.Fs, cfg Config) *FileStore {
	return &FileStore{
		fs:      fs,
		root:    cfg.Root,
		baseURL: cfg.BaseURL,
		secret:  []byte(cfg.Secret),
	}
}

func (s *FileStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	full := path.Join(s.root, key)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return s.signedURL(key), nil
}

func (s *FileStore) Open(ctx context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path.Join(s.root, key))
	if err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *FileStore) signedURL(key string) string {
	expires := strconv.FormatInt(time.Now().Add(signedURLTTL).Unix(), 10)
	sig := s.sign(key, expires)
	return fmt.Sprintf("%s/files/%s?expires=%s&sig=%s", s.baseURL, key, expires, url.QueryEscape(sig))
}

func (s *FileStore) sign(key, expires string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key + ":" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a read link's signature and expiry.
func (s *FileStore) Verify(key, expires, signature string) error {
	if !hmac.Equal([]byte(s.sign(key, expires)), []byte(signature)) {
		return ErrBadSignature
	}
	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || time.Now().After(time.Unix(unix, 0)) {
		return ErrLinkExpired
	}
	return nil
}
