package files

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/clinic-api/internal/storage"
)

func newFixture(t *testing.T) (*gin.Engine, *storage.FileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewFileStore(afero.NewMemMapFs(), storage.Config{
		Root:    "blobs",
		BaseURL: "http://localhost:8080/api/v1",
		Secret:  "test-secret",
	})

	r := gin.New()
	NewHandler(store).RegisterRoutes(r.Group("/api/v1"))
	return r, store
}

// sign reproduces the store's link signature for a given secret.
func sign(secret, key, expires string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(key + ":" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedQuery extracts the expires and sig parameters from a signed URL.
func signedQuery(t *testing.T, signedURL string) (expires, sig string) {
	t.Helper()
	u, err := url.Parse(signedURL)
	require.NoError(t, err)
	return u.Query().Get("expires"), u.Query().Get("sig")
}

func TestServeSignedURL(t *testing.T) {
	r, store := newFixture(t)

	signedURL, err := store.Put(context.Background(), "prescriptions/rx-1.pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	expires, sig := signedQuery(t, signedURL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/files/prescriptions/rx-1.pdf?expires="+expires+"&sig="+url.QueryEscape(sig), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestServeTamperedSignature(t *testing.T) {
	r, store := newFixture(t)

	signedURL, err := store.Put(context.Background(), "prescriptions/rx-1.pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	expires, _ := signedQuery(t, signedURL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/files/prescriptions/rx-1.pdf?expires="+expires+"&sig=deadbeef", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServeExpiredLink(t *testing.T) {
	r, store := newFixture(t)

	// Fabricate a stale link: the signature is genuine for this expires
	// value, only the expiry check should reject it.
	_, err := store.Put(context.Background(), "prescriptions/rx-1.pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)

	expires := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	sig := sign("test-secret", "prescriptions/rx-1.pdf", expires)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/files/prescriptions/rx-1.pdf?expires="+expires+"&sig="+url.QueryEscape(sig), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestServeMissingFile(t *testing.T) {
	r, store := newFixture(t)

	// Sign a key that was never stored; the signature is valid but the blob
	// does not exist.
	_, err := store.Put(context.Background(), "prescriptions/rx-1.pdf", []byte("x"))
	require.NoError(t, err)

	expires := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	sig := sign("test-secret", "prescriptions/ghost.pdf", expires)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/files/prescriptions/ghost.pdf?expires="+expires+"&sig="+url.QueryEscape(sig), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeStorageNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewHandler(nil).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/prescriptions/rx-1.pdf", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
