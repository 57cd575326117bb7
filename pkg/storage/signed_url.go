package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner mints and checks HMAC download tokens. A token carries
// the job ID, an expiry timestamp and the export's relative path, so the
// download endpoint needs no extra lookup to locate the file.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner builds a signer. A non-positive TTL falls back to 24h.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Generate returns a token of the form jobID.expiry.b64path.signature.
func (s *SignedURLSigner) Generate(jobID, relPath string) (string, time.Time, error) {
	if jobID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("jobID and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	expiry := strconv.FormatInt(expiresAt.Unix(), 10)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	sig := s.sign(jobID, expiry, encoded)
	return strings.Join([]string{jobID, expiry, encoded, sig}, "."), expiresAt, nil
}

// Parse checks the token signature and expiry and returns the embedded
// fields. Cleanup passes allowExpired to reclaim files behind stale
// tokens.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("malformed token")
	}
	jobID, expiry, encoded, sig := parts[0], parts[1], parts[2], parts[3]

	rawPath, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode token path: %w", err)
	}
	expUnix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid token timestamp")
	}
	expiresAt = time.Unix(expUnix, 0)

	if !hmac.Equal([]byte(s.sign(jobID, expiry, encoded)), []byte(sig)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return jobID, string(rawPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(jobID, expiry, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", jobID, expiry, encodedPath)
	return hex.EncodeToString(mac.Sum(nil))
}
