// Package auth implements the dashboard's login scheme: one static
// password shared by staff, exchanged for an expiring HMAC-signed
// bearer token.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wachat/internal/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keyIterations = 10000
	keyLength     = 32
)

// tokenSalt only namespaces the derived key; the secret carries the
// entropy.
var tokenSalt = []byte("wachat-token-v1")

type Authenticator struct {
	password   string
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthenticator(password, secret string, tokenTTL time.Duration) *Authenticator {
	return &Authenticator{
		password:   password,
		signingKey: pbkdf2.Key([]byte(secret), tokenSalt, keyIterations, keyLength, sha256.New),
		tokenTTL:   tokenTTL,
	}
}

// Login checks the password and issues a bearer token.
func (a *Authenticator) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", errors.NewAuthError("wrong password")
	}
	return a.issue(time.Now().Add(a.tokenTTL)), nil
}

// Verify checks a bearer token's signature and expiry.
func (a *Authenticator) Verify(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return errors.NewAuthError("malformed token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return errors.NewAuthError("malformed token payload")
	}

	expected := a.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
		return errors.NewAuthError("invalid token signature")
	}

	fields := strings.Split(string(payload), ":")
	if len(fields) != 2 {
		return errors.NewAuthError("malformed token payload")
	}

	expiry, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return errors.NewAuthError("malformed token expiry")
	}
	if time.Now().Unix() > expiry {
		return errors.NewAuthError("token expired")
	}

	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", errors.NewAuthError("missing bearer token")
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

func (a *Authenticator) issue(expiry time.Time) string {
	payload := []byte(fmt.Sprintf("%s:%d", uuid.NewString(), expiry.Unix()))
	return base64.RawURLEncoding.EncodeToString(payload) + "." + a.sign(payload)
}

func (a *Authenticator) sign(payload []byte) string {
	mac := hmac.New(sha256.New, a.signingKey)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
