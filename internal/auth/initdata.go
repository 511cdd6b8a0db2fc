// Package auth verifies Telegram Mini App launch payloads (initData).
// Verification is pure and runs on every mutating request; nothing is
// cached between requests.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// signatureDomain is the fixed domain-separation constant Telegram uses
// when deriving the per-bot signing key.
const signatureDomain = "WebAppData"

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrMissingSignature  = errors.New("credential has no hash field")
	ErrBadSignature      = errors.New("credential signature mismatch")
	ErrMissingIdentity   = errors.New("credential carries no user identity")
)

// User is the identity record embedded in the signed payload.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

// Verify checks initData against the bot token and returns the embedded
// user. The signature covers every field except hash, canonicalized as
// sorted key=value lines joined by newlines.
func Verify(initData, botToken string) (User, error) {
	if strings.TrimSpace(initData) == "" {
		return User{}, ErrMissingCredential
	}
	fields, err := url.ParseQuery(initData)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}
	if len(fields) == 0 {
		return User{}, ErrMissingCredential
	}
	gotHex := fields.Get("hash")
	if gotHex == "" {
		return User{}, ErrMissingSignature
	}
	fields.Del("hash")

	got, err := hex.DecodeString(gotHex)
	if err != nil {
		return User{}, ErrBadSignature
	}
	if !hmac.Equal(got, signature(fields, botToken)) {
		return User{}, ErrBadSignature
	}

	rawUser := fields.Get("user")
	if rawUser == "" {
		return User{}, ErrMissingIdentity
	}
	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrMissingIdentity, err)
	}
	if user.ID == 0 {
		return User{}, ErrMissingIdentity
	}
	return user, nil
}

// Sign produces a credential blob Verify accepts. Used by tests and the
// tapctl sign command; the production payload comes from Telegram.
func Sign(fields url.Values, botToken string) string {
	signed := url.Values{}
	for k, vs := range fields {
		if k == "hash" {
			continue
		}
		signed[k] = append([]string(nil), vs...)
	}
	sum := signature(signed, botToken)
	signed.Set("hash", hex.EncodeToString(sum))
	return signed.Encode()
}

func signature(fields url.Values, botToken string) []byte {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for i, k := range keys {
		if i > 0 {
			canonical.WriteByte('\n')
		}
		canonical.WriteString(k)
		canonical.WriteByte('=')
		canonical.WriteString(fields.Get(k))
	}

	secret := hmacSHA256([]byte(botToken), []byte(signatureDomain))
	return hmacSHA256(secret, []byte(canonical.String()))
}

func hmacSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
