package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	profileCookieName = "valley_profile"
	// profilePurpose is bound into every signed value.
	profilePurpose = "profile"
	profileTTL     = 365 * 24 * time.Hour
)

// sessionSigner issues and checks signed profile references of the form
// base64(purpose|id|expiry).base64(hmac).
type sessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newSessionSigner(secret string) *sessionSigner {
	return &sessionSigner{secret: []byte(secret), ttl: profileTTL, now: time.Now}
}

func (s *sessionSigner) mac(payload string) []byte {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(payload))
	return m.Sum(nil)
}

func (s *sessionSigner) sign(profileID string) string {
	expires := s.now().Add(s.ttl).Unix()
	claims := profilePurpose + "|" + profileID + "|" + strconv.FormatInt(expires, 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(claims))
	return payload + "." + base64.RawURLEncoding.EncodeToString(s.mac(payload))
}

// verify returns the profile id of a value this signer issued, provided it
// has not expired.
func (s *sessionSigner) verify(value string) (string, bool) {
	payload, signature, found := strings.Cut(value, ".")
	if !found {
		return "", false
	}
	provided, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil || !hmac.Equal(provided, s.mac(payload)) {
		return "", false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	parts := strings.Split(string(raw), "|")
	if len(parts) != 3 || parts[0] != profilePurpose || parts[1] == "" {
		return "", false
	}
	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || !s.now().Before(time.Unix(expires, 0)) {
		return "", false
	}
	return parts[1], true
}

// profileID returns the verified profile id carried by the request, if any.
func (s *sessionSigner) profileID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(profileCookieName)
	if err != nil {
		return "", false
	}
	return s.verify(cookie.Value)
}

func (s *sessionSigner) setProfileCookie(w http.ResponseWriter, profileID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     profileCookieName,
		Value:    s.sign(profileID),
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
