package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const sessionTokenKey = "sid"

// SessionManager carries the opaque session token in a signed cookie. The
// OTP state itself lives in a repositories.SessionRepository.
type SessionManager struct {
	store sessions.Store
	name  string
}

func NewSessionManager(key []byte, name string, maxAge time.Duration, secure bool) *SessionManager {
	store := sessions.NewCookieStore(key)
	store.MaxAge(int(maxAge.Seconds()))

	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &SessionManager{store: store, name: name}
}

// Token returns the request's session token, or "" if it carries none. With
// create set, a new token is minted and the cookie written.
func (m *SessionManager) Token(w http.ResponseWriter, r *http.Request, create bool) (string, error) {
	session, err := m.store.Get(r, m.name)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session.
		log.Warn().Err(err).Msg("Discarding undecodable session cookie")
	}

	if token, ok := session.Values[sessionTokenKey].(string); ok && token != "" {
		return token, nil
	}
	if !create {
		return "", nil
	}

	token := uuid.NewString()
	session.Values[sessionTokenKey] = token
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return token, nil
}

// Destroy expires the session cookie.
func (m *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	session.Options.MaxAge = -1
	session.Values = map[interface{}]interface{}{}
	return session.Save(r, w)
}
