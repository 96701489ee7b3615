package echoapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/staff"
)

const (
	teacherCookieName   = "teacherSession"
	principalCookieName = "principalSession"
	loginPath           = "/portal/login"

	sessionContextKey = "session"
)

// Session is the profile payload stored in the portal cookies. The cookie
// value is the base64 of the JSON encoding; it is not signed, so it must
// never carry anything the client should not see or forge.
// TODO: sign the payload with conf.SecretKey and verify on decode.
type Session struct {
	Staff     staff.Staff `json:"staff"`
	LoginTime time.Time   `json:"loginTime"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func newSession(s staff.Staff, conf *core.Config) Session {
	now := time.Now().UTC()
	return Session{
		Staff:     s,
		LoginTime: now,
		ExpiresAt: now.Add(conf.Session.ExpirationDelta),
	}
}

func (sess Session) Valid() bool {
	return sess.Staff.ID != "" && time.Now().UTC().Before(sess.ExpiresAt)
}

func (sess Session) Encode() (string, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return "", errors.Wrap(err, "encoding session")
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

func decodeSession(value string) (Session, error) {
	var sess Session
	data, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return sess, errors.Wrap(err, "decoding session")
	}
	if err = json.Unmarshal(data, &sess); err != nil {
		return sess, errors.Wrap(err, "decoding session")
	}
	return sess, nil
}

func cookieNameForRole(role string) string {
	if role == staff.RolePrincipal {
		return principalCookieName
	}
	return teacherCookieName
}

func newSessionCookie(sess Session, conf *core.Config) (*http.Cookie, error) {
	value, err := sess.Encode()
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     cookieNameForRole(sess.Staff.Role),
		Value:    value,
		Path:     "/",
		MaxAge:   int(conf.Session.ExpirationDelta / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !conf.Debug,
	}, nil
}

func setContextSession(ctx echo.Context, sess Session) {
	ctx.Set(sessionContextKey, sess)
}

func getContextSession(ctx echo.Context) (Session, bool) {
	sess, ok := ctx.Get(sessionContextKey).(Session)
	return sess, ok
}
