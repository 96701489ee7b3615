package echoapi

import (
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/staff"
)

func TestSession_codec(t *testing.T) {
	conf := &core.Config{Session: core.SessionConfig{ExpirationDelta: 24 * time.Hour}}
	sess := newSession(staff.Staff{ID: "stf-1", Name: "T", Email: "t@school.cd", Role: staff.RoleTeacher}, conf)

	value, err := sess.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := decodeSession(value)
	if err != nil {
		t.Fatalf("decodeSession() error = %v", err)
	}
	if decoded.Staff.ID != sess.Staff.ID || decoded.Staff.Email != sess.Staff.Email {
		t.Errorf("decoded staff = %+v, want %+v", decoded.Staff, sess.Staff)
	}
	if !decoded.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", decoded.ExpiresAt, sess.ExpiresAt)
	}
	if !decoded.Valid() {
		t.Error("decoded session not valid")
	}

	for _, garbage := range []string{"", "lol", "bm90IGpzb24"} {
		if _, err := decodeSession(garbage); err == nil {
			t.Errorf("decodeSession(%q) expected error", garbage)
		}
	}
}

func TestSession_Valid(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{name: "ok", sess: Session{Staff: staff.Staff{ID: "stf-1"}, ExpiresAt: now.Add(time.Hour)}, want: true},
		{name: "expired", sess: Session{Staff: staff.Staff{ID: "stf-1"}, ExpiresAt: now.Add(-time.Hour)}},
		{name: "no staff", sess: Session{ExpiresAt: now.Add(time.Hour)}},
		{name: "zero", sess: Session{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_newSessionCookie(t *testing.T) {
	conf := &core.Config{Session: core.SessionConfig{ExpirationDelta: 24 * time.Hour}}

	sess := newSession(staff.Staff{ID: "stf-1", Role: staff.RoleTeacher}, conf)
	cookie, err := newSessionCookie(sess, conf)
	if err != nil {
		t.Fatalf("newSessionCookie() error = %v", err)
	}
	if cookie.Name != teacherCookieName {
		t.Errorf("Name = %q, want %q", cookie.Name, teacherCookieName)
	}
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("HttpOnly = %v, Path = %q", cookie.HttpOnly, cookie.Path)
	}
	if cookie.MaxAge != 86400 {
		t.Errorf("MaxAge = %d, want 86400", cookie.MaxAge)
	}
	if !cookie.Secure { // Debug off
		t.Error("Secure not set outside debug mode")
	}

	sess = newSession(staff.Staff{ID: "stf-2", Role: staff.RolePrincipal}, conf)
	cookie, err = newSessionCookie(sess, conf)
	if err != nil {
		t.Fatalf("newSessionCookie() error = %v", err)
	}
	if cookie.Name != principalCookieName {
		t.Errorf("Name = %q, want %q", cookie.Name, principalCookieName)
	}

	conf.Debug = true
	cookie, err = newSessionCookie(sess, conf)
	if err != nil {
		t.Fatalf("newSessionCookie() error = %v", err)
	}
	if cookie.Secure {
		t.Error("Secure set in debug mode")
	}
}
