package tests

import (
	"net/http"
	"testing"
	"time"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core/staff"
)

func Test_portalGuard(t *testing.T) {
	ta := setup(t)

	teacher := createStaff(t, ta.staffRepo, "Thérèse Kulungu", "tea@school.cd", staff.RoleTeacher)
	principal := createStaff(t, ta.staffRepo, "Papa Wemba", "pri@school.cd", staff.RolePrincipal)

	teacherCookie := login(t, ta.app, teacher.Email, "teacher")
	principalCookie := login(t, ta.app, principal.Email, "principal")

	expired := Session{
		Staff:     teacher,
		LoginTime: time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-24 * time.Hour),
	}
	expiredValue, err := expired.Encode()
	if err != nil {
		t.Fatalf("Encode(): %v", err)
	}

	tests := []struct {
		name         string
		path         string
		cookie       *http.Cookie
		wantRedirect bool
	}{
		{name: "teacher portal without cookie", path: "/teacher/dashboard", wantRedirect: true},
		{name: "principal portal without cookie", path: "/principal/reports", wantRedirect: true},
		{name: "teacher portal with garbage cookie", path: "/teacher/dashboard", wantRedirect: true,
			cookie: &http.Cookie{Name: "teacherSession", Value: "lol"}},
		{name: "teacher portal with expired cookie", path: "/teacher/dashboard", wantRedirect: true,
			cookie: &http.Cookie{Name: "teacherSession", Value: expiredValue}},
		{name: "teacher portal with teacher cookie", path: "/teacher/dashboard", cookie: teacherCookie},
		{name: "principal portal with principal cookie", path: "/principal/reports", cookie: principalCookie},
		{name: "teacher cookie does not open the principal portal", path: "/principal/reports",
			cookie: teacherCookie, wantRedirect: true},
		{name: "principal cookie does not open the teacher portal", path: "/teacher/dashboard",
			cookie: principalCookie, wantRedirect: true},
		{name: "login page is public", path: "/portal/login"},
		{name: "api is not guarded", path: "/v1/ping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newCookieRequest(http.MethodGet, tt.path, tt.cookie)
			ta.app.ServeHTTP(rec, req)

			if tt.wantRedirect {
				if rec.Code != http.StatusFound {
					t.Fatalf("code = %v; want %v", rec.Code, http.StatusFound)
				}
				if loc := rec.Header().Get("Location"); loc != "/portal/login" {
					t.Errorf("Location = %q; want %q", loc, "/portal/login")
				}
			} else if rec.Code == http.StatusFound {
				t.Errorf("unexpected redirect to %q", rec.Header().Get("Location"))
			}
		})
	}
}

func Test_home(t *testing.T) {
	ta := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %v; want 200", rec.Code)
	}
}

func Test_ping(t *testing.T) {
	ta := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/ping")
	ta.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]string{"ping": "pong"}),
	}, rec)
}
