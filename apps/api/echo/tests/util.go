package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/contribution"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/staff"
	"github.com/trezcool/shule/core/student"
	emailsvc "github.com/trezcool/shule/services/email"
	invoicesvc "github.com/trezcool/shule/services/invoice"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

type testApp struct {
	app  Server
	conf *core.Config

	staffRepo   staff.Repository
	studentRepo student.Repository
	contribRepo contribution.Repository
	reportRepo  report.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := newTestConfig()

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	staffRepo := inmemdb.NewStaffRepository(db)
	studentRepo := inmemdb.NewStudentRepository(db)
	contribRepo := inmemdb.NewContributionRepository(db)
	reportRepo := inmemdb.NewReportRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	invSvc := invoicesvc.NewConsoleService(conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up server
	app := NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     testLogger{},
			StaffSvc:   staff.NewService(staffRepo, conf),
			StudentSvc: student.NewService(studentRepo),
			ContribSvc: contribution.NewService(contribRepo, studentRepo, conf),
			ReportSvc:  report.NewService(reportRepo, mailSvc, conf),
			InvoiceSvc: invSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	return &testApp{
		app:         app,
		conf:        conf,
		staffRepo:   staffRepo,
		studentRepo: studentRepo,
		contribRepo: contribRepo,
		reportRepo:  reportRepo,
	}
}

func newTestConfig() *core.Config {
	return &core.Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		Build:            "test",
		AppName:          "Shule",
		WorkDir:          core.Getwd(),
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Shule", Address: "noreply@test.cd"},
		PrincipalEmail:   mail.Address{Address: "principal@test.cd"},
		Session:          core.SessionConfig{ExpirationDelta: 24 * time.Hour},
		Contribution:     core.ContributionConfig{MonthlyAmount: 500},
		Auth:             core.AuthConfig{MaxLoginAttempts: 5, LoginAttemptWindow: 15 * time.Minute},
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

// Fixtures

func createStaff(t *testing.T, repo staff.Repository, name, email, role string) staff.Staff {
	t.Helper()

	now := time.Now().UTC()
	s := staff.Staff{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.SetPassword("s3cr3t"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	s, err := repo.CreateStaff(s)
	if err != nil {
		t.Fatalf("CreateStaff(): %v", err)
	}
	return s
}

func createStudent(t *testing.T, repo student.Repository, id, name, grade string) student.Student {
	t.Helper()

	st, err := repo.UpsertStudent(student.Student{ID: id, Name: name, GradeLevel: grade})
	if err != nil {
		t.Fatalf("UpsertStudent(): %v", err)
	}
	return st
}

func login(t *testing.T, app Server, email, rolePath string) *http.Cookie {
	t.Helper()

	body := marchallObj(t, map[string]string{"email": email, "password": "s3cr3t"})
	req, rec := newRequest(http.MethodPost, "/v1/auth/"+rolePath+"/login", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed! code = %v; body = %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "teacherSession" || cookie.Name == "principalSession" {
			return cookie
		}
	}
	t.Fatal("login failed! no session cookie set")
	return nil
}

// Request helpers

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newCookieRequest(method, path string, cookie *http.Cookie, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newCookieRequest(method, path, nil, data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
