package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/model"
	"github.com/ajjer/car-rental-api/internal/utils"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// run sends a request through the given middleware chain and returns
// the recorder.
func run(t *testing.T, req *http.Request, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := echo.HandlerFunc(okHandler)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := run(t, req, JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := run(t, req, JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "RENTER", 5)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := run(t, req, JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthValidTokenSetsClaims(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "HOST", 5)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRole interface{}
	var gotID uint64
	inner := func(c echo.Context) error {
		gotRole = c.Get("role")
		id, err := contextUserID(c)
		if err != nil {
			t.Fatalf("contextUserID: %v", err)
		}
		gotID = id
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(testSecret)(inner)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotRole != "HOST" {
		t.Errorf("expected role HOST, got %v", gotRole)
	}
	if gotID != 7 {
		t.Errorf("expected user_id 7, got %d", gotID)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name string
		role interface{}
		want int
	}{
		{"allowed", "HOST", http.StatusOK},
		{"denied", "RENTER", http.StatusForbidden},
		{"missing", nil, http.StatusForbidden},
		{"not a string", 42, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			if err := RequireRole("HOST")(okHandler)(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

// fakeUsers implements userGetter with a fixed answer.
type fakeUsers struct {
	user model.User
	err  error
}

func (f *fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return f.user, f.err
}

func TestRequireActive(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	cases := []struct {
		name  string
		users *fakeUsers
		want  int
	}{
		{"active", &fakeUsers{user: model.User{Status: model.StatusActive}}, http.StatusOK},
		{"banned", &fakeUsers{user: model.User{Status: model.StatusBanned}}, http.StatusForbidden},
		{"frozen", &fakeUsers{user: model.User{Status: model.StatusFrozen, FrozenUntil: &future}}, http.StatusForbidden},
		{"freeze expired", &fakeUsers{user: model.User{Status: model.StatusFrozen, FrozenUntil: &past}}, http.StatusOK},
		{"unknown user", &fakeUsers{err: errors.New("no such user")}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("user_id", uint64(1))
			if err := RequireActive(tc.users)(okHandler)(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRequireActiveNoUserInContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := RequireActive(&fakeUsers{})(okHandler)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
