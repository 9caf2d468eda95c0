package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/revisia/revisia-backend/internal/db"
	"github.com/revisia/revisia-backend/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, err := a.IssueJWT("u1", "student")
	if err != nil {
		t.Fatal(err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.Sub != "u1" || c.Role != "student" {
		t.Fatalf("claims: %+v", c)
	}

	if _, err := a.Parse("garbage"); err == nil {
		t.Fatal("garbage token accepted")
	}
	// token signed with a different secret
	other := NewAuthService("other-secret")
	tok2, _ := other.IssueJWT("u1", "student")
	if _, err := a.Parse(tok2); err == nil {
		t.Fatal("cross-secret token accepted")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := JWTMiddleware(a)(next)

	// no header
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header: %d", rec.Code)
	}

	// bad token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}

	tok, _ := a.IssueJWT("u7", "teacher")
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: %d", rec.Code)
	}
	if gotSub != "u7" || gotRole != "teacher" {
		t.Fatalf("context: sub=%q role=%q", gotSub, gotRole)
	}
}

func TestLoginHandler(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/test.db?cache=shared&mode=rwc"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer dbh.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dbh.Exec(`INSERT INTO users (id, username, pass_hash, role) VALUES ('u1','ada',$1,'student')`, string(hash)); err != nil {
		t.Fatal(err)
	}

	a := NewAuthService("test-secret")
	h := LoginHandler(a, dbh)

	login := func(username, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
		return rec
	}

	rec := login("ada", "correct-horse")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	c, err := a.Parse(resp["access_token"])
	if err != nil {
		t.Fatal(err)
	}
	if c.Sub != "u1" || c.Role != "student" {
		t.Fatalf("claims: %+v", c)
	}

	if rec := login("ada", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", rec.Code)
	}
	if rec := login("ghost", "whatever"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: %d", rec.Code)
	}
}
