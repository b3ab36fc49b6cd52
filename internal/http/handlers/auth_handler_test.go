package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmind/advising-backend/internal/ai"
	"github.com/campusmind/advising-backend/internal/auth"
)

func newAuthTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(
		auth.NewDirectory(true),
		auth.NewTokenService("test-secret", time.Hour),
		nil, nil,
		ai.DefaultCatalog(),
	)
}

func authTestRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/verify", h.Verify)
	r.POST("/auth/refresh", h.Refresh)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	h := newAuthTestHandlers(t)
	r := authTestRouter(h)

	w := postJSON(t, r, "/auth/login", LoginRequest{
		Email:    "student001@st.example-u.ac.jp",
		Password: "password123",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.User.ID != "student001" || resp.User.Role != "student" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newAuthTestHandlers(t)
	r := authTestRouter(h)

	w := postJSON(t, r, "/auth/login", LoginRequest{
		Email:    "student001@st.example-u.ac.jp",
		Password: "nope",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h := newAuthTestHandlers(t)
	r := authTestRouter(h)

	w := postJSON(t, r, "/auth/login", map[string]string{"email": "a@b.c"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	h := newAuthTestHandlers(t)
	r := authTestRouter(h)

	id, _ := h.directory.Lookup("professor@fc.example-u.ac.jp")
	token, err := h.tokens.Issue(id)
	if err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, r, "/auth/verify", nil, map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp VerifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid || resp.User == nil || resp.User.ID != "professor001" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVerify_InvalidToken(t *testing.T) {
	h := newAuthTestHandlers(t)
	r := authTestRouter(h)

	w := postJSON(t, r, "/auth/verify", nil, map[string]string{"Authorization": "Bearer garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var resp VerifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Valid {
		t.Fatal("expected valid=false")
	}
}

func TestRefresh(t *testing.T) {
	h := newAuthTestHandlers(t)
	r := authTestRouter(h)

	id, _ := h.directory.Lookup("student001@st.example-u.ac.jp")
	token, err := h.tokens.Issue(id)
	if err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, r, "/auth/refresh", nil, map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RefreshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Token == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = postJSON(t, r, "/auth/refresh", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh without token: status = %d", w.Code)
	}
}
