package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/apollo/internal/model"
)

type fakeResolver map[model.SessionID]string

func (f fakeResolver) WhoAmI(_ context.Context, sid model.SessionID) (string, error) {
	if name, ok := f[sid]; ok {
		return name, nil
	}
	return "", model.ErrInvalidSession
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   model.SessionID
	}{
		{"none", "", "", ""},
		{"bearer", "Bearer abc", "", "abc"},
		{"cookie", "", "def", "def"},
		{"bearer wins over cookie", "Bearer abc", "def", "abc"},
		{"other scheme ignored", "Basic xyz", "def", "def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, ExtractSessionID(req))
		})
	}
}

func TestAuth(t *testing.T) {
	resolver := fakeResolver{"good": "alice"}

	var gotUser string
	var gotSID model.SessionID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUsername(r.Context())
		gotSID = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(resolver)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, model.SessionID("good"), gotSID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestOptionalAuth(t *testing.T) {
	resolver := fakeResolver{"good": "alice"}

	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := OptionalAuth(resolver)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.True(t, ok)
}
