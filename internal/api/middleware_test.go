package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginGate(t *testing.T) {
	mw := OriginGate([]string{"https://app.example", "192.0.2.1"})
	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(next)

	serve := func(r *http.Request) *httptest.ResponseRecorder {
		reached = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec
	}

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		req.Header.Set("Origin", "https://app.example")
		rec := serve(req)
		if rec.Code != http.StatusOK || !reached {
			t.Errorf("code %d reached %v", rec.Code, reached)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := serve(req)
		if rec.Code != http.StatusForbidden || reached {
			t.Fatalf("code %d reached %v", rec.Code, reached)
		}
		var res ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if res.Error != "origin not allowed" {
			t.Errorf("error = %q", res.Error)
		}
	})

	t.Run("originless keyed by source address", func(t *testing.T) {
		// httptest requests come from 192.0.2.1, which is on the list.
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		rec := serve(req)
		if rec.Code != http.StatusOK || !reached {
			t.Errorf("code %d reached %v", rec.Code, reached)
		}
	})

	t.Run("originless from unknown address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := serve(req)
		if rec.Code != http.StatusForbidden || reached {
			t.Errorf("code %d reached %v", rec.Code, reached)
		}
	})

	t.Run("health bypass", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := serve(req)
		if rec.Code != http.StatusOK || !reached {
			t.Errorf("code %d reached %v", rec.Code, reached)
		}
	})
}

func TestOriginGate_emptyListAdmitsAll(t *testing.T) {
	mw := OriginGate(nil)
	var reached bool
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !reached {
		t.Error("origin should pass with empty list")
	}

	reached = false
	req = httptest.NewRequest(http.MethodPost, "/tasks", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !reached {
		t.Error("originless call should pass with empty list")
	}
}

func TestRouter_gateRejectsBeforeWriter(t *testing.T) {
	fake := &fakeWriter{}
	router := NewRouter(NewHandler(fake), []string{"https://app.example"}, testLogger())

	body := bytes.NewBufferString(`{"files":[{"path":"a.md","content":"hi"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks", body)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("code %d", rec.Code)
	}
	if fake.got != nil {
		t.Error("writer must not run for rejected origins")
	}
}

func TestClientAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:9999"
	if got := clientAddr(req); got != "10.1.2.3" {
		t.Errorf("clientAddr = %q", got)
	}
	req.RemoteAddr = "10.1.2.3"
	if got := clientAddr(req); got != "10.1.2.3" {
		t.Errorf("clientAddr without port = %q", got)
	}
}
