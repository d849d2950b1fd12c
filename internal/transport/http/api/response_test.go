package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"n": 1}, "req-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env struct {
		Success   bool           `json:"success"`
		Data      map[string]int `json:"data"`
		RequestID string         `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Data["n"] != 1 || env.RequestID != "req-1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestFailWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	FailWithDetails(rec, http.StatusBadRequest, "validation_error", "bad", map[string]any{"fields": []string{"amount"}}, "req-2")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"code":"validation_error"`) || !strings.Contains(body, `"fields":["amount"]`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Amount int `json:"amount"`
	}
	if err := Decode(strings.NewReader(`{"amount":1}`), &dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Decode(strings.NewReader(`{"amount":1,"extra":true}`), &dst); err == nil {
		t.Fatal("expected unknown field error")
	}
}
