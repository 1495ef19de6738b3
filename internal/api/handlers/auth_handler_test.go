package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestForgotPasswordSendsEmail(t *testing.T) {
	email := &stubEmailService{}
	router := newTestRouterWithEmail(&stubAIService{}, email)

	rec, body := doJSON(t, router, "POST", "/api/forgot-password", "", map[string]string{
		"username": "demo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot-password failed with status %d: %v", rec.Code, body)
	}
	if body["success"] != true {
		t.Errorf("expected success, got %v", body)
	}
	if body["message"] != "We sent an email with further instructions" {
		t.Errorf("unexpected message: %v", body["message"])
	}

	// フォールバックのdemoユーザー宛に送信されていること
	if len(email.sent) != 1 || email.sent[0] != "demo@example.com" {
		t.Errorf("expected one mail to demo@example.com, got %v", email.sent)
	}
}

func TestForgotPasswordMailFailure(t *testing.T) {
	email := &stubEmailService{err: fmt.Errorf("smtp connection refused")}
	router := newTestRouterWithEmail(&stubAIService{}, email)

	rec, body := doJSON(t, router, "POST", "/api/forgot-password", "", map[string]string{
		"username": "demo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %v", rec.Code, body)
	}

	// メール送信の失敗はリクエストを落とさず、エラーメッセージで返る
	if body["success"] != false {
		t.Errorf("expected failure response, got %v", body)
	}
	errMsg, _ := body["error"].(string)
	if !strings.Contains(errMsg, "Failed to send email") {
		t.Errorf("expected mail failure message, got %q", errMsg)
	}
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	email := &stubEmailService{}
	router := newTestRouterWithEmail(&stubAIService{}, email)

	rec, body := doJSON(t, router, "POST", "/api/forgot-password", "", map[string]string{
		"username": "nobody",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %v", rec.Code, body)
	}
	if body["success"] != false {
		t.Errorf("expected failure for unknown user, got %v", body)
	}
	if body["error"] != "No account found for that username" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
	if len(email.sent) != 0 {
		t.Errorf("no mail should be sent for an unknown user, got %v", email.sent)
	}
}

func TestForgotPasswordRequiresUsername(t *testing.T) {
	router := newTestRouter(&stubAIService{})

	rec, _ := doJSON(t, router, "POST", "/api/forgot-password", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing username, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&stubAIService{})

	req := httptest.NewRequest("OPTIONS", "/api/challenges", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected preflight 200, got %d", rec.Code)
	}
	methods := rec.Header().Get("Access-Control-Allow-Methods")
	if methods != "POST, GET, OPTIONS" {
		t.Errorf("expected only the served methods to be advertised, got %q", methods)
	}
	if rec.Header().Get("Access-Control-Allow-Headers") != "Content-Type, Authorization" {
		t.Errorf("unexpected allowed headers: %q", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}
