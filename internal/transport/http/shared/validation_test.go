package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatorCollectsSortedIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", " ", "is required")
	v.Enum("currency", "EUR", []string{"VND", "USD"}, "must be VND or USD")
	v.Enum("zone", "", []string{"1"}, "ignored when empty")
	v.NonNegative("amount", decimal.NewFromInt(-1))
	v.IntRange("dependents", 21, 0, 20)

	issues := v.Issues()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %+v", len(issues), issues)
	}
	want := []string{"amount", "currency", "dependents", "name"}
	for i, field := range want {
		if issues[i].Field != field {
			t.Fatalf("issue %d: expected %s, got %s", i, field, issues[i].Field)
		}
	}
}

func TestValidatorEnumIsCaseInsensitive(t *testing.T) {
	v := NewValidator()
	v.Enum("currency", "usd", []string{"VND", "USD"}, "bad")
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
}

func TestValidatorMonthYearOrder(t *testing.T) {
	v := NewValidator()
	v.MonthYearOrder("from", 2024, 6, "to", 2024, 6)
	if v.HasIssues() {
		t.Fatal("same month should be valid")
	}
	v.MonthYearOrder("from", 2024, 6, "to", 2023, 12)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected both ends flagged, got %+v", v.Issues())
	}
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req") {
		t.Fatal("empty validator should not reject")
	}

	v.Add("amount", "must not be negative")
	if !v.Reject(rec, "req") {
		t.Fatal("expected rejection")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"amount"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
