package types

import (
	"encoding/json"
	"testing"
)

// TestFlexFloat64Unmarshal tests the number-or-string decoding
func TestFlexFloat64Unmarshal(t *testing.T) {
	cases := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{`19.99`, 19.99, false},
		{`"19.99"`, 19.99, false},
		{`" 42 "`, 42, false},
		{`0`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
		{`[1]`, 0, true},
	}

	for _, tc := range cases {
		var f FlexFloat64
		err := json.Unmarshal([]byte(tc.input), &f)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Expected error for %s", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %s: %v", tc.input, err)
			continue
		}
		if f.Float64() != tc.want {
			t.Errorf("Expected %v for %s, got %v", tc.want, tc.input, f.Float64())
		}
	}
}

// TestFlexIntUnmarshal tests the integer variant
func TestFlexIntUnmarshal(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{`1969`, 1969, false},
		{`"1969"`, 1969, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"196.9"`, 0, true},
		{`"abc"`, 0, true},
	}

	for _, tc := range cases {
		var f FlexInt
		err := json.Unmarshal([]byte(tc.input), &f)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Expected error for %s", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %s: %v", tc.input, err)
			continue
		}
		if f.Int() != tc.want {
			t.Errorf("Expected %d for %s, got %d", tc.want, tc.input, f.Int())
		}
	}
}

// TestFlexListUnmarshal tests single-value and array decoding
func TestFlexListUnmarshal(t *testing.T) {
	var single FlexList[string]
	if err := json.Unmarshal([]byte(`"vinyl"`), &single); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(single) != 1 || single[0] != "vinyl" {
		t.Errorf("Expected [vinyl], got %v", single)
	}

	var many FlexList[string]
	if err := json.Unmarshal([]byte(`["a","b"]`), &many); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(many) != 2 || many[0] != "a" || many[1] != "b" {
		t.Errorf("Expected [a b], got %v", many)
	}

	var empty FlexList[string]
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if empty != nil {
		t.Errorf("Expected nil for null, got %v", empty)
	}
}

// TestAPIErrorTypes tests the constructor status mapping
func TestAPIErrorTypes(t *testing.T) {
	cases := []struct {
		err     *APIError
		code    int
		errType string
	}{
		{NewValidationError("x"), 400, "validation"},
		{NewAuthError("x"), 401, "auth"},
		{NewNotFoundError("x"), 404, "not_found"},
		{NewConflictError("x"), 409, "conflict"},
		{NewUpstreamError("x", nil), 500, "upstream"},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("Expected code %d, got %d", tc.code, tc.err.Code)
		}
		if tc.err.Type != tc.errType {
			t.Errorf("Expected type %s, got %s", tc.errType, tc.err.Type)
		}
	}

	wrapped := NewUpstreamError("boom", json.Unmarshal([]byte("{"), &struct{}{}))
	if wrapped.Details == "" {
		t.Error("Expected the cause to surface in Details")
	}
}
