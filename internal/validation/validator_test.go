// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type testStruct struct {
	Name   string   `json:"name" validate:"required,min=2,max=5"`
	Limit  int      `json:"limit" validate:"min=1,max=100"`
	Tags   []string `json:"tags" validate:"max=2"`
	Mode   string   `json:"mode" validate:"omitempty,oneof=fast slow"`
	Hidden string   `json:"-"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     testStruct
		wantField string
		wantMsg   string
	}{
		{"valid", testStruct{Name: "abc", Limit: 10}, "", ""},
		{"required", testStruct{Limit: 10}, "name", "name is required"},
		{"string min", testStruct{Name: "a", Limit: 10}, "name", "name must be at least 2 characters"},
		{"string max", testStruct{Name: "abcdef", Limit: 10}, "name", "name must be at most 5 characters"},
		{"int min", testStruct{Name: "abc", Limit: 0}, "limit", "limit must be at least 1"},
		{"int max", testStruct{Name: "abc", Limit: 101}, "limit", "limit must be at most 100"},
		{"slice max", testStruct{Name: "abc", Limit: 1, Tags: []string{"a", "b", "c"}}, "tags", "tags must be at most 2 items"},
		{"oneof", testStruct{Name: "abc", Limit: 1, Mode: "warp"}, "mode", "mode must be one of: fast slow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(err.Errors()), err)
			}
			fe := err.Errors()[0]
			if fe.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", fe.Field(), tt.wantField)
			}
			if fe.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		err := ValidateStruct(&testStruct{Limit: 10})
		apiErr := err.ToAPIError()
		if apiErr.Code != ErrorCode {
			t.Errorf("Code = %q, want %q", apiErr.Code, ErrorCode)
		}
		if apiErr.Details["field"] != "name" || apiErr.Details["tag"] != "required" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		err := ValidateStruct(&testStruct{Limit: 0})
		apiErr := err.ToAPIError()
		if !strings.Contains(apiErr.Message, "name: name is required") ||
			!strings.Contains(apiErr.Message, "limit: limit must be at least 1") {
			t.Errorf("Message = %q", apiErr.Message)
		}
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Errorf("Details[fields] = %v", apiErr.Details["fields"])
		}
		if !strings.Contains(err.Error(), "; ") {
			t.Errorf("Error() = %q, want joined messages", err.Error())
		}
	})

	t.Run("empty", func(t *testing.T) {
		empty := &RequestValidationError{}
		if empty.Error() != "validation failed" {
			t.Errorf("Error() = %q", empty.Error())
		}
		if empty.ToAPIError().Message != "Validation failed" {
			t.Errorf("ToAPIError().Message = %q", empty.ToAPIError().Message)
		}
	})
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantNil bool
		wantErr bool
	}{
		{"", 0, true, false},
		{"  ", 0, true, false},
		{"42", 42, false, false},
		{" 7 ", 7, false, false},
		{"abc", 0, true, true},
		{"1.5", 0, true, true},
	}
	for _, tt := range tests {
		got, err := ParseUserID(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUserID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if tt.wantNil {
			if got != nil {
				t.Errorf("ParseUserID(%q) = %d, want nil", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("ParseUserID(%q) = %v, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNewRecommendRequest(t *testing.T) {
	cart := []models.OrderItem{
		{ProductID: 3, Quantity: 1},
		{ProductID: 9, Quantity: 2},
	}

	req, err := NewRecommendRequest("5", cart)
	if err != nil {
		t.Fatalf("NewRecommendRequest() error = %v", err)
	}
	if req.UserID == nil || *req.UserID != 5 {
		t.Errorf("UserID = %v, want 5", req.UserID)
	}
	ids := req.ProductIDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 9 {
		t.Errorf("ProductIDs() = %v, want [3 9]", ids)
	}

	anon, err := NewRecommendRequest("", nil)
	if err != nil || anon.UserID != nil {
		t.Errorf("anonymous request = (%+v, %v)", anon, err)
	}

	tests := []struct {
		name      string
		uid       string
		cart      []models.OrderItem
		wantField string
	}{
		{"bad uid", "x", nil, "uid"},
		{"negative uid", "-1", nil, "uid"},
		{"negative product", "1", []models.OrderItem{{ProductID: -4}}, "productId"},
		{"negative quantity", "1", []models.OrderItem{{ProductID: 4, Quantity: -1}}, "quantity"},
		{"cart too large", "1", make([]models.OrderItem, MaxCartItems+1), "cart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecommendRequest(tt.uid, tt.cart)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("Field() = %q, want %q", got, tt.wantField)
			}
		})
	}
}
