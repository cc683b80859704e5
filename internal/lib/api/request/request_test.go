package request

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testPayload struct {
	Name  string `json:"NOME"`
	Value string `json:"VALOR"`
}

type bindingPayload struct {
	Name string `json:"NOME"`
}

func (p *bindingPayload) Bind(*http.Request) error {
	if p.Name == "" {
		return errors.New("NOME is required")
	}
	return nil
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/leads/save", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   error
		anyErr    bool
		wantName  string
		wantValue string
	}{
		{
			name:      "valid body",
			body:      `{"NOME":"Lead A","VALOR":"1500.50"}`,
			wantName:  "Lead A",
			wantValue: "1500.50",
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: ErrEmptyBody,
		},
		{
			name:   "malformed json",
			body:   `{"NOME":`,
			anyErr: true,
		},
		{
			name:     "unknown fields ignored",
			body:     `{"NOME":"Lead B","EXTRA":"x"}`,
			wantName: "Lead B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload testPayload
			err := Decode(newJSONRequest(tt.body), &payload)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.anyErr {
				if err == nil {
					t.Fatal("Decode() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if payload.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", payload.Name, tt.wantName)
			}
			if payload.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", payload.Value, tt.wantValue)
			}
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("bind passes", func(t *testing.T) {
		var payload bindingPayload
		err := DecodeAndValidate(newJSONRequest(`{"NOME":"Funil"}`), &payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payload.Name != "Funil" {
			t.Errorf("Name = %q, want %q", payload.Name, "Funil")
		}
	})

	t.Run("bind fails", func(t *testing.T) {
		var payload bindingPayload
		err := DecodeAndValidate(newJSONRequest(`{"NOME":""}`), &payload)
		if err == nil {
			t.Fatal("expected bind error, got nil")
		}
	})

	t.Run("target without binder", func(t *testing.T) {
		var payload testPayload
		err := DecodeAndValidate(newJSONRequest(`{"NOME":"ok"}`), &payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
