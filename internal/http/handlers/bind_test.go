package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/hospital-api/internal/http/handlers"
	"github.com/carebridge/hospital-api/internal/models"
)

func bindTarget() *gin.Engine {
	r := gin.New()
	r.POST("/echo", func(c *gin.Context) {
		var req models.RegisterRequest
		if !handlers.BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})
	return r
}

func TestBindJSONFieldErrors(t *testing.T) {
	r := bindTarget()

	tests := []struct {
		name      string
		body      string
		wantField string
		wantRule  string
	}{
		{
			name:      "missing_required",
			body:      `{"email":"a@example.com","password":"sup3rs3cret"}`,
			wantField: "name",
			wantRule:  "required",
		},
		{
			name:      "bad_email",
			body:      `{"name":"A","email":"nope","password":"sup3rs3cret"}`,
			wantField: "email",
			wantRule:  "email",
		},
		{
			name:      "short_password",
			body:      `{"name":"A","email":"a@example.com","password":"abc"}`,
			wantField: "password",
			wantRule:  "min",
		},
		{
			name:      "role_outside_enum",
			body:      `{"name":"A","email":"a@example.com","password":"sup3rs3cret","role":"janitor"}`,
			wantField: "role",
			wantRule:  "oneof",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}

			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Details struct {
						Fields []handlers.FieldError `json:"fields"`
					} `json:"details"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Error.Code != "invalid_request" {
				t.Errorf("error code = %q, want invalid_request", resp.Error.Code)
			}

			found := false
			for _, fe := range resp.Error.Details.Fields {
				if fe.Field == tt.wantField && fe.Rule == tt.wantRule {
					found = true
				}
			}
			if !found {
				t.Errorf("fields %+v missing %s/%s", resp.Error.Details.Fields, tt.wantField, tt.wantRule)
			}
		})
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	r := bindTarget()

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte(`{"name": oops`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid_json_syntax") {
		t.Errorf("body %s missing invalid_json_syntax detail", w.Body.String())
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r := bindTarget()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":123,"email":"a@example.com","password":"sup3rs3cret"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid_json_type") {
		t.Errorf("body %s missing invalid_json_type detail", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"field":"name"`) {
		t.Errorf("body %s missing json field path", w.Body.String())
	}
}

func TestBindJSONValid(t *testing.T) {
	r := bindTarget()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"A","email":"a@example.com","password":"sup3rs3cret","role":"nurse"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}
