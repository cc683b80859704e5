package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"sankhyacrm/entity"
	"sankhyacrm/internal/services"
)

type stubCore struct {
	leads      []entity.Lead
	saved      entity.Lead
	deletedCod string
	err        error
}

func (s *stubCore) ListLeads(context.Context) ([]entity.Lead, error) {
	return s.leads, s.err
}

func (s *stubCore) SaveLead(_ context.Context, lead entity.Lead) (entity.Lead, error) {
	s.saved = lead
	return lead, s.err
}

func (s *stubCore) UpdateLeadStage(_ context.Context, codLead, codEstagio string) (entity.Lead, error) {
	return entity.Lead{CodLead: codLead, CodEstagio: codEstagio}, s.err
}

func (s *stubCore) DeleteLead(_ context.Context, codLead string) error {
	s.deletedCod = codLead
	return s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not json: %v (%s)", err, rec.Body.String())
	}
	return body.Error
}

func TestList(t *testing.T) {
	core := &stubCore{leads: []entity.Lead{{CodLead: "1", Nome: "Lead A"}}}

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	List(testLogger(), core)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var leads []entity.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &leads); err != nil {
		t.Fatalf("body not a lead array: %v", err)
	}
	if len(leads) != 1 || leads[0].CodLead != "1" {
		t.Errorf("leads = %+v", leads)
	}
}

func TestListSessionExpired(t *testing.T) {
	core := &stubCore{err: services.ErrSessionExpired}

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	List(testLogger(), core)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := errorBody(t, rec); got != "Sessão expirada. Tente novamente." {
		t.Errorf("error = %q", got)
	}
}

func TestListRemoteError(t *testing.T) {
	core := &stubCore{err: &services.RemoteCallError{URL: "http://erp", Method: "POST", Payload: "boom"}}

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	List(testLogger(), core)(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if errorBody(t, rec) == "" {
		t.Error("error body should not be empty")
	}
}

func TestSave(t *testing.T) {
	core := &stubCore{}

	rec := postJSON(Save(testLogger(), core), `{"NOME": "Lead A", "VALOR": 1500.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if core.saved.Nome != "Lead A" {
		t.Errorf("saved = %+v", core.saved)
	}
	// Bind fills the default tag color.
	if core.saved.CorTag != entity.DefaultTagColor {
		t.Errorf("CorTag = %q, want default", core.saved.CorTag)
	}
}

func TestSaveValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"VALOR": 10}`},
		{"negative value", `{"NOME": "Lead", "VALOR": -1}`},
		{"empty body", ``},
		{"malformed json", `{"NOME":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := &stubCore{}
			rec := postJSON(Save(testLogger(), core), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestUpdateStage(t *testing.T) {
	core := &stubCore{}

	rec := postJSON(UpdateStage(testLogger(), core), `{"codLead": "42", "codEstagio": "9"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var lead entity.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
		t.Fatalf("body not a lead: %v", err)
	}
	if lead.CodLead != "42" || lead.CodEstagio != "9" {
		t.Errorf("lead = %+v", lead)
	}
}

func TestUpdateStageValidation(t *testing.T) {
	core := &stubCore{}

	rec := postJSON(UpdateStage(testLogger(), core), `{"codLead": "42"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	core := &stubCore{}

	rec := postJSON(Delete(testLogger(), core), `{"codLead": "42"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if core.deletedCod != "42" {
		t.Errorf("deletedCod = %q", core.deletedCod)
	}
}

func TestDeleteValidation(t *testing.T) {
	core := &stubCore{}

	rec := postJSON(Delete(testLogger(), core), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if core.deletedCod != "" {
		t.Error("invalid payload must not reach the core")
	}
}
