package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"sankhyacrm/entity"
	"sankhyacrm/internal/config"

	"golang.org/x/time/rate"
)

func TestMain(m *testing.M) {
	// The outbound limiter would throttle the suite.
	SetLimiter(rate.NewLimiter(rate.Inf, 0))
	os.Exit(m.Run())
}

// gatewayFixture wires one httptest server as both the login endpoint
// and the service endpoint, distinguishing calls by path.
type gatewayFixture struct {
	srv        *httptest.Server
	logins     int
	dataCalls  int
	dataStatus int
	dataBody   string
	lastBody   []byte
	lastAuth   string
}

func newGatewayFixture(t *testing.T, dataStatus int, dataBody string) *gatewayFixture {
	t.Helper()

	f := &gatewayFixture{dataStatus: dataStatus, dataBody: dataBody}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/login") {
			f.logins++
			w.Write([]byte(`{"bearerToken": "tok-1"}`))
			return
		}
		f.dataCalls++
		f.lastAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		f.lastBody = body
		w.WriteHeader(f.dataStatus)
		w.Write([]byte(f.dataBody))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *gatewayFixture) config() *config.Config {
	conf := authConfig(f.srv.URL + "/login")
	conf.Sankhya.QueryUrl = f.srv.URL + "/mge/service.sbr?serviceName=CRUDServiceProvider.loadRecords"
	conf.Sankhya.SaveUrl = f.srv.URL + "/mge/service.sbr?serviceName=DatasetSP.save"
	return conf
}

func TestExecuteSendsBearerToken(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK, `{"responseBody": {}}`)
	svc := NewSankhyaService(f.config(), discardLogger())

	raw, err := svc.Query(context.Background(), entity.NewQuery("AD_LEADS", []string{"NOME"}, "ATIVO = 'S'"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if string(raw) != `{"responseBody": {}}` {
		t.Errorf("raw = %s", raw)
	}
	if f.lastAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want %q", f.lastAuth, "Bearer tok-1")
	}
	if f.logins != 1 {
		t.Errorf("logins = %d, want 1", f.logins)
	}
}

func TestExecuteSessionExpiry(t *testing.T) {
	f := newGatewayFixture(t, http.StatusUnauthorized, `{"error": "session expired"}`)
	svc := NewSankhyaService(f.config(), discardLogger())

	_, err := svc.Query(context.Background(), entity.NewQuery("AD_LEADS", []string{"NOME"}, ""))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}

	// Exactly one attempt: expiry is reported, never silently retried.
	if f.dataCalls != 1 {
		t.Errorf("data calls = %d, want 1", f.dataCalls)
	}

	// The cache was cleared: the next call performs a fresh exchange.
	f.dataStatus = http.StatusOK
	f.dataBody = `{"responseBody": {}}`
	if _, err := svc.Query(context.Background(), entity.NewQuery("AD_LEADS", []string{"NOME"}, "")); err != nil {
		t.Fatalf("Query after expiry: %v", err)
	}
	if f.logins != 2 {
		t.Errorf("logins = %d, want 2", f.logins)
	}
}

func TestExecuteForbiddenAlsoExpiresSession(t *testing.T) {
	f := newGatewayFixture(t, http.StatusForbidden, ``)
	svc := NewSankhyaService(f.config(), discardLogger())

	_, err := svc.Query(context.Background(), entity.NewQuery("AD_LEADS", []string{"NOME"}, ""))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
}

func TestExecuteRemoteError(t *testing.T) {
	f := newGatewayFixture(t, http.StatusInternalServerError, `{"statusMessage": "ORA-00001"}`)
	svc := NewSankhyaService(f.config(), discardLogger())

	_, err := svc.Query(context.Background(), entity.NewQuery("AD_LEADS", []string{"NOME"}, ""))

	var remote *RemoteCallError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *RemoteCallError", err)
	}
	if !strings.Contains(remote.Payload, "ORA-00001") {
		t.Errorf("Payload = %q, want remote message preserved", remote.Payload)
	}
	if remote.Method != http.MethodPost {
		t.Errorf("Method = %q", remote.Method)
	}
}

type recordingAuditor struct {
	entityName string
	recordKey  string
	payload    string
	calls      int
	err        error
}

func (a *recordingAuditor) SaveRecordVersion(entityName, recordKey, payload string) error {
	a.calls++
	a.entityName = entityName
	a.recordKey = recordKey
	a.payload = payload
	return a.err
}

func TestSaveAuditsPayload(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK, `{"responseBody": {}}`)
	svc := NewSankhyaService(f.config(), discardLogger())

	auditor := &recordingAuditor{}
	svc.SetAuditor(auditor)

	req := NewSaveBuilder("AD_LEADS").WithKey("CODLEAD", "42").Add("NOME", "Lead A").Build()
	if _, err := svc.Save(context.Background(), req); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if auditor.calls != 1 {
		t.Fatalf("auditor calls = %d, want 1", auditor.calls)
	}
	if auditor.entityName != "AD_LEADS" {
		t.Errorf("entityName = %q", auditor.entityName)
	}
	if auditor.recordKey != "CODLEAD=42" {
		t.Errorf("recordKey = %q, want CODLEAD=42", auditor.recordKey)
	}

	var audited entity.SaveRequest
	if err := json.Unmarshal([]byte(auditor.payload), &audited); err != nil {
		t.Fatalf("audited payload not json: %v", err)
	}
	if audited.RequestBody.EntityName != "AD_LEADS" {
		t.Errorf("audited entity = %q", audited.RequestBody.EntityName)
	}
}

func TestSaveAuditorFailureDoesNotBreakSave(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK, `{"responseBody": {}}`)
	svc := NewSankhyaService(f.config(), discardLogger())
	svc.SetAuditor(&recordingAuditor{err: errors.New("mongo down")})

	req := NewSaveBuilder("AD_FUNIS").Add("NOME", "Vendas").Build()
	if _, err := svc.Save(context.Background(), req); err != nil {
		t.Fatalf("Save should succeed despite audit failure: %v", err)
	}
}

func TestSaveInsertAuditedUnderNewKey(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK, `{"responseBody": {}}`)
	svc := NewSankhyaService(f.config(), discardLogger())

	auditor := &recordingAuditor{}
	svc.SetAuditor(auditor)

	req := NewSaveBuilder("Parceiro").Add("NOMEPARC", "Parceiro A").Build()
	if _, err := svc.Save(context.Background(), req); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if auditor.recordKey != "new" {
		t.Errorf("recordKey = %q, want new", auditor.recordKey)
	}
}

func TestSaveFailureSkipsAudit(t *testing.T) {
	f := newGatewayFixture(t, http.StatusInternalServerError, `{"error": "boom"}`)
	svc := NewSankhyaService(f.config(), discardLogger())

	auditor := &recordingAuditor{}
	svc.SetAuditor(auditor)

	req := NewSaveBuilder("AD_LEADS").Add("NOME", "Lead").Build()
	if _, err := svc.Save(context.Background(), req); err == nil {
		t.Fatal("Save should fail")
	}
	if auditor.calls != 0 {
		t.Errorf("auditor calls = %d, want 0", auditor.calls)
	}
}
