package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"sankhyacrm/entity"
	"sankhyacrm/internal/config"
	"sankhyacrm/internal/lib/sl"
)

// Auditor records outbound save payloads. Failures are logged, never
// propagated: the audit trail must not break a save.
type Auditor interface {
	SaveRecordVersion(entityName, recordKey, payload string) error
}

// SankhyaService is the single choke point for remote calls: every
// adapter request passes through Execute with a token from the cache.
type SankhyaService struct {
	queryUrl string
	saveUrl  string
	tokens   *TokenCache
	client   *http.Client
	auditor  Auditor
	log      *slog.Logger
}

func NewSankhyaService(conf *config.Config, log *slog.Logger) *SankhyaService {
	return &SankhyaService{
		queryUrl: conf.Sankhya.QueryUrl,
		saveUrl:  conf.Sankhya.SaveUrl,
		tokens:   NewTokenCache(conf, log),
		client:   &http.Client{Timeout: exchangeTimeout},
		log:      log.With(sl.Module("sankhya")),
	}
}

func (s *SankhyaService) SetAuditor(a Auditor) {
	s.auditor = a
}

// Execute performs one authenticated call and returns the raw response
// body. A 401/403 clears the token cache and returns ErrSessionExpired
// without retrying; the caller re-invokes explicitly.
func (s *SankhyaService) Execute(ctx context.Context, fullUrl, method string, body interface{}) ([]byte, error) {
	if err := Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	token, err := s.tokens.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullUrl, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	log := s.log.With(
		slog.String("url", fullUrl),
		slog.String("method", method),
	)
	t := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		log.With(sl.Err(err)).Warn("sankhya request failed")
		return nil, &RemoteCallError{URL: fullUrl, Method: method, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteCallError{URL: fullUrl, Method: method, Err: fmt.Errorf("read response body: %w", err)}
	}

	log = log.With(slog.Duration("duration", time.Since(t)), slog.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		s.tokens.Invalidate()
		log.Warn("sankhya rejected bearer token")
		return nil, ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.With(slog.String("response", string(bodyBytes))).Warn("sankhya returned error")
		return nil, &RemoteCallError{URL: fullUrl, Method: method, Payload: string(bodyBytes)}
	}

	log.Debug("sankhya request succeeded")
	return bodyBytes, nil
}

// Query runs a loadRecords call.
func (s *SankhyaService) Query(ctx context.Context, q entity.QueryRequest) ([]byte, error) {
	return s.Execute(ctx, s.queryUrl, http.MethodPost, q)
}

// Save runs a DatasetSP.save call and, on success, appends the payload
// to the audit trail.
func (s *SankhyaService) Save(ctx context.Context, req entity.SaveRequest) ([]byte, error) {
	raw, err := s.Execute(ctx, s.saveUrl, http.MethodPost, req)
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		payload, merr := json.Marshal(req)
		if merr == nil {
			key := recordKey(req)
			if aerr := s.auditor.SaveRecordVersion(req.RequestBody.EntityName, key, string(payload)); aerr != nil {
				s.log.With(sl.Err(aerr)).Warn("failed to audit save payload")
			}
		}
	}

	return raw, nil
}

// recordKey derives the audit key from the record's primary-key map;
// inserts have no key yet and are grouped under "new".
func recordKey(req entity.SaveRequest) string {
	if len(req.RequestBody.Records) == 0 {
		return "new"
	}
	pk := req.RequestBody.Records[0].PK
	if len(pk) == 0 {
		return "new"
	}
	for field, value := range pk {
		return field + "=" + value
	}
	return "new"
}
