package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ghostjob-engine/internal/domain"
)

type fakeCorrections struct {
	last  domain.Correction
	added int
	err   error
}

func (f *fakeCorrections) RecordCorrection(_ context.Context, c domain.Correction) (int, error) {
	f.last = c
	return f.added, f.err
}

func (f *fakeCorrections) Count(context.Context) (int, error) { return 0, nil }

func submit(t *testing.T, h CorrectionsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/corrections", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestSubmitCorrection(t *testing.T) {
	learn := &fakeCorrections{added: 2}
	rec := submit(t, CorrectionsHandler{Learn: learn}, `{
		"sourceUrl": "https://www.linkedin.com/jobs/view/123",
		"correctTitle": "Staff Engineer",
		"correctCompany": "Initech"
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["recorded"] != 2 {
		t.Errorf("recorded = %d", resp["recorded"])
	}
	if learn.last.CorrectedBy != "user" {
		t.Errorf("correctedBy default = %q", learn.last.CorrectedBy)
	}
}

func TestSubmitCorrectionRejectsReservedAuthor(t *testing.T) {
	learn := &fakeCorrections{added: 1}
	rec := submit(t, CorrectionsHandler{Learn: learn}, `{
		"sourceUrl": "https://x.example/j",
		"correctTitle": "Engineer",
		"correctedBy": "`+domain.RealTimeLearner+`"
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if learn.last.SourceURL != "" {
		t.Error("reserved author reached the store")
	}
}

func TestSubmitCorrectionValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing url", `{"correctTitle": "X"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := submit(t, CorrectionsHandler{Learn: &fakeCorrections{}}, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSubmitCorrectionNoFields(t *testing.T) {
	rec := submit(t, CorrectionsHandler{Learn: &fakeCorrections{added: 0}},
		`{"sourceUrl": "https://x.example/j"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestWriteKindError(t *testing.T) {
	tests := []struct {
		kind domain.ErrKind
		want int
	}{
		{domain.ErrSecurity, http.StatusBadRequest},
		{domain.ErrValidation, http.StatusUnprocessableEntity},
		{domain.ErrRateLimit, http.StatusTooManyRequests},
		{domain.ErrNetwork, http.StatusBadGateway},
		{domain.ErrBackendDown, http.StatusServiceUnavailable},
		{domain.ErrParsing, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		WriteKindError(rec, req, domain.Errf(tt.kind, "boom"))
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.kind, rec.Code, tt.want)
		}
		var e APIError
		if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
			t.Fatal(err)
		}
		if e.Error.Code != string(tt.kind) {
			t.Errorf("code = %q", e.Error.Code)
		}
	}
}
