package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReportViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/incidents/policy-violation" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var report ViolationReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			t.Errorf("decode report: %v", err)
		}
		if report.Severity != SeverityCritical || report.Summary == "" {
			t.Errorf("report = %+v", report)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(IncidentRef{IncidentID: "inc-1", Created: true})
	}))
	defer srv.Close()

	c := NewIncidentManagerClient(srv.URL, time.Second)
	ref, err := c.ReportViolation(context.Background(), NewViolationReport("pol-1", "blocked prompt injection", SeverityCritical))
	if err != nil {
		t.Fatalf("ReportViolation() error = %v", err)
	}
	if ref.IncidentID != "inc-1" || !ref.Created {
		t.Errorf("ref = %+v", ref)
	}
}

func TestReportViolationsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reports []ViolationReport `json:"reports"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Reports) != 2 {
			t.Errorf("reports = %d, want 2", len(req.Reports))
		}
		json.NewEncoder(w).Encode(BatchIncidentAck{CreatedCount: 1, DedupedCount: 1})
	}))
	defer srv.Close()

	c := NewIncidentManagerClient(srv.URL, time.Second)
	ack, err := c.ReportViolationsBatch(context.Background(), []ViolationReport{
		NewViolationReport("pol-1", "first", SeverityWarning),
		NewViolationReport("pol-1", "second", SeverityWarning),
	})
	if err != nil {
		t.Fatalf("ReportViolationsBatch() error = %v", err)
	}
	if ack.CreatedCount != 1 || ack.DedupedCount != 1 {
		t.Errorf("ack = %+v", ack)
	}
}

func TestGetIncidentPath(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		json.NewEncoder(w).Encode(Incident{IncidentID: "inc-9", Status: "open", Severity: SeverityInfo})
	}))
	defer srv.Close()

	c := NewIncidentManagerClient(srv.URL, time.Second)
	incident, err := c.GetIncident(context.Background(), "inc-9")
	if err != nil {
		t.Fatalf("GetIncident() error = %v", err)
	}
	if got := path.Load(); got != "/api/v1/incidents/inc-9" {
		t.Errorf("path = %v", got)
	}
	if incident.Status != "open" {
		t.Errorf("incident = %+v", incident)
	}
}

func TestNewViolationReportIdentity(t *testing.T) {
	report := NewViolationReport("pol-2", "summary", SeverityInfo)
	if _, err := uuid.Parse(report.ReportID); err != nil {
		t.Errorf("report ID %q is not a UUID: %v", report.ReportID, err)
	}
	if _, err := time.Parse(time.RFC3339Nano, report.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", report.Timestamp, err)
	}
}
