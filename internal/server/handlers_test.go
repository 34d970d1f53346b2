package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusats/matchengine/internal/worker"
)

type fakeEngine struct {
	jobs map[string]*worker.Job
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{jobs: make(map[string]*worker.Job)}
}

func (f *fakeEngine) SubmitCandidateIngestion(ctx context.Context, pdf []byte, now time.Time) *worker.Job {
	j := &worker.Job{ID: "cand-job-1", Type: worker.JobTypeCandidate, Status: worker.StatusQueued, CreatedAt: now}
	f.jobs[j.ID] = j
	return j
}

func (f *fakeEngine) SubmitEmployerMatch(ctx context.Context, jd string, now time.Time) *worker.Job {
	j := &worker.Job{ID: "emp-job-1", Type: worker.JobTypeEmployer, Status: worker.StatusQueued, CreatedAt: now}
	f.jobs[j.ID] = j
	return j
}

func (f *fakeEngine) GetJob(id string) (*worker.Job, bool) {
	j, ok := f.jobs[id]
	return j, ok
}

func newTestServer() (*Server, *fakeEngine) {
	engine := newFakeEngine()
	s := New(Config{Port: 0}, engine)
	return s, engine
}

func (s *Server) testMux() http.Handler {
	return s.httpServer.Handler
}

func TestHandleSubmitEmployer_TooShort(t *testing.T) {
	s, _ := newTestServer()

	body, _ := json.Marshal(employerJobRequest{JobDescription: "too short"})
	req := httptest.NewRequest(http.MethodPost, "/jobs/employer", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.testMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmitEmployer_Accepted(t *testing.T) {
	s, _ := newTestServer()

	longDescription := "We are looking for a senior backend engineer with Go experience and distributed systems knowledge."
	require.GreaterOrEqual(t, len(longDescription), minJobDescriptionLength)

	body, _ := json.Marshal(employerJobRequest{JobDescription: longDescription})
	req := httptest.NewRequest(http.MethodPost, "/jobs/employer", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.testMux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp submitJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "emp-job-1", resp.JobID)
}

func TestHandleSubmitCandidate_RejectsNonPDF(t *testing.T) {
	s, _ := newTestServer()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("not a pdf"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs/candidate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	s.testMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmitCandidate_AcceptsPDF(t *testing.T) {
	s, _ := newTestServer()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", "resume.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 fake contents"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs/candidate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	s.testMux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp submitJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cand-job-1", resp.JobID)
}

func TestHandleGetJob_NotFound(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/jobs/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.testMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetJob_Found(t *testing.T) {
	s, engine := newTestServer()
	engine.jobs["job-1"] = &worker.Job{
		ID:        "job-1",
		Type:      worker.JobTypeCandidate,
		Status:    worker.StatusCompleted,
		Progress:  100,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	req := httptest.NewRequest(http.MethodGet, "/jobs/job-1", nil)
	rec := httptest.NewRecorder()

	s.testMux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 100, resp.Progress)
}
