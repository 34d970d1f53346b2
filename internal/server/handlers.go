package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nexusats/matchengine/internal/domain"
)

func encodeJSON(w io.Writer, body any) error {
	return json.NewEncoder(w).Encode(body)
}

// jobResponse is the GET /jobs/{job_id} shape (§6).
type jobResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	Message      string `json:"message,omitempty"`
	Result       any    `json:"result,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// submitJobResponse is the {job_id} shape both submission endpoints return.
type submitJobResponse struct {
	JobID string `json:"job_id"`
}

// maxCandidatePDFBytes bounds the multipart upload the candidate endpoint
// will accept before rejecting the request.
const maxCandidatePDFBytes = 20 << 20 // 20 MiB

// minJobDescriptionLength is the §6 input-validation floor for
// POST /jobs/employer.
const minJobDescriptionLength = 50

// handleSubmitCandidate implements POST /jobs/candidate: multipart PDF
// upload, rejecting anything that isn't a PDF with 400.
func (s *Server) handleSubmitCandidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCandidatePDFBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing \"resume\" file field: "+err.Error())
		return
	}
	defer file.Close()

	if !isPDF(header) {
		writeError(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxCandidatePDFBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}
	if len(data) > maxCandidatePDFBytes {
		writeError(w, http.StatusBadRequest, "upload exceeds maximum size")
		return
	}
	if !looksLikePDF(data) {
		writeError(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return
	}

	job := s.engine.SubmitCandidateIngestion(r.Context(), data, s.now())
	writeJSON(w, http.StatusAccepted, submitJobResponse{JobID: job.ID})
}

func isPDF(header *multipart.FileHeader) bool {
	ct := header.Header.Get("Content-Type")
	return ct == "application/pdf" || hasPDFExtension(header.Filename)
}

func hasPDFExtension(filename string) bool {
	return len(filename) >= 4 && filename[len(filename)-4:] == ".pdf"
}

// looksLikePDF sniffs the standard "%PDF-" magic header, a cheap guard
// against a mislabeled Content-Type.
func looksLikePDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// employerJobRequest is the POST /jobs/employer body.
type employerJobRequest struct {
	JobDescription string `json:"job_description"`
}

// handleSubmitEmployer implements POST /jobs/employer: rejects a job
// description shorter than 50 characters with 400 (§6).
func (s *Server) handleSubmitEmployer(w http.ResponseWriter, r *http.Request) {
	var req employerJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.JobDescription) < minJobDescriptionLength {
		err := &domain.InputValidationError{
			Field:   "job_description",
			Message: "must be at least 50 characters",
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := s.engine.SubmitEmployerMatch(r.Context(), req.JobDescription, s.now())
	writeJSON(w, http.StatusAccepted, submitJobResponse{JobID: job.ID})
}

// handleGetJob implements GET /jobs/{job_id}.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")

	job, ok := s.engine.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found: "+jobID)
		return
	}

	writeJSON(w, http.StatusOK, jobResponse{
		ID:           job.ID,
		Type:         string(job.Type),
		Status:       string(job.Status),
		Progress:     job.Progress,
		Message:      job.Message,
		Result:       job.Result,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
