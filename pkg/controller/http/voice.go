package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/truevoice/pkg/domain/model"
	"github.com/secmon-lab/truevoice/pkg/domain/types"
	"github.com/secmon-lab/truevoice/pkg/usecase"
	"github.com/secmon-lab/truevoice/pkg/utils/errutil"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
	"github.com/secmon-lab/truevoice/pkg/utils/safe"
)

// statusFromError maps orchestrator error tags onto HTTP status codes
func statusFromError(err error) int {
	switch {
	case goerr.HasTag(err, usecase.TagNotEnrolled):
		return http.StatusNotFound
	case goerr.HasTag(err, usecase.TagBadRequest),
		goerr.HasTag(err, usecase.TagBadAudio),
		goerr.HasTag(err, usecase.TagBadChallenge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// audioUpload is the parsed multipart recording
type audioUpload struct {
	data   []byte
	format model.AudioFormat
}

// readAudio extracts the "audio" file part and infers its format from the
// uploaded file name, falling back to the part's MIME subtype and then WAV.
func (s *Server) readAudio(r *http.Request) (*audioUpload, error) {
	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, goerr.Wrap(err, "audio file is required", goerr.T(usecase.TagBadRequest))
	}
	defer safe.Close(r.Context(), file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read audio upload", goerr.T(usecase.TagBadRequest))
	}
	if len(data) == 0 {
		return nil, goerr.New("audio upload is empty", goerr.T(usecase.TagBadRequest))
	}

	return &audioUpload{data: data, format: uploadFormat(header)}, nil
}

func uploadFormat(header *multipart.FileHeader) model.AudioFormat {
	if ext := strings.TrimPrefix(path.Ext(header.Filename), "."); ext != "" {
		return model.AudioFormat(strings.ToLower(ext))
	}
	if ct := header.Header.Get("Content-Type"); strings.HasPrefix(ct, "audio/") {
		return model.AudioFormat(strings.TrimPrefix(ct, "audio/"))
	}
	return model.AudioFormatWAV
}

// parseThreshold reads the optional threshold form value
func parseThreshold(r *http.Request) (float64, error) {
	raw := r.FormValue("threshold")
	if raw == "" {
		return model.DefaultIdentityThreshold, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return 0, goerr.New("threshold must be a number between 0 and 1",
			goerr.T(usecase.TagBadRequest), goerr.V("threshold", raw))
	}
	return threshold, nil
}

func (s *Server) parseUpload(r *http.Request) error {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return goerr.Wrap(err, "invalid multipart form", goerr.T(usecase.TagBadRequest))
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Voice verification service is running",
	})
}

func (s *Server) handleGenerateChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.uc.IssueChallenge(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"challenge_phrase": challenge.Phrase,
		"challenge_id":     challenge.ID,
		"expires_at":       challenge.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUpload(r); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}
	userID := types.UserID(r.FormValue("user_id"))
	upload, err := s.readAudio(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	ctx := logging.With(r.Context(), logging.From(r.Context()).With("user_id", userID))
	if _, err := s.uc.Enroll(ctx, userID, upload.data, upload.format); err != nil {
		errutil.HandleHTTP(ctx, w, err, statusFromError(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Voice enrolled successfully",
		"user_id": userID,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUpload(r); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}
	userID := types.UserID(r.FormValue("user_id"))
	threshold, err := parseThreshold(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}
	upload, err := s.readAudio(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	result, err := s.uc.VerifyIdentity(r.Context(), userID, upload.data, upload.format, threshold)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":   "success",
		"score":    result.Score,
		"is_match": result.Verified,
		"message":  result.Message,
	})
}

func (s *Server) handleSecureVerify(w http.ResponseWriter, r *http.Request) {
	if err := s.parseUpload(r); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}
	userID := types.UserID(r.FormValue("user_id"))
	challengeID := types.ChallengeID(r.FormValue("challenge_id"))
	echoedPhrase := r.FormValue("challenge_phrase")
	threshold, err := parseThreshold(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}
	upload, err := s.readAudio(r)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	result, err := s.uc.VerifySecure(r.Context(), userID, upload.data, upload.format, challengeID, echoedPhrase, threshold)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"user_id":           userID,
		"identity_verified": result.Identity.Verified,
		"liveness_verified": result.Live,
		"speaker_score":     result.Identity.Score,
		"transcript":        result.Transcript,
		"challenge_phrase":  result.ChallengePhrase,
		"similarity_score":  result.Similarity,
	})
}

func (s *Server) handleDeleteVoiceprint(w http.ResponseWriter, r *http.Request) {
	userID := types.UserID(chi.URLParam(r, "user_id"))
	if err := s.uc.DeleteVoiceprint(r.Context(), userID); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Voiceprint deleted",
		"user_id": userID,
	})
}
