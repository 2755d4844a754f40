package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
	"github.com/yaohuangguan/orion-voice2map/pkg/integrations"
	"github.com/yaohuangguan/orion-voice2map/pkg/store"
)

// errorBody is the JSON error envelope every failing endpoint returns.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an engine error to a status code and the JSON envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := classify(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = apperrors.UserMessage(err)
	writeJSON(w, status, body)
}

// classify resolves an error to an application error code, translating the
// canvas and store sentinels that don't carry codes themselves.
func classify(err error) apperrors.Code {
	switch {
	case stderrors.Is(err, canvas.ErrNoRoot):
		return apperrors.ErrCodeNoRoot
	case stderrors.Is(err, canvas.ErrCycle),
		stderrors.Is(err, canvas.ErrDuplicateNodeID),
		stderrors.Is(err, canvas.ErrMissingEndpoint):
		return apperrors.ErrCodeInvalidGraph
	case stderrors.Is(err, store.ErrNotFound):
		return apperrors.ErrCodeMapNotFound
	case stderrors.Is(err, integrations.ErrUnauthorized):
		return apperrors.ErrCodeUnauthorized
	case stderrors.Is(err, integrations.ErrNetwork):
		return apperrors.ErrCodeNetwork
	case stderrors.Is(err, integrations.ErrNotFound):
		return apperrors.ErrCodeNotFound
	}
	if code := apperrors.GetCode(err); code != "" {
		return code
	}
	return apperrors.ErrCodeInternal
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidTranscript,
		apperrors.ErrCodeInvalidLayout, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidStyle:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidTree, apperrors.ErrCodeInvalidGraph,
		apperrors.ErrCodeNoRoot, apperrors.ErrCodeStructural:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeMapNotFound,
		apperrors.ErrCodeNodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeMissingKey:
		return http.StatusUnauthorized
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// badRequest is the shortcut for malformed request bodies.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "%s", msg))
}
