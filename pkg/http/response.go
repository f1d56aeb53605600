package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "facilityhub/pkg/errors"
)

// ErrorResponse is the body of every non-2xx reply. Alternatives is lifted out of the error
// details so a slot conflict reads {"error": ..., "alternatives": [...]}.
type ErrorResponse struct {
	Error        string         `json:"error"`
	Code         string         `json:"code,omitempty"`
	Alternatives any            `json:"alternatives,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	statusCode, errResp := toErrorResponse(err)
	return WriteJSON(w, statusCode, errResp)
}

func toErrorResponse(err error) (int, ErrorResponse) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  apperrors.CodeInternal,
		}
	}

	statusCode := appErr.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	resp := ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	}

	alternatives, ok := appErr.Details[apperrors.DetailAlternatives]
	if !ok {
		resp.Details = appErr.Details
		return statusCode, resp
	}

	resp.Alternatives = alternatives
	for k, v := range appErr.Details {
		if k == apperrors.DetailAlternatives {
			continue
		}
		if resp.Details == nil {
			resp.Details = make(map[string]any)
		}
		resp.Details[k] = v
	}
	return statusCode, resp
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
