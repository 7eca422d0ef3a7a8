package handler

import (
	"errors"
	"net/http"

	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/response"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
)

// failedValidationResponse returns 422 UnprocessableEntity status.
// Clients that receive a 422 response should expect that repeating the request
// without modification will fail with the same error.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	response.Error(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 BadRequest status
func badRequestResponse(w http.ResponseWriter, message any) {
	response.Error(w, http.StatusBadRequest, message)
}

func internalErrorResponse(w http.ResponseWriter, message any) {
	response.Error(w, http.StatusInternalServerError, message)
}

// errorFromService maps a service error to a response. Rejected
// configurations carry the failure code and the offending position.
func errorFromService(w http.ResponseWriter, err error) {
	var ce *fare.ConfigError
	if errors.As(err, &ce) {
		resp := dto.ConfigErrorResponse{
			Error: ce.Error(),
			Code:  ce.Code(),
			City:  ce.City,
			Field: ce.Field,
		}
		if ce.Index >= 0 {
			idx := ce.Index
			resp.Index = &idx
		}
		if err := response.JSON(w, http.StatusUnprocessableEntity, resp, nil); err != nil {
			w.WriteHeader(500)
		}
		return
	}

	code := GetCode(err)
	if code == http.StatusInternalServerError {
		internalErrorResponse(w, "internal server error")
		return
	}
	response.Error(w, code, err.Error())
}
