package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"petid/internal/delivery/dto"
	"petid/internal/usecase"
	"petid/pkg/response"
)

type AlertHandler struct {
	alertUsecase usecase.AlertUsecase
}

func NewAlertHandler(alertUsecase usecase.AlertUsecase) *AlertHandler {
	return &AlertHandler{alertUsecase: alertUsecase}
}

// SendLocationAlert notifies the owner that someone found their pet, with
// the finder's coordinates. Unauthenticated: anyone who scanned the QR card
// can call it, so sends are rate limited per pet and client IP.
func (h *AlertHandler) SendLocationAlert(w http.ResponseWriter, r *http.Request) {
	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	var req dto.LocationAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON data", nil)
		return
	}

	err = h.alertUsecase.SendLocationAlert(r.Context(), petID, clientIP(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrLocationMissing:
			response.Error(w, http.StatusBadRequest, "Location data missing", nil)
		case usecase.ErrPetNotFound:
			response.NotFound(w, "Pet not found")
		case usecase.ErrRateLimited:
			response.TooManyRequests(w, "")
		case usecase.ErrAlertDelivery:
			// Delivery problems are reported in-band so the finder's
			// page can tell them the owner was not reached.
			response.Fail(w, "Failed to send email alert")
		default:
			response.InternalServerError(w, "Failed to send email alert")
		}
		return
	}

	response.Success(w, http.StatusOK, "Location alert sent successfully to pet owner!", nil)
}

// SendManualAlert is the free-text variant for finders who do not share
// coordinates.
func (h *AlertHandler) SendManualAlert(w http.ResponseWriter, r *http.Request) {
	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	var req dto.ManualLocationAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON data", nil)
		return
	}

	err = h.alertUsecase.SendManualAlert(r.Context(), petID, clientIP(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrDescriptionMissing:
			response.Error(w, http.StatusBadRequest, "Location description is required", nil)
		case usecase.ErrPetNotFound:
			response.NotFound(w, "Pet not found")
		case usecase.ErrRateLimited:
			response.TooManyRequests(w, "")
		case usecase.ErrAlertDelivery:
			response.Fail(w, "Failed to send location report email")
		default:
			response.InternalServerError(w, "Failed to send location report email")
		}
		return
	}

	response.Success(w, http.StatusOK, "Manual location report sent successfully to pet owner!", nil)
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
