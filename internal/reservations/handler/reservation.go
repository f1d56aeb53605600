package handler

import (
	"net/http"
	"time"

	"facilityhub/internal/reservations/service"
	httputil "facilityhub/pkg/http"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service  service.ReservationService
	log      *logger.Logger
	location *time.Location
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger, location *time.Location) *ReservationHandler {
	if location == nil {
		location = time.UTC
	}
	return &ReservationHandler{
		service:  service,
		log:      log,
		location: location,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.CreateReservationInput
	if err := httputil.DecodeJSON(r, &input, false); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	input.RequesterID = httputil.ActorFromRequest(r).ID

	reservation, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), httputil.ActorFromRequest(r), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	query := r.URL.Query()
	filter := model.ReservationFilter{
		Status:      model.Status(query.Get("status")),
		FacilityID:  query.Get("facility_id"),
		RequesterID: query.Get("requester_id"),
	}
	if filter.From, err = httputil.ParseTimeParam(r, "from"); err != nil {
		h.writeError(w, r, "List", err)
		return
	}
	if filter.To, err = httputil.ParseTimeParam(r, "to"); err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	reservations, total, err := h.service.List(r.Context(), httputil.ActorFromRequest(r), filter, limit, offset)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.Approve(r.Context(), httputil.ActorFromRequest(r), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "Approve", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Approve", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input model.RejectReservationInput
	if err := httputil.DecodeJSON(r, &input, true); err != nil {
		h.writeError(w, r, "Reject", err)
		return
	}

	reservation, err := h.service.Reject(r.Context(), httputil.ActorFromRequest(r), ps.ByName("id"), &input)
	if err != nil {
		h.writeError(w, r, "Reject", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Reject", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.Cancel(r.Context(), httputil.ActorFromRequest(r), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.ParseDateParam(r, "date", h.location)
	if err != nil {
		h.writeError(w, r, "CheckAvailability", err)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), ps.ByName("id"), date)
	if err != nil {
		h.writeError(w, r, "CheckAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.FromContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id/approve", h.Approve)
	router.PATCH("/api/v1/reservations/id/:id/reject", h.Reject)
	router.PATCH("/api/v1/reservations/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/facilities/:id/availability", h.CheckAvailability)
}
