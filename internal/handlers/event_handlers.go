package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"

	"github.com/eventbook/api/internal/helpers"
	dynamodb_service "github.com/eventbook/api/internal/services/dynamodb_service"
	"github.com/eventbook/api/internal/transport"
	internal_types "github.com/eventbook/api/internal/types"
)

var validate *validator.Validate = validator.New()

type EventHandler struct {
	EventService internal_types.EventServiceInterface
}

func NewEventHandler(eventService internal_types.EventServiceInterface) *EventHandler {
	return &EventHandler{EventService: eventService}
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	db := transport.GetDB()
	events, err := h.EventService.ListEvents(r.Context(), db)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to get events: "+err.Error()), http.StatusInternalServerError, err)
		return
	}

	response, err := json.Marshal(internal_types.EventsResponse{Message: "Events retrieved successfully", Events: events})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	db := transport.GetDB()
	event, err := h.EventService.GetEventByID(r.Context(), db, eventID)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to get event: "+err.Error()), http.StatusInternalServerError, err)
		return
	}

	if event == nil {
		transport.SendServerRes(w, []byte("Event not found"), http.StatusNotFound, nil)
		return
	}

	response, err := json.Marshal(internal_types.EventResponse{Message: "Event retrieved successfully", Event: event})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func (h *EventHandler) GetEventsByMonth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, err := strconv.Atoi(vars[helpers.MONTH_KEY])
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid month"), http.StatusBadRequest, err)
		return
	}

	db := transport.GetDB()
	events, err := h.EventService.GetEventsByMonth(r.Context(), db, month)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to get events: "+err.Error()), http.StatusInternalServerError, err)
		return
	}

	if len(events) == 0 {
		transport.SendServerRes(w, []byte("No events found for the specified month"), http.StatusNotFound, nil)
		return
	}

	response, err := json.Marshal(internal_types.EventsResponse{Message: "Events retrieved successfully", Events: events})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func (h *EventHandler) GetEventsByClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	client := vars[helpers.CLIENT_KEY]
	if client == "" {
		transport.SendServerRes(w, []byte("Missing client name"), http.StatusBadRequest, nil)
		return
	}

	db := transport.GetDB()
	events, err := h.EventService.GetEventsByClient(r.Context(), db, client)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to get events: "+err.Error()), http.StatusInternalServerError, err)
		return
	}

	if len(events) == 0 {
		transport.SendServerRes(w, []byte("No events found for the specified client"), http.StatusNotFound, nil)
		return
	}

	response, err := json.Marshal(internal_types.EventsResponse{Message: "Events retrieved successfully", Events: events})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var createEvent internal_types.EventInsert
	body, err := io.ReadAll(r.Body)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to read request body: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	err = json.Unmarshal(body, &createEvent)
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid JSON payload: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	err = validate.Struct(&createEvent)
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid body: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	db := transport.GetDB()
	res, err := h.EventService.InsertEvent(r.Context(), db, createEvent)
	if err != nil {
		if errors.Is(err, dynamodb_service.ErrEventIDExists) {
			transport.SendServerRes(w, []byte("Event ID already exists"), http.StatusBadRequest, err)
			return
		}
		// Store failures on writes surface as 400, matching the service's
		// long-standing contract.
		transport.SendServerRes(w, []byte("Failed to create event: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	response, err := json.Marshal(internal_types.EventResponse{Message: "Event created successfully", Event: res})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusCreated, nil)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	var updateEvent internal_types.EventInsert
	body, err := io.ReadAll(r.Body)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to read request body: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	err = json.Unmarshal(body, &updateEvent)
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid JSON payload: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	err = validate.Struct(&updateEvent)
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid body: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	if updateEvent.EventID != eventID {
		transport.SendServerRes(w, []byte("Event ID in the body must match the event ID in the URL"), http.StatusBadRequest, nil)
		return
	}

	db := transport.GetDB()
	res, err := h.EventService.ReplaceEvent(r.Context(), db, eventID, updateEvent)
	if err != nil {
		if errors.Is(err, dynamodb_service.ErrEventNotFound) {
			transport.SendServerRes(w, []byte("Event not found"), http.StatusNotFound, err)
			return
		}
		transport.SendServerRes(w, []byte("Failed to update event: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	response, err := json.Marshal(internal_types.EventResponse{Message: "Event updated successfully", Event: res})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func (h *EventHandler) PatchEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	var patchEvent internal_types.EventUpdate
	body, err := io.ReadAll(r.Body)
	if err != nil {
		transport.SendServerRes(w, []byte("Failed to read request body: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	err = json.Unmarshal(body, &patchEvent)
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid JSON payload: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	if helpers.PatchRequiresDate() && !patchEvent.HasDate() && patchEvent.StartTime == nil {
		transport.SendServerRes(w, []byte("Must include date (month, day, year) or startTime to update"), http.StatusBadRequest, nil)
		return
	}

	db := transport.GetDB()
	res, err := h.EventService.UpdateEvent(r.Context(), db, eventID, patchEvent)
	if err != nil {
		if errors.Is(err, dynamodb_service.ErrEventNotFound) {
			transport.SendServerRes(w, []byte("Event not found"), http.StatusNotFound, err)
			return
		}
		transport.SendServerRes(w, []byte("Failed to update event: "+err.Error()), http.StatusBadRequest, err)
		return
	}

	response, err := json.Marshal(internal_types.EventResponse{Message: "Event updated successfully", Event: res})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	db := transport.GetDB()
	err := h.EventService.DeleteEvent(r.Context(), db, eventID)
	if err != nil {
		if errors.Is(err, dynamodb_service.ErrEventNotFound) {
			transport.SendServerRes(w, []byte("Event not found"), http.StatusNotFound, err)
			return
		}
		transport.SendServerRes(w, []byte("Failed to delete event: "+err.Error()), http.StatusInternalServerError, err)
		return
	}

	response, err := json.Marshal(internal_types.EventResponse{Message: "Event deleted successfully"})
	if err != nil {
		transport.SendServerRes(w, []byte("Error marshaling JSON"), http.StatusInternalServerError, err)
		return
	}

	transport.SendServerRes(w, response, http.StatusOK, nil)
}

func parseEventID(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	eventID, err := strconv.Atoi(vars[helpers.EVENT_ID_KEY])
	if err != nil {
		transport.SendServerRes(w, []byte("Invalid event ID"), http.StatusBadRequest, err)
		return 0, false
	}
	return eventID, true
}

func GetEventsHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.GetEvents(w, r)
	}
}

func GetEventByIDHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.GetEventByID(w, r)
	}
}

func GetEventsByMonthHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.GetEventsByMonth(w, r)
	}
}

func GetEventsByClientHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.GetEventsByClient(w, r)
	}
}

func CreateEventHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.CreateEvent(w, r)
	}
}

func UpdateEventHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.UpdateEvent(w, r)
	}
}

func PatchEventHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.PatchEvent(w, r)
	}
}

func DeleteEventHandler(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	eventService := dynamodb_service.NewEventService()
	handler := NewEventHandler(eventService)
	return func(w http.ResponseWriter, r *http.Request) {
		handler.DeleteEvent(w, r)
	}
}
