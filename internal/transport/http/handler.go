package http

import (
	"encoding/json"
	"net/http"

	"github.com/peerwave/signaling-service/internal/domain"
)

// RoomLister is the read-only view the REST surface needs.
type RoomLister interface {
	ListPublicRooms() []domain.RoomInfo
}

type Handler struct {
	rooms RoomLister
}

func NewHandler(rooms RoomLister) *Handler {
	return &Handler{rooms: rooms}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /rooms — public rooms snapshot, same shape as the WS listing event.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rooms.ListPublicRooms())
}
