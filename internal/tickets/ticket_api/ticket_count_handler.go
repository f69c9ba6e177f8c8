package ticket_api

import (
	"net/http"

	"cinema-ticketing/internal/models"
	"cinema-ticketing/internal/utils"
)

// TicketCountResponse is the response format for the GetTotalTicketsCount endpoint
type TicketCountResponse struct {
	TotalCount int `json:"total_count"`
}

// GetTotalTicketsCount handles GET /api/tickets/count
func (h *Handler) GetTotalTicketsCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.TicketService.GetTotalTicketsCount(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "error retrieving ticket count", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ticket count", TicketCountResponse{TotalCount: count}))
}

// GetTicketCountsByMovie handles GET /api/tickets/movies
func (h *Handler) GetTicketCountsByMovie(w http.ResponseWriter, r *http.Request) {
	counts, err := h.TicketService.GetTicketCountsByMovie(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "error retrieving ticket counts", err)
		return
	}
	if counts == nil {
		counts = []models.MovieTicketCount{}
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ticket counts by movie", counts))
}
