package ticket_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/models"
	"cinema-ticketing/internal/sse"
	"cinema-ticketing/internal/tickets/barcode"
	"cinema-ticketing/internal/tickets/codegen"
	"cinema-ticketing/internal/tickets/db"
	"cinema-ticketing/internal/tickets/qr"
	tickets "cinema-ticketing/internal/tickets/service"
	"cinema-ticketing/internal/tickets/template"
	"cinema-ticketing/internal/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ImageStore looks up cached barcode PNGs by payload.
type ImageStore interface {
	Get(ctx context.Context, code string) ([]byte, error)
}

type Handler struct {
	TicketService *tickets.TicketService
	Renderer      *barcode.Renderer
	Images        ImageStore
	PDF           *template.TicketPDFGenerator
	QRGenerator   *qr.QRGenerator
	Logger        *logger.Logger
	// Events feeds GET /api/tickets/stream; nil disables the stream.
	Events *sse.TicketEventEmitter
}

func NewHandler(ticketService *tickets.TicketService, renderer *barcode.Renderer, images ImageStore, pdf *template.TicketPDFGenerator, qrGen *qr.QRGenerator, log *logger.Logger) *Handler {
	return &Handler{
		TicketService: ticketService,
		Renderer:      renderer,
		Images:        images,
		PDF:           pdf,
		QRGenerator:   qrGen,
		Logger:        log,
	}
}

// RegisterRoutes mounts the purchase form, barcode images and the JSON API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.PurchaseForm)
	r.Post("/purchase", h.SubmitPurchase)
	r.Get("/barcodes/{file}", h.GetBarcodeImage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies", h.ListMovies)
		r.Get("/seats", h.ListSeats)

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", h.IssueTickets)
			r.Get("/", h.ListTickets)
			r.Get("/count", h.GetTotalTicketsCount)
			r.Get("/movies", h.GetTicketCountsByMovie)
			r.Post("/verify", h.VerifyTicket)
			r.Get("/stream", h.StreamTickets)
			r.Get("/{code}", h.GetTicket)
			r.Get("/{code}/pdf", h.GetTicketPDF)
		})
	})
}

// issueRequest accepts seat_count as either a JSON string or a number; the
// raw text is what gets validated.
type issueRequest struct {
	CustomerName string          `json:"customer_name"`
	MovieTitle   string          `json:"movie_title"`
	SeatCount    json.RawMessage `json:"seat_count"`
	Seats        []string        `json:"seats"`
}

func (r issueRequest) purchase() models.PurchaseRequest {
	count := string(bytes.TrimSpace(r.SeatCount))
	var s string
	if err := json.Unmarshal(r.SeatCount, &s); err == nil {
		count = s
	} else if count == "null" {
		count = ""
	}
	return models.PurchaseRequest{
		CustomerName: r.CustomerName,
		MovieTitle:   r.MovieTitle,
		SeatCount:    count,
		Seats:        r.Seats,
	}
}

type IssueResponse struct {
	Tickets       []TicketView   `json:"tickets"`
	Notifications []Notification `json:"notifications"`
}

type TicketView struct {
	tickets.SeatOutcome
	ImageURL string `json:"image_url,omitempty"`
}

func views(result *tickets.IssueResult) []TicketView {
	out := make([]TicketView, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		view := TicketView{SeatOutcome: o}
		if o.Rendered {
			view.ImageURL = imageURL(o.Code)
		}
		out = append(out, view)
	}
	return out
}

func imageURL(code string) string {
	return "/barcodes/" + barcode.FileName(code)
}

// IssueTickets handles POST /api/tickets
func (h *Handler) IssueTickets(w http.ResponseWriter, r *http.Request) {
	var body issueRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	surface := &collectingSurface{}
	result, err := h.TicketService.IssueTickets(r.Context(), body.purchase(), surface)
	data := IssueResponse{Tickets: views(result), Notifications: surface.Notifications}

	var verr *tickets.ValidationError
	if errors.As(err, &verr) {
		resp := utils.ErrorResponse(verr.Message, verr.Error())
		resp.Reason = string(verr.Reason)
		resp.Data = data
		utils.WriteJSON(w, http.StatusBadRequest, resp)
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to issue tickets", err)
		return
	}

	if len(result.Issued()) == 0 {
		resp := utils.ErrorResponse("no tickets issued", "every seat failed")
		resp.Data = data
		utils.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(fmt.Sprintf("%d tickets issued", len(result.Issued())), data))
}

// ListTickets handles GET /api/tickets?limit=N, newest first, and
// GET /api/tickets?customer=Name, every ticket of that customer oldest first.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	if customer := r.URL.Query().Get("customer"); customer != "" {
		list, err := h.TicketService.ListTicketsByCustomer(r.Context(), customer)
		h.writeTicketList(w, list, err)
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.WriteError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = min(n, maxListLimit)
	}

	list, err := h.TicketService.ListTickets(r.Context(), limit)
	h.writeTicketList(w, list, err)
}

func (h *Handler) writeTicketList(w http.ResponseWriter, list []models.TicketRecord, err error) {
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("listing tickets failed: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "error retrieving tickets", err)
		return
	}
	if list == nil {
		list = []models.TicketRecord{}
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("tickets", list))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*models.TicketRecord, bool) {
	code := chi.URLParam(r, "code")
	if !codegen.IsPayload(code) {
		utils.WriteError(w, http.StatusBadRequest, "barcode must be 12 digits", nil)
		return nil, false
	}

	ticket, err := h.TicketService.GetTicket(r.Context(), code)
	if errors.Is(err, db.ErrTicketNotFound) {
		utils.WriteError(w, http.StatusNotFound, "ticket not found", err)
		return nil, false
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "error retrieving ticket", err)
		return nil, false
	}
	return ticket, true
}

// GetTicket handles GET /api/tickets/{code}. Codes are not unique; the
// latest ticket wins.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ticket", ticket))
}

// GetTicketPDF handles GET /api/tickets/{code}/pdf
func (h *Handler) GetTicketPDF(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.lookup(w, r)
	if !ok {
		return
	}

	png, err := h.barcodePNG(r.Context(), ticket.BarcodeCode)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to render barcode", err)
		return
	}

	var qrPNG []byte
	if h.QRGenerator != nil {
		if qrPNG, err = h.QRGenerator.GenerateEncryptedQR(*ticket); err != nil {
			h.Logger.Warn("API", fmt.Sprintf("QR for ticket %d skipped: %v", ticket.ID, err))
			qrPNG = nil
		}
	}

	pdf, err := h.PDF.Generate(*ticket, png, qrPNG)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PDF for ticket %d failed: %v", ticket.ID, err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to generate ticket PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket_%s_%s.pdf"`, ticket.BarcodeCode, ticket.SeatIdentifier))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// barcodePNG prefers the cache, then the rendered file, then renders in memory.
func (h *Handler) barcodePNG(ctx context.Context, code string) ([]byte, error) {
	if h.Images != nil {
		if data, err := h.Images.Get(ctx, code); err == nil {
			return data, nil
		}
	}
	if data, err := os.ReadFile(h.Renderer.Path(code)); err == nil {
		return data, nil
	}
	return h.Renderer.Encode(code)
}

// VerifyTicket handles POST /api/tickets/verify
// Expected body: {"token": "<QR token>"}
func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		utils.WriteError(w, http.StatusBadRequest, "token is required", err)
		return
	}
	if h.QRGenerator == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "ticket verification disabled", nil)
		return
	}

	claim, err := h.QRGenerator.Verify(body.Token)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid QR code", err)
		return
	}

	ticket, err := h.TicketService.GetTicket(r.Context(), claim.BarcodeCode)
	if errors.Is(err, db.ErrTicketNotFound) {
		utils.WriteError(w, http.StatusNotFound, "ticket not found", err)
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "error retrieving ticket", err)
		return
	}

	// A later purchase drew the same code.
	if ticket.ID != claim.TicketID {
		utils.WriteError(w, http.StatusConflict, "barcode was reissued to another ticket", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ticket valid", ticket))
}

// GetBarcodeImage handles GET /barcodes/barcode_<code>.png
func (h *Handler) GetBarcodeImage(w http.ResponseWriter, r *http.Request) {
	code, ok := barcode.CodeFromFileName(chi.URLParam(r, "file"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var data []byte
	if h.Images != nil {
		data, _ = h.Images.Get(r.Context(), code)
	}
	if data == nil {
		var err error
		data, err = os.ReadFile(h.Renderer.Path(code))
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("movies", models.Movies))
}

func (h *Handler) ListSeats(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("seats", models.SeatDomain))
}
