package tickets

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"cinema-ticketing/internal/logger"
	"cinema-ticketing/internal/metrics"
	"cinema-ticketing/internal/models"
)

type TicketDBLayer interface {
	EnsureSchema(ctx context.Context) error
	CreateTicket(ctx context.Context, ticket *models.TicketRecord) error
	CreateTickets(ctx context.Context, tickets []models.TicketRecord) error
	GetTicketByCode(ctx context.Context, code string) (*models.TicketRecord, error)
	ListTickets(ctx context.Context, limit int) ([]models.TicketRecord, error)
	ListTicketsByCustomer(ctx context.Context, customerName string) ([]models.TicketRecord, error)
	GetTotalTicketsCount(ctx context.Context) (int, error)
	GetTicketCountsByMovie(ctx context.Context) ([]models.MovieTicketCount, error)
}

type CodeGenerator interface {
	Generate(seatCount int, seat string) (string, error)
}

// ImageRenderer writes the barcode image for a payload and returns its path.
type ImageRenderer interface {
	Render(payload string) (string, error)
}

type EventPublisher interface {
	PublishTicketIssued(ctx context.Context, event models.TicketIssuedEvent) error
}

// Surface is whatever the customer is looking at: it shows barcode images
// and pops up notifications.
type Surface interface {
	Show(ctx context.Context, imagePath, caption string) error
	Error(title, message string)
	Info(title, message string)
}

const (
	TitleError   = "Error"
	TitleSuccess = "Success"
)

type TicketService struct {
	DB        TicketDBLayer
	Codes     CodeGenerator
	Renderer  ImageRenderer
	Publisher EventPublisher
	Logger    *logger.Logger

	// Atomic validates every seat and inserts all rows in one transaction
	// before anything is rendered.
	Atomic bool
	Now    func() time.Time
}

func NewTicketService(db TicketDBLayer, codes CodeGenerator, renderer ImageRenderer, log *logger.Logger) *TicketService {
	return &TicketService{
		DB:       db,
		Codes:    codes,
		Renderer: renderer,
		Logger:   log,
		Now:      time.Now,
	}
}

// SeatOutcome records which per-seat steps succeeded.
type SeatOutcome struct {
	Seat      string `json:"seat"`
	Code      string `json:"code"`
	ImagePath string `json:"image_path,omitempty"`
	Persisted bool   `json:"persisted"`
	Rendered  bool   `json:"rendered"`
	Displayed bool   `json:"displayed"`
}

type IssueResult struct {
	Outcomes []SeatOutcome `json:"outcomes"`
}

// Issued returns the outcomes that reached the success notification.
func (r *IssueResult) Issued() []SeatOutcome {
	var issued []SeatOutcome
	for _, o := range r.Outcomes {
		if o.Rendered {
			issued = append(issued, o)
		}
	}
	return issued
}

func (s *TicketService) EnsureSchema(ctx context.Context) error {
	if err := s.DB.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create tickets table: %w", err)
	}
	s.Logger.LogDatabase("ENSURE", "tickets", "table ready")
	return nil
}

// IssueTickets validates req and issues one barcode per seat. A validation
// error is reported to surface and returned as *ValidationError; seats
// processed before an invalid seat keep their side effects. Collaborator
// failures are reported and never returned.
func (s *TicketService) IssueTickets(ctx context.Context, req models.PurchaseRequest, surface Surface) (*IssueResult, error) {
	seatCount, verr := validateRequest(req)
	if verr != nil {
		return s.reject(req, surface, verr)
	}
	if !models.IsListedMovie(req.MovieTitle) {
		s.Logger.Warn("TICKET", fmt.Sprintf("movie %q is not on the listing", req.MovieTitle))
	}

	if s.Atomic {
		return s.issueAtomically(ctx, req, seatCount, surface)
	}

	result := &IssueResult{}
	for _, seat := range req.Seats {
		if !models.IsValidSeat(seat) {
			return s.rejectPartial(result, req, surface, invalidSeat(seat))
		}

		outcome, ok := s.generate(seatCount, seat, surface)
		if !ok {
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		record := s.recordFor(req, seat, outcome.Code)
		if err := s.DB.CreateTicket(ctx, &record); err != nil {
			metrics.SeatStepFailures.WithLabelValues("persist").Inc()
			s.Logger.Error("DATABASE", fmt.Sprintf("insert for seat %s failed: %v", seat, err))
			surface.Error(TitleError, fmt.Sprintf("error saving to the database: %v", err))
		} else {
			outcome.Persisted = true
			s.publish(ctx, record)
		}

		s.present(ctx, req, &outcome, surface)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	metrics.PurchasesTotal.WithLabelValues("accepted").Inc()
	return result, nil
}

func (s *TicketService) issueAtomically(ctx context.Context, req models.PurchaseRequest, seatCount int, surface Surface) (*IssueResult, error) {
	for _, seat := range req.Seats {
		if !models.IsValidSeat(seat) {
			return s.reject(req, surface, invalidSeat(seat))
		}
	}

	result := &IssueResult{}
	var records []models.TicketRecord
	for _, seat := range req.Seats {
		outcome, ok := s.generate(seatCount, seat, surface)
		if !ok {
			// A seat without a code would break all-or-nothing.
			metrics.PurchasesTotal.WithLabelValues("failed").Inc()
			return &IssueResult{Outcomes: []SeatOutcome{outcome}}, nil
		}
		result.Outcomes = append(result.Outcomes, outcome)
		records = append(records, s.recordFor(req, seat, outcome.Code))
	}

	if err := s.DB.CreateTickets(ctx, records); err != nil {
		metrics.SeatStepFailures.WithLabelValues("persist").Inc()
		metrics.PurchasesTotal.WithLabelValues("failed").Inc()
		s.Logger.Error("DATABASE", fmt.Sprintf("purchase transaction for %s failed: %v", req.CustomerName, err))
		surface.Error(TitleError, fmt.Sprintf("error saving to the database: %v", err))
		return result, nil
	}

	for i := range result.Outcomes {
		result.Outcomes[i].Persisted = true
		s.publish(ctx, records[i])
		s.present(ctx, req, &result.Outcomes[i], surface)
	}

	metrics.PurchasesTotal.WithLabelValues("accepted").Inc()
	return result, nil
}

func (s *TicketService) generate(seatCount int, seat string, surface Surface) (SeatOutcome, bool) {
	outcome := SeatOutcome{Seat: seat}
	code, err := s.Codes.Generate(seatCount, seat)
	if err != nil {
		metrics.SeatStepFailures.WithLabelValues("generate").Inc()
		s.Logger.Error("TICKET", fmt.Sprintf("code generation for seat %s failed: %v", seat, err))
		surface.Error(TitleError, fmt.Sprintf("error generating the barcode: %v", err))
		return outcome, false
	}
	outcome.Code = code
	return outcome, true
}

// present renders, displays and confirms one seat. A render failure skips
// the rest of the seat.
func (s *TicketService) present(ctx context.Context, req models.PurchaseRequest, outcome *SeatOutcome, surface Surface) {
	start := time.Now()
	path, err := s.Renderer.Render(outcome.Code)
	metrics.BarcodeRenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SeatStepFailures.WithLabelValues("render").Inc()
		s.Logger.Error("BARCODE", fmt.Sprintf("render for seat %s failed: %v", outcome.Seat, err))
		surface.Error(TitleError, fmt.Sprintf("error generating the barcode: %v", err))
		return
	}
	outcome.Rendered = true
	outcome.ImagePath = path

	if err := surface.Show(ctx, path, fmt.Sprintf("Barcode for seat %s", outcome.Seat)); err != nil {
		metrics.SeatStepFailures.WithLabelValues("display").Inc()
		s.Logger.Warn("DISPLAY", fmt.Sprintf("display for seat %s failed: %v", outcome.Seat, err))
		surface.Error(TitleError, fmt.Sprintf("could not display the barcode: %v", err))
	} else {
		outcome.Displayed = true
	}

	metrics.TicketsIssued.WithLabelValues(req.MovieTitle).Inc()
	s.Logger.LogTicket("ISSUE", outcome.Seat, fmt.Sprintf("%s for %s (%s)", outcome.Code, req.CustomerName, req.MovieTitle))
	surface.Info(TitleSuccess, fmt.Sprintf("barcode generated for seat %s: %s", outcome.Seat, filepath.Base(path)))
}

func (s *TicketService) publish(ctx context.Context, record models.TicketRecord) {
	if s.Publisher == nil {
		return
	}
	event := models.NewTicketIssuedEvent(record, s.now())
	if err := s.Publisher.PublishTicketIssued(ctx, event); err != nil {
		metrics.SeatStepFailures.WithLabelValues("publish").Inc()
		s.Logger.Warn("EVENTS", fmt.Sprintf("ticket %s issued event not published: %v", record.BarcodeCode, err))
	}
}

func (s *TicketService) recordFor(req models.PurchaseRequest, seat, code string) models.TicketRecord {
	return models.TicketRecord{
		CustomerName:   req.CustomerName,
		MovieTitle:     req.MovieTitle,
		SeatIdentifier: seat,
		BarcodeCode:    code,
	}
}

func (s *TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TicketService) reject(req models.PurchaseRequest, surface Surface, verr *ValidationError) (*IssueResult, error) {
	return s.rejectPartial(&IssueResult{}, req, surface, verr)
}

func (s *TicketService) rejectPartial(result *IssueResult, req models.PurchaseRequest, surface Surface, verr *ValidationError) (*IssueResult, error) {
	metrics.PurchasesTotal.WithLabelValues("rejected").Inc()
	metrics.ValidationFailures.WithLabelValues(string(verr.Reason)).Inc()
	s.Logger.Warn("TICKET", fmt.Sprintf("purchase by %q rejected: %s", req.CustomerName, verr.Message))
	surface.Error(TitleError, verr.Message)
	return result, verr
}

// parseQuantity accepts only non-empty strings of ASCII digits.
func parseQuantity(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
