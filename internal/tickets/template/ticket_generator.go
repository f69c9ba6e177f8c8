package template

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"

	"cinema-ticketing/internal/models"
	"cinema-ticketing/internal/tickets/codegen"
)

type TicketPDFGenerator struct {
	FontPath string
}

func NewTicketPDFGenerator(fontPath string) *TicketPDFGenerator {
	return &TicketPDFGenerator{FontPath: fontPath}
}

// Generate lays out one printable ticket: seat details, the EAN-13 barcode
// image and, when given, a QR code.
func (g *TicketPDFGenerator) Generate(ticket models.TicketRecord, barcodePNG, qrCode []byte) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	err := pdf.AddTTFFont("dejavu", g.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	err = pdf.SetFont("dejavu", "", 14)
	if err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}

	addHeader(pdf)

	pdf.SetY(60)
	addTicketInfo(pdf, ticket)

	if len(barcodePNG) > 0 {
		pdf.SetY(pdf.GetY() + 20)
		addImage(pdf, barcodePNG, &gopdf.Rect{W: 300, H: 100}, "barcode")
	}

	if len(qrCode) > 0 {
		pdf.SetY(pdf.GetY() + 120)
		addImage(pdf, qrCode, &gopdf.Rect{W: 100, H: 100}, "QR code")
	}

	pdf.SetY(760)
	addFooter(pdf)

	var buf bytes.Buffer
	err = pdf.Write(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf) {
	pdf.SetX(40)
	pdf.SetY(30)
	pdf.Cell(nil, "CINEMA TICKET")
}

type infoLine struct {
	Label string
	Value string
}

func ticketInfo(ticket models.TicketRecord) []infoLine {
	number := ticket.BarcodeCode
	if full, err := codegen.FullCode(ticket.BarcodeCode); err == nil {
		number = full
	}
	return []infoLine{
		{"Ticket", fmt.Sprintf("#%d", ticket.ID)},
		{"Customer", ticket.CustomerName},
		{"Movie", ticket.MovieTitle},
		{"Seat", ticket.SeatIdentifier},
		{"Barcode", number},
	}
}

func addTicketInfo(pdf *gopdf.GoPdf, ticket models.TicketRecord) {
	for _, item := range ticketInfo(ticket) {
		pdf.SetX(40)
		pdf.Cell(nil, item.Label+": "+item.Value)
		pdf.Br(20)
	}
}

func addImage(pdf *gopdf.GoPdf, data []byte, rect *gopdf.Rect, name string) {
	pdf.SetX(40)
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		pdf.Cell(nil, "Failed to load "+name)
		return
	}

	err = pdf.ImageFrom(img, 40, pdf.GetY(), rect)
	if err != nil {
		pdf.Cell(nil, "Failed to draw "+name)
	}
}

func addFooter(pdf *gopdf.GoPdf) {
	pdf.SetX(50)
	pdf.Cell(nil, "Present this ticket at the entrance. Enjoy the movie!")
}
