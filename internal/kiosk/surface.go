package kiosk

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/tickets/barcode"
)

type notification struct {
	isError bool
	title   string
	message string
}

type shownBarcode struct {
	caption string
	path    string
	bars    string
}

// terminalSurface draws barcodes as text bars read back from the image name.
type terminalSurface struct {
	notes []notification
	shown []shownBarcode
}

func (s *terminalSurface) Show(_ context.Context, imagePath, caption string) error {
	code, ok := barcode.CodeFromFileName(imagePath)
	if !ok {
		return fmt.Errorf("unrecognized barcode image %q", imagePath)
	}
	bars, err := barcode.Bars(code)
	if err != nil {
		return err
	}
	s.shown = append(s.shown, shownBarcode{caption: caption, path: imagePath, bars: bars})
	return nil
}

func (s *terminalSurface) Error(title, message string) {
	s.notes = append(s.notes, notification{isError: true, title: title, message: message})
}

func (s *terminalSurface) Info(title, message string) {
	s.notes = append(s.notes, notification{title: title, message: message})
}
