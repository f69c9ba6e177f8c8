package ticket_api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type Notification struct {
	Kind    string `json:"kind"` // error or info
	Title   string `json:"title"`
	Message string `json:"message"`
}

type DisplayedBarcode struct {
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`
}

// collectingSurface gathers what one request should show the customer.
type collectingSurface struct {
	Notifications []Notification
	Displayed     []DisplayedBarcode
}

func (s *collectingSurface) Show(_ context.Context, imagePath, caption string) error {
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("barcode image unavailable: %w", err)
	}
	s.Displayed = append(s.Displayed, DisplayedBarcode{
		Caption:  caption,
		ImageURL: "/barcodes/" + filepath.Base(imagePath),
	})
	return nil
}

func (s *collectingSurface) Error(title, message string) {
	s.Notifications = append(s.Notifications, Notification{Kind: "error", Title: title, Message: message})
}

func (s *collectingSurface) Info(title, message string) {
	s.Notifications = append(s.Notifications, Notification{Kind: "info", Title: title, Message: message})
}
