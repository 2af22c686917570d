package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stock_backend/internal/models"
)

// ErrQuoteUnavailable is returned when the quote page cannot be fetched or parsed.
var ErrQuoteUnavailable = errors.New("dollar quote unavailable")

const (
	buySelector  = ".compra .val"
	sellSelector = ".venta .val"
)

// DollarBlueResponse is the body of GET /dollar-blue.
type DollarBlueResponse struct {
	Success bool               `json:"success"`
	Blue    *models.DollarBlue `json:"blue,omitempty"`
	Message string             `json:"message,omitempty"`
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// --- DollarService Interface ---
type DollarService interface {
	GetBlue(ctx context.Context) (*models.DollarBlue, error)
}

type dollarService struct {
	client    HTTPDoer
	sourceURL string
}

// NewDollarService creates a DollarService that scrapes sourceURL.
func NewDollarService(client HTTPDoer, sourceURL string) DollarService {
	return &dollarService{client: client, sourceURL: sourceURL}
}

// GetBlue reads the first buy and sell values from the quote page.
func (s *dollarService) GetBlue(ctx context.Context) (*models.DollarBlue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrQuoteUnavailable, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrQuoteUnavailable, s.sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s answered %d", ErrQuoteUnavailable, s.sourceURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing page: %v", ErrQuoteUnavailable, err)
	}

	quote := &models.DollarBlue{
		Compra: strings.TrimSpace(doc.Find(buySelector).First().Text()),
		Venta:  strings.TrimSpace(doc.Find(sellSelector).First().Text()),
	}
	if quote.Compra == "" || quote.Venta == "" {
		return nil, fmt.Errorf("%w: quote values not found in page", ErrQuoteUnavailable)
	}
	return quote, nil
}
