package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"marketspace/internal/backend"
	"marketspace/internal/models"
)

// ListingService holds the browse state of the listing surface: the free-text
// query and the committed structured filter. The two are independent query
// mechanisms against the same collection endpoint and are never merged into
// one request.
type ListingService struct {
	api      backend.API
	sessions *SessionService

	mu      sync.RWMutex
	query   string
	filter  models.ListingFilter
	applied bool
}

// NewListingService creates a new ListingService with the filter in its
// default, not-yet-applied state.
func NewListingService(api backend.API, sessions *SessionService) *ListingService {
	return &ListingService{
		api:      api,
		sessions: sessions,
		filter:   models.DefaultListingFilter(),
	}
}

// ApplyFilter commits a structured filter, replacing the previous one
// wholesale. Only applied filters ever reach a listing fetch.
func (s *ListingService) ApplyFilter(filter models.ListingFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter
	s.applied = true
}

// ResetFilter restores the structured filter to its default (condition new,
// no trade, no payment methods) and marks it not applied. The free-text
// query is left untouched.
func (s *ListingService) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = models.DefaultListingFilter()
	s.applied = false
}

// CurrentFilter returns the structured filter and whether it has been applied.
func (s *ListingService) CurrentFilter() (models.ListingFilter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter, s.applied
}

// Query returns the last free-text search query.
func (s *ListingService) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query
}

// Search fetches listings by free-text query alone. The structured filter
// plays no part in this request.
func (s *ListingService) Search(ctx context.Context, query string) ([]models.Product, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	return s.api.FetchProducts(ctx, token, params)
}

// Browse fetches listings with exactly the committed structured filter's
// parameters, or none when no filter has been applied.
func (s *ListingService) Browse(ctx context.Context) ([]models.Product, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return nil, err
	}

	filter, applied := s.CurrentFilter()

	params := url.Values{}
	if applied {
		params.Set("is_new", strconv.FormatBool(filter.IsNew))
		params.Set("accept_trade", strconv.FormatBool(filter.AcceptTrade))
		for _, method := range filter.PaymentMethods {
			params.Add("payment_methods", method)
		}
	}
	return s.api.FetchProducts(ctx, token, params)
}

// OwnAds lists the caller's own ads newest-first, optionally narrowed by
// activation status. The status filter is applied locally, as the backend's
// own-products endpoint takes no parameters.
func (s *ListingService) OwnAds(ctx context.Context, status string) ([]models.Product, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return nil, err
	}

	products, err := s.api.FetchOwnProducts(ctx, token)
	if err != nil {
		return nil, err
	}

	// The backend returns oldest-first; the ads screen shows newest-first.
	for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
		products[i], products[j] = products[j], products[i]
	}

	switch status {
	case "", "all":
		return products, nil
	case "active", "inactive":
		wantActive := status == "active"
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.IsActive == wantActive {
				filtered = append(filtered, p)
			}
		}
		return filtered, nil
	default:
		return nil, fmt.Errorf("invalid ad status filter: %s", status)
	}
}
