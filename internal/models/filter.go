package models

// ListingFilter is the structured filter a buyer builds in the filter dialog.
// It only reaches a listing query once committed with an explicit apply; it is
// never merged with the free-text search query.
type ListingFilter struct {
	IsNew          bool     `json:"is_new"`
	AcceptTrade    bool     `json:"accept_trade"`
	PaymentMethods []string `json:"payment_methods" validate:"omitempty,dive,oneof=boleto pix cash card deposit"`
}

// DefaultListingFilter returns the filter's reset state:
// condition new, no trade, no payment methods.
func DefaultListingFilter() ListingFilter {
	return ListingFilter{IsNew: true, AcceptTrade: false, PaymentMethods: []string{}}
}
