package models

// ProductImage is an image already stored by the marketplace backend,
// addressed by a stable ID and a storage path under /images/.
type ProductImage struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// ProductOwner is the owner summary the backend embeds in a product payload.
type ProductOwner struct {
	Name   string `json:"name"`
	Tel    string `json:"tel"`
	Avatar string `json:"avatar"`
}

// Product represents a classified ad owned by a marketplace user.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	IsNew          bool            `json:"is_new"`
	Price          float64         `json:"price"`
	AcceptTrade    bool            `json:"accept_trade"`
	IsActive       bool            `json:"is_active"`
	UserID         string          `json:"user_id"`
	ProductImages  []ProductImage  `json:"product_images"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	User           ProductOwner    `json:"user"`
}

// PaymentMethodKeys returns the tag keys of the product's payment methods,
// the shape the backend expects on create and update.
func (p *Product) PaymentMethodKeys() []string {
	keys := make([]string, 0, len(p.PaymentMethods))
	for _, m := range p.PaymentMethods {
		keys = append(keys, m.Key)
	}
	return keys
}
