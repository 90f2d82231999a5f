package models

// PaymentMethod is one of the fixed payment tags an ad can accept,
// paired with its display label.
type PaymentMethod struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// paymentMethodLabels is the closed set of accepted payment tags.
// There is no dynamic extension; anything outside this set is invalid.
var paymentMethodLabels = map[string]string{
	"boleto":  "Boleto",
	"pix":     "Pix",
	"cash":    "Cash",
	"card":    "Credit Card",
	"deposit": "Bank Deposit",
}

// ValidPaymentMethod reports whether key belongs to the closed set.
func ValidPaymentMethod(key string) bool {
	_, ok := paymentMethodLabels[key]
	return ok
}

// PaymentMethodsFromKeys resolves tag keys into labeled payment methods.
// Unknown keys are dropped.
func PaymentMethodsFromKeys(keys []string) []PaymentMethod {
	methods := make([]PaymentMethod, 0, len(keys))
	for _, key := range keys {
		label, ok := paymentMethodLabels[key]
		if !ok {
			continue
		}
		methods = append(methods, PaymentMethod{Key: key, Name: label})
	}
	return methods
}
