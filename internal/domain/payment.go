package domain

// PaymentKind represents how a trip or top-up is funded.
type PaymentKind string

const (
	PaymentKindWallet      PaymentKind = "wallet"
	PaymentKindMobileMoney PaymentKind = "mobile-money"
	PaymentKindCard        PaymentKind = "card"
	PaymentKindCash        PaymentKind = "cash"
)

// PaymentMethod is a stored funding source.
// At most one method is the default at any time; the first method added
// becomes the default when none exists.
type PaymentMethod struct {
	ID        string
	Kind      PaymentKind
	Provider  string
	Alias     string // masked, e.g. "*****4567"
	IsDefault bool
}

// ValidateMethodKind reports whether the kind may be stored as a payment
// method. The wallet itself is not a storable method.
func ValidateMethodKind(k string) (PaymentKind, bool) {
	switch PaymentKind(k) {
	case PaymentKindMobileMoney, PaymentKindCard, PaymentKindCash:
		return PaymentKind(k), true
	default:
		return "", false
	}
}
