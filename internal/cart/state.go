package cart

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Title       string          `json:"title"`
}

// Entry is one cart line. Quantity is always >= 1; a line that would reach
// zero is dropped from the cart instead.
type Entry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type State struct {
	Loading bool      `json:"loading"`
	Error   bool      `json:"error"`
	Catalog []Product `json:"products"`
	Cart    []Entry   `json:"cart"`
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

func (s State) Phase() Phase {
	switch {
	case s.Error:
		return PhaseError
	case s.Loading:
		return PhaseLoading
	case s.Catalog != nil:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

func (s State) Product(id int64) (Product, bool) {
	for _, p := range s.Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s State) Quantity(id int64) int {
	for _, e := range s.Cart {
		if e.Product.ID == id {
			return e.Quantity
		}
	}
	return 0
}
