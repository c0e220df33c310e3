package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Reduce returns the state after applying a. It never writes to the slices
// held by s, so earlier states stay valid for readers.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Loading:
		s.Loading = true
		s.Error = false
	case Success:
		s.Loading = false
		s.Error = false
		s.Catalog = slices.Clone(a.Products)
		if s.Catalog == nil {
			s.Catalog = []Product{}
		}
	case Failure:
		s.Loading = false
		s.Error = true
	case Add:
		s.Cart = addOne(s.Cart, a.Product)
	case RemoveOne:
		s.Cart = removeOne(s.Cart, a.ProductID)
	}
	return s
}

func addOne(entries []Entry, p Product) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	found := false
	for _, e := range entries {
		if e.Product.ID == p.ID {
			e.Quantity++
			found = true
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, Entry{Product: p, Quantity: 1})
	}
	return out
}

func removeOne(entries []Entry, id int64) []Entry {
	if !slices.ContainsFunc(entries, func(e Entry) bool { return e.Product.ID == id }) {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Product.ID == id {
			e.Quantity--
			if e.Quantity <= 0 {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func TotalItems(s State) int {
	n := 0
	for _, e := range s.Cart {
		n += e.Quantity
	}
	return n
}

// TotalPrice rounds half away from zero at two decimal places.
func TotalPrice(s State) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Cart {
		total = total.Add(e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total.Round(2)
}

func BadgeVisible(s State) bool {
	return TotalItems(s) > 0
}
