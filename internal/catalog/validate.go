package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"MiniCart/internal/cart"
)

type productRules struct {
	ID    int64  `validate:"required"`
	Title string `validate:"required"`
	Image string `validate:"omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// filterProducts keeps the products a view can show and add to a cart. It
// returns one reason per dropped product. The first of two products sharing
// an id wins.
func filterProducts(products []cart.Product) ([]cart.Product, []string) {
	kept := make([]cart.Product, 0, len(products))
	seen := make(map[int64]struct{}, len(products))
	var skipped []string

	for i, p := range products {
		if err := validate.Struct(productRules{ID: p.ID, Title: p.Title, Image: p.Image}); err != nil {
			skipped = append(skipped, fmt.Sprintf("index=%d: %v", i, err))
			continue
		}
		if p.Price.IsNegative() {
			skipped = append(skipped, fmt.Sprintf("index=%d: negative price %s", i, p.Price))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			skipped = append(skipped, fmt.Sprintf("index=%d: duplicate id %d", i, p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		kept = append(kept, p)
	}

	return kept, skipped
}
