package price

import (
	"context"
	"log/slog"
	"strings"

	"textile-trade-tracker/internal/order"
)

type Store interface {
	PriceHistory(ctx context.Context, partyID int64) ([]order.PriceRow, error)
}

// Suggestion pre-fills the price field of a new design entry. Exact is
// true when the party has bought this very design before; false when the
// price comes from another design in the same code family and should be
// labelled as an old price rather than a confident default.
type Suggestion struct {
	Price string
	Exact bool
}

type Service interface {
	Suggest(ctx context.Context, partyID int64, designCode string) (*Suggestion, error)
}

type DefaultService struct {
	store Store
}

func NewDefaultService(store Store) Service {
	return &DefaultService{store: store}
}

// Suggest returns the most recent price charged to the party for the
// design, falling back to any design sharing the prefix before the first
// hyphen. Nil means no suggestion.
func (d *DefaultService) Suggest(ctx context.Context, partyID int64, designCode string) (*Suggestion, error) {
	history, err := d.store.PriceHistory(ctx, partyID)
	if err != nil {
		slog.Error("Failed to load price history", "error", err, "partyID", partyID)
		return nil, err
	}

	for _, row := range history {
		if row.DesignCode == designCode {
			return &Suggestion{Price: row.Price, Exact: true}, nil
		}
	}

	family := codeFamily(designCode)
	for _, row := range history {
		if codeFamily(row.DesignCode) == family {
			return &Suggestion{Price: row.Price, Exact: false}, nil
		}
	}
	return nil, nil
}

// codeFamily is the part of a design code before the first hyphen.
func codeFamily(code string) string {
	if i := strings.Index(code, "-"); i >= 0 {
		return code[:i]
	}
	return code
}
