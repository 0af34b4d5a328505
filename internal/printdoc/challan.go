package printdoc

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type ChallanLine struct {
	DesignCode  string
	ShadeName   string
	Meters      decimal.Decimal
	Pieces      int64
	Rate        decimal.Decimal
	DiscountPct decimal.Decimal
}

// Total is rate * meters * pieces * (1 - discount/100).
func (l ChallanLine) Total() decimal.Decimal {
	gross := l.Rate.Mul(l.Meters).Mul(decimal.NewFromInt(l.Pieces))
	factor := hundred.Sub(l.DiscountPct).Div(hundred)
	return gross.Mul(factor)
}

type Challan struct {
	ChallanNo string
	Party     string
	Transport string
	Lines     []ChallanLine
}

func (c Challan) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}
