package printdoc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textile-trade-tracker/internal/order"
	"textile-trade-tracker/internal/report"
	"textile-trade-tracker/internal/shade"
)

func TestChallanLineTotal(t *testing.T) {
	line := ChallanLine{
		DesignCode:  "FLORA-102",
		Meters:      decimal.NewFromInt(50),
		Pieces:      2,
		Rate:        decimal.NewFromInt(100),
		DiscountPct: decimal.NewFromInt(10),
	}

	assert.Equal(t, "9000.00", line.Total().StringFixed(2))
}

func TestChallanLineNoDiscount(t *testing.T) {
	line := ChallanLine{
		Meters: decimal.RequireFromString("12.5"),
		Pieces: 1,
		Rate:   decimal.NewFromInt(80),
	}

	assert.Equal(t, "1000.00", line.Total().StringFixed(2))
}

func TestChallanGrandTotal(t *testing.T) {
	c := Challan{
		Lines: []ChallanLine{
			{Meters: decimal.NewFromInt(10), Pieces: 1, Rate: decimal.NewFromInt(50)},
			{Meters: decimal.NewFromInt(20), Pieces: 1, Rate: decimal.NewFromInt(25)},
		},
	}

	assert.Equal(t, "1000.00", c.GrandTotal().StringFixed(2))
}

func TestRenderOrderForm(t *testing.T) {
	resp := &order.ResponseOrder{
		OrderNo: 42,
		Date:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		BillTo:  order.DBParty{Name: "Keshav Textiles"},
		ShipTo:  order.DBParty{Name: "Keshav Textiles"},
		Entries: []order.DBEntry{
			{DesignCode: "FLORA-102", Price: "88", Shades: shade.Ledger{{Name: "1", Qty: "50"}}},
		},
	}

	html, err := RenderOrderForm(resp)
	require.NoError(t, err)
	assert.Contains(t, string(html), "FLORA-102")
	assert.Contains(t, string(html), "Keshav Textiles")
	assert.Contains(t, string(html), "1: 50m")
}

func TestRenderChallan(t *testing.T) {
	c := Challan{
		ChallanNo: "CH-17",
		Party:     "Apex Fabrics",
		Lines: []ChallanLine{
			{DesignCode: "D-501", Meters: decimal.NewFromInt(30), Pieces: 1, Rate: decimal.NewFromInt(95)},
		},
	}

	html, err := RenderChallan(c)
	require.NoError(t, err)
	assert.Contains(t, string(html), "CH-17")
	assert.Contains(t, string(html), "2850.00")
}

func TestRenderDyeingProgram(t *testing.T) {
	html, err := RenderDyeingProgram([]report.ProgramLine{
		{Design: "FLORA-102", Parties: []string{"Apex Fabrics"}, TotalMeters: 130, ColourCount: 2, LumpSet: 1, Taka: 2},
	})
	require.NoError(t, err)
	assert.Contains(t, string(html), "FLORA-102")
	assert.Contains(t, string(html), "Apex Fabrics")
}

func TestDocumentName(t *testing.T) {
	name := DocumentName("Dispatch List", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), ".xlsx")
	assert.Equal(t, "dispatch-list-2026-04-01.xlsx", name)
}
