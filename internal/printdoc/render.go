package printdoc

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"textile-trade-tracker/internal/order"
	"textile-trade-tracker/internal/report"
	"textile-trade-tracker/internal/shade"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"shadeGroups": func(l shade.Ledger) []shade.QtyGroup { return l.GroupByQuantity() },
	"join":        joinNames,
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02-01-2006")
	},
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).ParseFS(templateFS, "templates/*.html"))

type orderFormData struct {
	Order       *order.ResponseOrder
	Pages       []Page
	GeneratedAt string
}

func RenderOrderForm(o *order.ResponseOrder) ([]byte, error) {
	data := orderFormData{
		Order:       o,
		Pages:       Paginate(o.Entries),
		GeneratedAt: time.Now().Format("02-01-2006 15:04"),
	}
	return render("order_form.html", data)
}

type challanData struct {
	Challan     Challan
	GeneratedAt string
}

func RenderChallan(c Challan) ([]byte, error) {
	data := challanData{
		Challan:     c,
		GeneratedAt: time.Now().Format("02-01-2006 15:04"),
	}
	return render("challan.html", data)
}

type programData struct {
	Lines       []report.ProgramLine
	GeneratedAt string
}

func RenderDyeingProgram(lines []report.ProgramLine) ([]byte, error) {
	data := programData{
		Lines:       lines,
		GeneratedAt: time.Now().Format("02-01-2006 15:04"),
	}
	return render("dyeing_program.html", data)
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "-"
		}
		out += n
	}
	return out
}
