package gofpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tomatocr/cotizador/internal/domain/quote"
)

const (
	regularFontFile = "DejaVuSans.ttf"
	boldFontFile    = "DejaVuSans-Bold.ttf"
)

type Options struct {
	// FontDir holds DejaVuSans.ttf and DejaVuSans-Bold.ttf. Without it the
	// core Helvetica font is used and currency codes replace symbols.
	FontDir  string
	Branding quote.Branding
	Now      func() time.Time
	Logger   *zap.Logger
}

type Generator struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{opts: opts, log: log}
}

type page struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
	money  func(decimal.Decimal) string
}

func (p *page) font(style string, size float64) { p.pdf.SetFont(p.family, style, size) }

func (p *page) cell(w, h float64, s, align string) {
	p.pdf.CellFormat(w, h, p.tr(s), "", 0, align, false, 0, "")
}

func (g *Generator) Generate(q quote.Quote, totals quote.Totals) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(g.opts.Now())
	p := g.setupFonts(pdf, q.Currency)
	pdf.SetTitle(p.tr("Cotización "+q.Number), false)
	pdf.AddPage()

	brand := g.opts.Branding
	p.font("B", 16)
	p.cell(110, 10, brand.CompanyName, "L")
	p.cell(0, 10, "COTIZACIÓN", "R")
	pdf.Ln(8)
	p.font("", 11)
	p.cell(110, 6, brand.Tagline, "L")
	p.font("B", 11)
	p.cell(0, 6, q.Number, "R")
	pdf.Ln(10)

	p.font("B", 10)
	p.cell(95, 6, "CLIENTE:", "L")
	p.cell(0, 6, "DETALLES:", "L")
	pdf.Ln(6)
	p.font("", 10)
	left := [][2]string{
		{"Cliente:", q.Client.Name},
		{"Contacto:", strings.TrimSpace(q.Client.ID + " " + q.Client.Email)},
		{"Dirección:", q.Client.Address},
		{"Tel:", q.Client.Phone},
	}
	right := [][2]string{
		{"Fecha:", q.IssueDate.String()},
		{"Servicio:", q.ServiceType},
		{"Frecuencia:", q.Frequency},
		{"Validez:", fmt.Sprintf("%d días naturales", q.ValidDays)},
	}
	for i := range left {
		p.cell(22, 5, left[i][0], "L")
		p.cell(73, 5, trim(left[i][1], 40), "L")
		p.cell(22, 5, right[i][0], "L")
		p.cell(0, 5, trim(right[i][1], 40), "L")
		pdf.Ln(5)
	}

	pdf.Ln(4)
	p.font("B", 9)
	pdf.SetFillColor(244, 244, 244)
	headers := []struct {
		w     float64
		title string
		align string
	}{
		{8, "#", "L"}, {80, "Descripción", "L"}, {20, "Unidad", "L"},
		{16, "Cant", "R"}, {28, "Precio", "R"}, {28, "Total", "R"},
	}
	for _, h := range headers {
		pdf.CellFormat(h.w, 7, p.tr(h.title), "B", 0, h.align, true, 0, "")
	}
	pdf.Ln(7)

	p.font("", 9)
	for i, it := range q.Items {
		p.cell(8, 6, fmt.Sprintf("%d", i+1), "L")
		p.cell(80, 6, trim(string(it.Kind)+": "+it.Description, 48), "L")
		p.cell(20, 6, trim(it.Unit, 12), "L")
		p.cell(16, 6, it.Quantity.String(), "R")
		p.cell(28, 6, p.money(it.UnitPrice), "R")
		p.cell(28, 6, p.money(it.LineTotal()), "R")
		pdf.Ln(6)
	}

	pdf.Ln(4)
	p.font("", 10)
	rate := q.TaxRate.String()
	if !q.TaxEnabled {
		rate = "0"
	}
	rows := [][2]string{{"Subtotal:", p.money(totals.Subtotal)}}
	if totals.Discount.IsPositive() {
		rows = append(rows, [2]string{"Descuento:", "-" + p.money(totals.Discount)})
	}
	rows = append(rows, [2]string{fmt.Sprintf("IVA (%s%%):", rate), p.money(totals.Tax)})
	for _, r := range rows {
		p.cell(130, 6, "", "L")
		p.cell(25, 6, r[0], "L")
		p.cell(0, 6, r[1], "R")
		pdf.Ln(6)
	}
	p.font("B", 12)
	p.cell(130, 8, "", "L")
	p.cell(25, 8, "TOTAL:", "L")
	p.cell(0, 8, p.money(totals.Total), "R")
	pdf.Ln(10)

	if notes := strings.TrimSpace(q.Notes); notes != "" {
		g.block(p, "Notas y Alcance:", notes)
	}
	g.block(p, "Términos y Condiciones:", q.Terms)

	pdf.Ln(8)
	p.font("", 8)
	footer := brand.CompanyName
	if brand.Tagline != "" {
		footer += " - " + brand.Tagline
	}
	pdf.CellFormat(0, 4, p.tr(footer), "T", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, p.tr(brand.Contact), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.log.Error("quote pdf: output failed", zap.String("quote", q.Number), zap.Error(err))
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) block(p *page, title, body string) {
	p.font("B", 10)
	p.cell(0, 6, title, "L")
	p.pdf.Ln(6)
	p.font("", 9)
	p.pdf.MultiCell(0, 5, p.tr(body), "", "L", false)
	p.pdf.Ln(3)
}

// setupFonts prefers the UTF-8 fonts and falls back to core Helvetica with
// cp1252 text, where the colon sign is not available.
func (g *Generator) setupFonts(pdf *gofpdf.Fpdf, c quote.Currency) *page {
	if dir := g.opts.FontDir; dir != "" {
		regular := filepath.Join(dir, regularFontFile)
		bold := filepath.Join(dir, boldFontFile)
		if fileExists(regular) && fileExists(bold) {
			pdf.AddUTF8Font("DejaVu", "", regular)
			pdf.AddUTF8Font("DejaVu", "B", bold)
			if pdf.Err() {
				g.log.Warn("quote pdf: font load failed, using core font", zap.Error(pdf.Error()))
				pdf.ClearError()
			} else {
				return &page{
					pdf:    pdf,
					family: "DejaVu",
					tr:     func(s string) string { return s },
					money:  func(d decimal.Decimal) string { return quote.FormatMoney(d, c) },
				}
			}
		} else {
			g.log.Warn("quote pdf: fonts missing, using core font", zap.String("dir", dir))
		}
	}
	return &page{
		pdf:    pdf,
		family: "Helvetica",
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		money:  func(d decimal.Decimal) string { return quote.FormatMoneyCode(d, c) },
	}
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
