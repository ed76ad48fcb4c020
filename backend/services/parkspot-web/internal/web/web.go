package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives.
type Page struct {
	Title     string
	Identity  session.Identity
	Flash     *session.Flash
	CSRFField template.HTML
	Currency  string
	AdminArea bool
	Data      any
}

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template once.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tpl, err := template.New(path.Base(layoutFile)).Funcs(funcs()).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

// Render writes page with status. Output is buffered so a failing template never sends a partial page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("web: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

var printer = message.NewPrinter(language.English)

// Amount renders d with thousands grouping and at most two decimals.
func Amount(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}

// Money prefixes Amount with a currency code, e.g. "KES 1,500".
func Money(currency string, d decimal.Decimal) string {
	return currency + " " + Amount(d)
}

func paymentClass(status models.PaymentStatus) string {
	switch status {
	case models.PaymentPaid:
		return "badge-ok"
	case models.PaymentPending:
		return "badge-warn"
	default:
		return "badge-muted"
	}
}

func spotClass(status models.SpotStatus) string {
	switch status {
	case models.SpotAvailable:
		return "badge-ok"
	case models.SpotBooked:
		return "badge-warn"
	default:
		return "badge-muted"
	}
}

func spotStatuses() []models.SpotStatus {
	return []models.SpotStatus{models.SpotAvailable, models.SpotBooked, models.SpotCancelled}
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"amount":       Amount,
		"money":        Money,
		"paymentClass": paymentClass,
		"spotClass":    spotClass,
		"equalFold":    strings.EqualFold,
		"spotStatuses": spotStatuses,
	}
}
