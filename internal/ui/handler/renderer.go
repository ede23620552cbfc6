package handler

import (
	"html/template"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Renderer struct {
	templatesDir string
	templates    map[string]*template.Template
	mu           sync.RWMutex
	funcs        template.FuncMap
}

func NewRenderer(templatesDir string) *Renderer {
	return &Renderer{
		templatesDir: templatesDir,
		templates:    make(map[string]*template.Template),
		funcs:        defaultFuncs(),
	}
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"formatGTA":  formatGTA,
		"formatDate": formatDate,
		"safeJS": func(s string) template.JS {
			return template.JS(s)
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// formatGTA renders an in-game amount as GTA$1,234,567 or GTA$1,234.50.
func formatGTA(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	value = math.Round(value*100) / 100

	s := strconv.FormatFloat(value, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	out := sign + "GTA$" + groupThousands(intPart)
	if frac != "00" {
		out += "." + frac
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func (r *Renderer) loadTemplate(name string) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}

	layoutPath := filepath.Join(r.templatesDir, "layouts", "base.html")
	pagePath := filepath.Join(r.templatesDir, "pages", name+".html")
	componentsGlob := filepath.Join(r.templatesDir, "partials", "*.html")

	tmpl, err := template.New("").Funcs(r.funcs).ParseGlob(componentsGlob)
	if err != nil {
		tmpl = template.New("").Funcs(r.funcs)
	}

	tmpl, err = tmpl.ParseFiles(layoutPath, pagePath)
	if err != nil {
		return nil, err
	}

	r.templates[name] = tmpl
	return tmpl, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.loadTemplate(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (r *Renderer) HTML(c *gin.Context, code int, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	if err := r.Render(c.Writer, name, data); err != nil {
		c.String(500, "Template error: %v", err)
	}
}
