// Package view renders the HTML pages of the forum.
//
// Every page template defines a "content" block that is executed inside
// layout.html. Templates are embedded in the binary and get the sprig
// function set plus a few forum helpers.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Page is what every template receives as its dot.
type Page struct {
	Data     any
	UserID   int
	LoggedIn bool
	Path     string
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout together with each page template.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}

		t, err := template.New(layoutFile).
			Funcs(Funcs()).
			ParseFS(templateFS, "templates/"+layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	userID := middleware.GetUserID(c)
	return t.ExecuteTemplate(w, layoutFile, Page{
		Data:     data,
		UserID:   userID,
		LoggedIn: userID != 0,
		Path:     c.Request().URL.Path,
	})
}

// Funcs is sprig's function map extended with the forum helpers.
func Funcs() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["imageURL"] = ImageURL
	funcs["when"] = FormatTime
	funcs["edits"] = func(count *int) int {
		if count == nil {
			return 0
		}
		return *count
	}
	return funcs
}

// ImageURL maps a stored "images/<name>" path to its public URL.
func ImageURL(stored string) string {
	if stored == "" {
		return ""
	}
	return "/static/" + strings.TrimPrefix(stored, "/")
}

func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
