// Package handler holds the HTTP handlers: the HTML pages of the directory
// and its small JSON API. Handlers parse the request, call a service and
// write the response; the rules live in the service layer.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/team-directory/internal/directory"
)

// Page names. Each is a file in the template directory that defines
// "content" for base.html.
const (
	pageAuth       = "auth"
	pageDashboard  = "dashboard"
	pageProfile    = "profile"
	pageOnboarding = "onboarding"
	pageError      = "error"
)

var pageNames = []string{pageAuth, pageDashboard, pageProfile, pageOnboarding, pageError}

// Renderer executes the page templates.
//
// ONE TEMPLATE SET PER PAGE:
// html/template keeps a single namespace per set. Every page file defines a
// block called "content", so parsing all pages into one set with
// ParseGlob would leave only the last file's "content" and every page would
// render the same body. Instead each page is parsed with base.html into its
// own set at startup:
//
//	pages["dashboard"] = base.html + dashboard.html
//	pages["profile"]   = base.html + profile.html
//
// Executing "base.html" on a set then pulls in that page's "content".
// Parsing once at startup also means a broken template fails server.New
// instead of the first request.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

var funcs = template.FuncMap{
	// sortURL is the dashboard link for a sort state.
	"sortURL": func(s directory.SortState) string {
		q := s.Query()
		if len(q) == 0 {
			return "/dashboard"
		}
		return "/dashboard?" + q.Encode()
	},
}

// NewRenderer parses base.html plus every page under templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames)), logger: logger}
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// pageData is what every page receives. Data is page specific.
type pageData struct {
	Title    string
	SignedIn bool
	Data     any
}

// render executes page into a buffer first so a template error can still
// become a clean 500 instead of half a page.
func (rn *Renderer) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorPage is the data of the full-page error shell.
type errorPage struct {
	Message string
	// BackToDashboard adds the "Return to Dashboard" link.
	BackToDashboard bool
}

func (rn *Renderer) renderError(w http.ResponseWriter, status int, msg string, back bool) {
	rn.render(w, status, pageError, pageData{
		Title:    msg,
		SignedIn: true,
		Data:     errorPage{Message: msg, BackToDashboard: back},
	})
}
