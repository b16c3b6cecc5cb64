package http

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/seo"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.html"))

// previewTools are tools whose result is sanitized HTML that can be shown rendered.
var previewTools = map[string]bool{"markdown-html": true}

type pageData struct {
	Site    seo.Site
	Page    seo.Page
	JSONLD  template.JS
	Lang    string
	Version string

	Groups []categoryGroup

	Tool      domain.Tool
	Fields    []formField
	HasResult bool
	Result    string
	Preview   template.HTML
	Error     *ErrorDetail
}

type categoryGroup struct {
	Label string
	Tools []domain.Tool
}

type formField struct {
	Name        string
	Label       string
	Description string
	Kind        string // text, number, checkbox, select or textarea
	Required    bool
	Value       string
	Checked     bool
	Options     []string
}

// multiline parameters hold free text rather than a single token.
var multiline = map[string]bool{"text": true, "data": true}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tools := s.tools.Tools()
	page, err := seo.IndexPage(s.site, tools)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := s.basePage(page)
	data.Groups = groupTools(tools)
	s.render(w, r, http.StatusOK, "index.html", data)
}

func (s *Server) handleToolPage(w http.ResponseWriter, r *http.Request) {
	tool, ok := s.tools.LookupSlug(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, err := s.toolPage(tool)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data.Fields = formFields(tool, nil)
	s.render(w, r, http.StatusOK, "tool.html", data)
}

// handleToolSubmit runs the tool with the submitted form and renders the
// page again with the result or the error next to the form.
func (s *Server) handleToolSubmit(w http.ResponseWriter, r *http.Request) {
	tool, ok := s.tools.LookupSlug(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, err := s.toolPage(tool)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if err := r.ParseForm(); err != nil {
		err = fmt.Errorf("%w: %v", errBadRequest, err)
		status = statusFor(err)
		data.Error = &ErrorDetail{Kind: "request", Message: "The form could not be read."}
		data.Fields = formFields(tool, nil)
		s.render(w, r, status, "tool.html", data)
		return
	}

	data.Fields = formFields(tool, r.PostForm)
	result, err := s.tools.Invoke(r.Context(), tool.Name, formArgs(tool, r.PostForm))
	if err != nil {
		status = statusFor(err)
		d := detailFor(err)
		data.Error = &d
	} else {
		data.HasResult = true
		data.Result = resultText(result)
		if previewTools[tool.Name] {
			// The markdown tool output has already been through the sanitizer.
			data.Preview = template.HTML(data.Result)
		}
	}
	s.render(w, r, status, "tool.html", data)
}

func (s *Server) toolPage(tool domain.Tool) (pageData, error) {
	page, err := seo.ToolPage(s.site, tool)
	if err != nil {
		return pageData{}, err
	}
	data := s.basePage(page)
	data.Tool = tool
	return data, nil
}

func (s *Server) basePage(page seo.Page) pageData {
	lang, _, _ := strings.Cut(s.site.Locale, "_")
	if lang == "" {
		lang = "en"
	}
	return pageData{
		Site:    s.site,
		Page:    page,
		JSONLD:  template.JS(page.JSONLD),
		Lang:    lang,
		Version: s.version,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var b strings.Builder
	if err := pageTemplates.ExecuteTemplate(&b, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render page", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(b.String()))
}

func groupTools(tools []domain.Tool) []categoryGroup {
	byCategory := make(map[domain.Category][]domain.Tool)
	for _, t := range tools {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}
	var groups []categoryGroup
	for _, c := range domain.Categories() {
		if list := byCategory[c]; len(list) > 0 {
			groups = append(groups, categoryGroup{Label: c.Label(), Tools: list})
		}
	}
	return groups
}

// formFields describes the form controls of tool. Submitted values, when
// present, take the place of the defaults.
func formFields(tool domain.Tool, submitted map[string][]string) []formField {
	fields := make([]formField, 0, len(tool.Params))
	for _, p := range tool.Params {
		f := formField{
			Name:        p.Name,
			Label:       fieldLabel(p.Name),
			Description: p.Description,
			Required:    p.Required,
		}
		value := ""
		if p.Default != nil {
			value = fmt.Sprint(p.Default)
		}
		if submitted != nil {
			value = first(submitted[p.Name])
		}

		switch {
		case p.Type == domain.ParamBoolean:
			f.Kind = "checkbox"
			if submitted != nil {
				f.Checked = value != ""
			} else {
				f.Checked = value == "true"
			}
		case len(p.Enum) > 0:
			f.Kind = "select"
			f.Options = p.Enum
			f.Value = value
		case p.Type == domain.ParamInteger:
			f.Kind = "number"
			f.Value = value
		case multiline[p.Name]:
			f.Kind = "textarea"
			f.Value = value
		default:
			f.Kind = "text"
			f.Value = value
		}
		fields = append(fields, f)
	}
	return fields
}

// formArgs converts submitted form values into tool arguments. Empty
// optional fields are left out so the tool defaults apply; unchecked boxes
// mean false.
func formArgs(tool domain.Tool, form map[string][]string) map[string]any {
	args := make(map[string]any, len(tool.Params))
	for _, p := range tool.Params {
		values, present := form[p.Name]
		v := first(values)
		switch {
		case p.Type == domain.ParamBoolean:
			args[p.Name] = present && v != "" && v != "false"
		case p.Required && present:
			args[p.Name] = v
		case v != "":
			args[p.Name] = v
		}
	}
	return args
}

func fieldLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// resultText renders a tool result for display: Stringers and strings as
// they are, anything else as indented JSON.
func resultText(result any) string {
	switch v := result.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(b)
}
