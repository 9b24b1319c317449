package templates

import "text/template"

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]*template.Template
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]*template.Template),
	}

	registry.registerFileTemplates()
	registry.registerManifestTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (*template.Template, bool) {
	tmpl, exists := tr.templates[name]
	return tmpl, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) *template.Template {
	tmpl, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return tmpl
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["router-file"] = template.Must(template.New("router-file").Parse(
		`{{if .Header}}{{.Header}}

{{end}}package {{.PackageName}}
{{if .Imports}}
{{.Imports}}{{end}}{{range .Decls}}
{{.}}{{end}}`))
}

func (tr *TemplateRegistry) registerManifestTemplates() {
	tr.templates["manifest"] = template.Must(template.New("manifest").Parse(
		`{{range .}}{{.}}
{{end}}`))
}
