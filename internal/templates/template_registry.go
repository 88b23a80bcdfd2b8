package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerGoTemplates()
	registry.registerTextTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerGoTemplates registers the templates producing Go source
func (tr *TemplateRegistry) registerGoTemplates() {
	tr.templates["registrations-file"] = `// Code generated by autoinject. DO NOT EDIT.

package {{.PackageName}}

import "{{.EnginePath}}"

// {{.Variable}} lists the services discovered in package {{.PackageName}}.
var {{.Variable}} = []autoinject.Registration{
{{- range .Registrations}}
	{{template "registration-entry" .}}
{{- end}}
}

// Register{{.Variable}} adds {{.Variable}} to c.
func Register{{.Variable}}(c autoinject.Container) {
	for _, registration := range {{.Variable}} {
		c.Add(registration)
	}
}
`

	tr.templates["registration-entry"] = `{
		Service:        {{typeRef .Service}},
		Implementation: {{typeRef .Implementation}},
		Lifetime:       autoinject.{{.Lifetime}},
	},`
}

// registerTextTemplates registers the templates producing plain text
func (tr *TemplateRegistry) registerTextTemplates() {
	tr.templates["registration-row"] = "{{.Service}}\t{{.Implementation}}\t{{.Lifetime}}\n"
}
