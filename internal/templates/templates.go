package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/autoinject/pkg/autoinject"
)

// defaultRegistry holds the built-in templates
var defaultRegistry = NewTemplateRegistry()

// RegistrationsFileData is the input of the registrations-file template
type RegistrationsFileData struct {
	PackageName   string
	Variable      string
	EnginePath    string
	Registrations []autoinject.Registration
}

// TypeRefExpr returns the Go expression that rebuilds ref with the engine's
// constructors. Closed instantiations are written as their open definition.
func TypeRefExpr(ref autoinject.TypeRef) string {
	ref = autoinject.Normalize(ref)

	args := []string{strconv.Quote(ref.PkgPath), strconv.Quote(ref.Name)}
	if !ref.IsOpen() {
		return fmt.Sprintf("autoinject.NewTypeRef(%s)", strings.Join(args, ", "))
	}

	for _, param := range ref.Params {
		args = append(args, strconv.Quote(param))
	}
	return fmt.Sprintf("autoinject.GenericDefinition(%s)", strings.Join(args, ", "))
}

// GenerateRegistrationsFile renders the Go source declaring a package's
// registrations. The result is not gofmt-formatted.
func GenerateRegistrationsFile(data RegistrationsFileData) (string, error) {
	if data.PackageName == "" {
		return "", fmt.Errorf("package name cannot be empty")
	}
	if data.EnginePath == "" {
		data.EnginePath = autoinject.PkgPath
	}

	return executeTemplateSet("registrations-file", data, "registration-entry")
}

// GenerateRegistrationRow renders one tab-separated row of the text table
func GenerateRegistrationRow(registration autoinject.Registration) (string, error) {
	return executeTemplate("registration-row", defaultRegistry.MustGet("registration-row"), registration)
}

// funcMap holds the helpers available to every template
var funcMap = template.FuncMap{
	"typeRef": TypeRefExpr,
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// executeTemplateSet executes the registry template name with the named
// registry templates available as {{template}} calls
func executeTemplateSet(name string, data interface{}, partials ...string) (string, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(defaultRegistry.MustGet(name))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	for _, partial := range partials {
		if _, err := tmpl.New(partial).Parse(defaultRegistry.MustGet(partial)); err != nil {
			return "", fmt.Errorf("failed to parse template %s: %w", partial, err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data interface{}) (string, error) {
	return executeTemplate(name, templateStr, data)
}
