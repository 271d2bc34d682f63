package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/common/*.tmpl templates/config/*.tmpl templates/chat/*.tmpl
var templateFS embed.FS

// registry holds parsed templates and provides thread-safe access.
type registry struct {
	mu        sync.RWMutex
	templates map[PromptID]*template.Template
	funcMap   template.FuncMap
}

// globalRegistry is the singleton registry instance.
//
//nolint:gochecknoglobals // singleton pattern for template registry - provides thread-safe global access
var globalRegistry = &registry{
	templates: make(map[PromptID]*template.Template),
	funcMap:   defaultFuncMap(),
}

// defaultFuncMap returns the default template functions.
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// join concatenates strings with a separator
		"join": strings.Join,
		// hasContent checks if a string is non-empty
		"hasContent": func(s string) bool {
			return strings.TrimSpace(s) != ""
		},
		// trim removes surrounding whitespace
		"trim": strings.TrimSpace,
		// orDefault returns fallback when s is blank
		"orDefault": func(fallback, s string) string {
			if strings.TrimSpace(s) == "" {
				return fallback
			}
			return s
		},
		// capitalizeFirst capitalizes the first letter
		"capitalizeFirst": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		// lower converts to lowercase
		"lower": strings.ToLower,
		// upper converts to uppercase
		"upper": strings.ToUpper,
	}
}

// init loads all templates at startup.
//
//nolint:gochecknoinits // required to preload embedded templates at package initialization
func init() {
	if err := globalRegistry.loadAll(); err != nil {
		// Templates are embedded, so this should never fail
		// If it does, it's a compile-time bug we want to know about
		panic(fmt.Sprintf("failed to load embedded templates: %v", err))
	}
}

// loadAll loads all templates from the embedded filesystem.
func (r *registry) loadAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// First, load common templates that can be included by others
	commonTemplates, err := r.loadCommonTemplates()
	if err != nil {
		return fmt.Errorf("loading common templates: %w", err)
	}

	// Walk the templates directory and load each template
	return fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories and non-template files
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}

		// Skip common templates (already loaded)
		if strings.Contains(path, "/common/") {
			return nil
		}

		// Read template content
		content, err := templateFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		// Derive prompt ID from path: templates/config/summary.tmpl -> config/summary
		promptID := r.pathToPromptID(path)

		// Create template with common templates included
		tmpl := template.New(string(promptID)).Funcs(r.funcMap)

		// Add common templates
		for name, commonTmpl := range commonTemplates {
			if _, addErr := tmpl.AddParseTree(name, commonTmpl.Tree); addErr != nil {
				return fmt.Errorf("adding common template %s: %w", name, addErr)
			}
		}

		// Parse the main template
		_, err = tmpl.Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}

		r.templates[promptID] = tmpl
		return nil
	})
}

// loadCommonTemplates loads templates from the common directory.
func (r *registry) loadCommonTemplates() (map[string]*template.Template, error) {
	common := make(map[string]*template.Template)

	entries, err := templateFS.ReadDir("templates/common")
	if err != nil {
		// common directory is optional, return empty map if not found
		return common, nil //nolint:nilerr // common templates are optional; missing directory is not an error
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join("templates/common", entry.Name())
		content, err := templateFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading common template %s: %w", path, err)
		}

		// Name is "common/<name>" without .tmpl extension
		name := "common/" + strings.TrimSuffix(entry.Name(), ".tmpl")

		tmpl, err := template.New(name).Funcs(r.funcMap).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parsing common template %s: %w", path, err)
		}

		common[name] = tmpl
	}

	return common, nil
}

// pathToPromptID converts a file path to a PromptID.
// templates/config/summary.tmpl -> config/summary
func (r *registry) pathToPromptID(path string) PromptID {
	// Remove "templates/" prefix and ".tmpl" suffix
	id := strings.TrimPrefix(path, "templates/")
	id = strings.TrimSuffix(id, ".tmpl")
	return PromptID(id)
}

// get retrieves a template by ID.
func (r *registry) get(id PromptID) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return tmpl, nil
}
