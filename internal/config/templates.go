package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"
)

//go:embed all:templates
var templateFS embed.FS

// templatesRoot is the top-level directory in the embedded FS holding one
// subdirectory per starter layout.
const templatesRoot = "templates"

// DefaultTemplate is the starter layout used by "scenarist init" when none
// is named.
const DefaultTemplate = "starter"

// TemplateVars holds the values substituted into .tmpl files.
type TemplateVars struct {
	// ProjectName appears in generated comments and descriptions.
	ProjectName string
	// Shell is written into run.shell.
	Shell string
}

// ListTemplates returns the names of the embedded starter layouts.
func ListTemplates() ([]string, error) {
	entries, err := templateFS.ReadDir(templatesRoot)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// TemplateExists reports whether a starter layout with the given name exists.
func TemplateExists(name string) bool {
	info, err := fs.Stat(templateFS, path.Join(templatesRoot, name))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RenderTemplate writes the named starter layout into destDir. Files ending
// in ".tmpl" are rendered with text/template and lose the extension; other
// files are copied unchanged. Existing files are kept unless force is set.
//
// Returns the paths written, in walk order.
func RenderTemplate(name, destDir string, vars TemplateVars, force bool) ([]string, error) {
	if !TemplateExists(name) {
		return nil, fmt.Errorf("template %q not found", name)
	}

	sub, err := fs.Sub(templateFS, path.Join(templatesRoot, name))
	if err != nil {
		return nil, fmt.Errorf("opening template %q: %w", name, err)
	}

	var written []string
	walkErr := fs.WalkDir(sub, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking template %s: %w", rel, err)
		}
		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(sub, rel)
		if err != nil {
			return fmt.Errorf("reading embedded file %s: %w", rel, err)
		}

		outRel, isTmpl := strings.CutSuffix(rel, ".tmpl")
		if isTmpl {
			content, err = renderFile(rel, content, vars)
			if err != nil {
				return err
			}
		}

		dest := filepath.Join(destDir, filepath.FromSlash(outRel))
		if _, statErr := os.Stat(dest); statErr == nil && !force {
			log.Debug("skipping existing file", "path", dest)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", dest, err)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return fmt.Errorf("writing file %s: %w", dest, err)
		}

		log.Debug("created template file", "path", dest)
		written = append(written, dest)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return written, nil
}

func renderFile(name string, content []byte, vars TemplateVars) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
