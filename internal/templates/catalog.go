package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Catalog maps roles to template text.
type Catalog struct {
	templates map[Role]string
}

// NewCatalog returns a catalog holding the builtin templates.
func NewCatalog() *Catalog {
	c := &Catalog{templates: make(map[Role]string, len(builtinTemplates))}
	for role, text := range builtinTemplates {
		c.templates[role] = text
	}
	return c
}

// LoadCatalog returns the builtin catalog with any "<role>.tsx" files found
// in dir replacing the matching builtin. Missing files keep the builtin.
func LoadCatalog(fs billy.Filesystem, dir string) (*Catalog, error) {
	c := NewCatalog()
	if dir == "" {
		return c, nil
	}

	for _, role := range AllRoles {
		path := filepath.Join(dir, role.FileName())
		data, err := util.ReadFile(fs, path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading template override %s: %w", path, err)
		}
		c.templates[role] = string(data)
	}

	return c, nil
}

// Set replaces the template for role.
func (c *Catalog) Set(role Role, text string) {
	c.templates[role] = text
}

// TemplateFor returns the raw template text for role.
func (c *Catalog) TemplateFor(role Role) string {
	return c.templates[role]
}

// RolesForType delegates to the package-level mapping.
func (c *Catalog) RolesForType(fileType string) []Role {
	return RolesForType(fileType)
}
