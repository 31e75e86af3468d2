// Package nav holds the destination catalog and the deterministic keyword
// matcher used as the classifier's last-resort fallback.
package nav

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Destination is one screen the user can be navigated to. The catalog is
// fixed at process start; ID is the stable key used everywhere else.
type Destination struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path" yaml:"path"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Catalog is an immutable, validated set of destinations.
type Catalog struct {
	dests  []Destination
	byID   map[string]Destination
	byPath map[string]Destination
}

// NewCatalog validates the destinations and builds lookup indexes.
func NewCatalog(dests []Destination) (*Catalog, error) {
	if len(dests) == 0 {
		return nil, fmt.Errorf("catalog requires at least one destination")
	}

	c := &Catalog{
		dests:  make([]Destination, len(dests)),
		byID:   make(map[string]Destination, len(dests)),
		byPath: make(map[string]Destination, len(dests)),
	}
	copy(c.dests, dests)

	for _, d := range c.dests {
		if d.ID == "" {
			return nil, fmt.Errorf("destination %q has no id", d.Name)
		}
		if d.Path == "" {
			return nil, fmt.Errorf("destination %q has no path", d.ID)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate destination id %q", d.ID)
		}
		if _, dup := c.byPath[d.Path]; dup {
			return nil, fmt.Errorf("duplicate destination path %q", d.Path)
		}
		c.byID[d.ID] = d
		c.byPath[d.Path] = d
	}

	return c, nil
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file struct {
		Destinations []Destination `yaml:"destinations"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return NewCatalog(file.Destinations)
}

// Destinations returns the catalog contents in declaration order.
func (c *Catalog) Destinations() []Destination {
	out := make([]Destination, len(c.dests))
	copy(out, c.dests)
	return out
}

// ByID looks up a destination by its stable id.
func (c *Catalog) ByID(id string) (Destination, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// ByPath maps a routing path back to its destination. The root path maps
// to the home destination.
func (c *Catalog) ByPath(path string) (Destination, bool) {
	d, ok := c.byPath[path]
	return d, ok
}

// DefaultCatalog returns the compiled-in deployment catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Destination{
		{
			ID:          "home",
			Name:        "Home",
			Path:        "/",
			Keywords:    []string{"home", "main", "landing", "homepage", "start", "beginning", "welcome"},
			Description: "The main landing page of the application",
		},
		{
			ID:          "about",
			Name:        "About",
			Path:        "/about",
			Keywords:    []string{"about", "information", "company", "who we are", "mission", "team", "organization", "about us"},
			Description: "Information about our company, mission, and team",
		},
		{
			ID:          "products",
			Name:        "Products",
			Path:        "/products",
			Keywords:    []string{"products", "services", "items", "offerings", "solutions", "buy", "purchase", "catalog", "shop"},
			Description: "Browse our products and services",
		},
		{
			ID:          "contact",
			Name:        "Contact",
			Path:        "/contact",
			Keywords:    []string{"contact", "email", "phone", "message", "support", "help", "reach out", "contact us", "get in touch"},
			Description: "Contact information and a form to reach us",
		},
		{
			ID:          "settings",
			Name:        "Settings",
			Path:        "/settings",
			Keywords:    []string{"settings", "preferences", "options", "configure", "setup", "customize", "personalize", "account"},
			Description: "Configure your application settings and preferences",
		},
	})
	if err != nil {
		panic(err) // compiled-in catalog is always valid
	}
	return c
}
