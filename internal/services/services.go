package services

import (
	"slices"
	"strings"
)

// DefaultServices are the sources the server ships with.
var DefaultServices = []string{"doujinstyle", "sukidesuost"}

// Catalog is an ordered set of service names.
type Catalog struct {
	names []string
}

// NewCatalog builds a catalog from names, dropping blanks and repeats. An empty list yields [DefaultServices].
func NewCatalog(names []string) *Catalog {
	c := &Catalog{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(c.names, n) {
			continue
		}
		c.names = append(c.names, n)
	}
	if len(c.names) == 0 {
		c.names = slices.Clone(DefaultServices)
	}
	return c
}

// Names returns the services in order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Default returns the first service.
func (c *Catalog) Default() string {
	return c.names[0]
}

// Resolve returns name when it is known, or the default otherwise.
func (c *Catalog) Resolve(name string) string {
	if c.Contains(name) {
		return name
	}
	return c.Default()
}

// Next returns the service after current, wrapping around.
func (c *Catalog) Next(current string) string {
	i := slices.Index(c.names, current)
	return c.names[(i+1)%len(c.names)]
}
