/*
Package mmtex is a library for converting MmTex textures to and from
ordinary images, keeping a catalog of every texture it has converted.
*/
package mmtex

import (
	"log"

	"github.com/bodgit/mmtex/format"
)

// MmTex converts textures whose pixels use a fixed indexed format, either
// format.IndexedA3I5 or format.IndexedA5I3.
type MmTex struct {
	catalog *Catalog
	format  format.ColorFormat
	logger  *log.Logger
}

// New returns an MmTex using the catalog database in file.
func New(file string, f format.ColorFormat, logger *log.Logger) (*MmTex, error) {
	catalog, err := NewCatalog(file)
	if err != nil {
		return nil, err
	}

	return &MmTex{
		catalog: catalog,
		format:  f,
		logger:  logger,
	}, nil
}

// Close closes the catalog
func (m *MmTex) Close() error {
	return m.catalog.Close()
}
