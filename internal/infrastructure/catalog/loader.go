// Package catalog loads the ledger group catalog from a YAML file.
package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iho/societyledger/internal/domain"
)

// File is the root of a catalog file.
//
//	groups:
//	  - name: Bank Accounts
//	    category: Asset
//	    accounts: [Bank, Savings Bank]
type File struct {
	Groups []Group `yaml:"groups"`
}

// Group is one ledger group entry.
type Group struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Accounts []string `yaml:"accounts"`
}

// Load returns the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a catalog document. Unknown keys are rejected so typos do not
// silently drop accounts out of the reports.
func Decode(r io.Reader) (*domain.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty catalog", domain.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	if len(file.Groups) == 0 {
		return nil, fmt.Errorf("%w: no groups", domain.ErrInvalidCatalog)
	}

	groups := make([]domain.LedgerGroup, 0, len(file.Groups))
	for _, g := range file.Groups {
		groups = append(groups, domain.LedgerGroup{
			Name:     g.Name,
			Category: domain.Category(g.Category),
			Accounts: g.Accounts,
		})
	}

	return domain.NewCatalog(groups)
}

// Encode writes a catalog in the format Decode reads.
func Encode(w io.Writer, c *domain.Catalog) error {
	var file File
	for _, g := range c.Groups() {
		file.Groups = append(file.Groups, Group{
			Name:     g.Name,
			Category: string(g.Category),
			Accounts: g.Accounts,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}
