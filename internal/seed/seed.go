// Package seed holds the reference catalog loaded by the seeder endpoints.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var raw []byte

type Product struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"-"`
	RawPrice    string          `yaml:"price"`
	Stock       int             `yaml:"stock"`
	Category    string          `yaml:"category"`
}

type Dataset struct {
	Products   []Product `yaml:"products"`
	Categories []string  `yaml:"categories"`
}

func Load() (*Dataset, error) {
	return Parse(raw)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("seed: decode dataset: %w", err)
	}
	for i := range ds.Products {
		p, err := decimal.NewFromString(ds.Products[i].RawPrice)
		if err != nil {
			return nil, fmt.Errorf("seed: product %q price: %w", ds.Products[i].Name, err)
		}
		ds.Products[i].Price = p
	}
	return &ds, nil
}

// CategoryNames returns the declared categories followed by any category
// referenced only by a product, without duplicates.
func (d *Dataset) CategoryNames() []string {
	seen := make(map[string]struct{}, len(d.Categories))
	out := make([]string, 0, len(d.Categories))
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, c := range d.Categories {
		add(c)
	}
	for _, p := range d.Products {
		add(p.Category)
	}
	return out
}
