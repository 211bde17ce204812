package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed factors.yaml
var factorsYAML []byte

// Factor is the emission factor of one subtype. An empty ID means the
// subtype has no external factor and is always computed from Rate.
type Factor struct {
	ID   string  `yaml:"factor_id"`
	Rate float64 `yaml:"rate"`
}

type categoryFactors struct {
	DefaultSubtype string            `yaml:"default_subtype"`
	Subtypes       map[string]Factor `yaml:"subtypes"`
}

type factorFile struct {
	Travel       categoryFactors `yaml:"travel"`
	Electricity  categoryFactors `yaml:"electricity"`
	Food         categoryFactors `yaml:"food"`
	Waste        categoryFactors `yaml:"waste"`
	DaysPerMonth float64         `yaml:"days_per_month"`
}

// FactorTable is the immutable catalog of external factor IDs and fallback rates
type FactorTable struct {
	categories   map[Category]categoryFactors
	daysPerMonth float64
}

var defaultFactors = mustLoadFactorTable(factorsYAML)

// DefaultFactors returns the factor table embedded in the binary
func DefaultFactors() *FactorTable {
	return defaultFactors
}

// LoadFactorTable parses and checks a YAML factor table
func LoadFactorTable(data []byte) (*FactorTable, error) {
	var f factorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("factors: failed to parse table: %w", err)
	}

	t := &FactorTable{
		categories: map[Category]categoryFactors{
			CategoryTravel:      f.Travel,
			CategoryElectricity: f.Electricity,
			CategoryFood:        f.Food,
			CategoryWaste:       f.Waste,
		},
		daysPerMonth: f.DaysPerMonth,
	}

	if t.daysPerMonth <= 0 {
		return nil, fmt.Errorf("factors: days_per_month must be positive, got %v", t.daysPerMonth)
	}
	for c, cf := range t.categories {
		if _, ok := cf.Subtypes[cf.DefaultSubtype]; !ok {
			return nil, fmt.Errorf("factors: %s default subtype %q is not defined", c, cf.DefaultSubtype)
		}
		for name, factor := range cf.Subtypes {
			if factor.Rate < 0 {
				return nil, fmt.Errorf("factors: %s/%s has negative rate %v", c, name, factor.Rate)
			}
		}
	}
	if waste := t.categories[CategoryWaste]; hasFactorID(waste) {
		return nil, fmt.Errorf("factors: waste cannot reference an external factor")
	}

	return t, nil
}

func mustLoadFactorTable(data []byte) *FactorTable {
	t, err := LoadFactorTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

func hasFactorID(cf categoryFactors) bool {
	for _, f := range cf.Subtypes {
		if f.ID != "" {
			return true
		}
	}
	return false
}

// Lookup returns the factor of an exact subtype
func (t *FactorTable) Lookup(c Category, subtype string) (Factor, bool) {
	f, ok := t.categories[c].Subtypes[subtype]
	return f, ok
}

// Resolve returns the factor of a subtype, or the category default when unknown
func (t *FactorTable) Resolve(c Category, subtype string) Factor {
	if f, ok := t.Lookup(c, subtype); ok {
		return f
	}
	cf := t.categories[c]
	return cf.Subtypes[cf.DefaultSubtype]
}

// DefaultSubtype returns the subtype unknown values coerce to
func (t *FactorTable) DefaultSubtype(c Category) string {
	return t.categories[c].DefaultSubtype
}

// DaysPerMonth is the divisor converting monthly waste into a daily figure
func (t *FactorTable) DaysPerMonth() float64 {
	return t.daysPerMonth
}
