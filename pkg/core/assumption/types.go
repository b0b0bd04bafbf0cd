// Package assumption loads named sets of DCF rate assumptions from YAML.
//
// A scenario file looks like:
//
//	company: ACME
//	scenarios:
//	  base:
//	    wacc: 0.09
//	    short_term_growth: 0.05
//	    long_term_growth: 0.02
//	  levered:
//	    capm:
//	      unlevered_beta: 1.1
//	      risk_free_rate: 0.04
//	      market_risk_premium: 0.05
//	      pre_tax_cost_of_debt: 0.06
//	      tax_rate: 0.21
//	      debt_to_equity: 0.4
//	    short_term_growth: 0.04
//	    long_term_growth: 0.02
package assumption

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"corporate_valuation/pkg/core/valuation"

	"gopkg.in/yaml.v2"
)

// ErrUnknownScenario is returned when a requested scenario is not in the set.
var ErrUnknownScenario = errors.New("assumption: unknown scenario")

// Scenario is one named set of rates. The discount rate comes from exactly one
// of WACC or CAPM. Nothing has a default.
type Scenario struct {
	Description     string               `yaml:"description,omitempty"`
	WACC            *float64             `yaml:"wacc,omitempty"`
	CAPM            *valuation.WACCInput `yaml:"capm,omitempty"`
	ShortTermGrowth *float64             `yaml:"short_term_growth"`
	LongTermGrowth  *float64             `yaml:"long_term_growth"`
}

// Set is a scenario file.
type Set struct {
	Company   string               `yaml:"company,omitempty"`
	Scenarios map[string]*Scenario `yaml:"scenarios"`
}

// Parse decodes and validates a scenario file.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("assumption: decode: %w", err)
	}
	if len(s.Scenarios) == 0 {
		return nil, errors.New("assumption: no scenarios defined")
	}
	for _, name := range s.Names() {
		if err := s.Scenarios[name].Validate(); err != nil {
			return nil, fmt.Errorf("assumption: scenario %q: %w", name, err)
		}
	}
	return &s, nil
}

// Load reads a scenario file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assumption: %w", err)
	}
	return Parse(data)
}

// Names returns the scenario names sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Scenarios))
	for name := range s.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the rates of the named scenario.
func (s *Set) Resolve(name string) (valuation.Assumptions, error) {
	sc, ok := s.Scenarios[name]
	if !ok || sc == nil {
		return valuation.Assumptions{}, fmt.Errorf("%w %q", ErrUnknownScenario, name)
	}
	return sc.Assumptions()
}

// Validate checks that every rate has a source.
func (sc *Scenario) Validate() error {
	if sc == nil {
		return errors.New("empty scenario")
	}
	switch {
	case sc.WACC == nil && sc.CAPM == nil:
		return errors.New("one of wacc or capm is required")
	case sc.WACC != nil && sc.CAPM != nil:
		return errors.New("wacc and capm are mutually exclusive")
	case sc.ShortTermGrowth == nil:
		return errors.New("short_term_growth is required")
	case sc.LongTermGrowth == nil:
		return errors.New("long_term_growth is required")
	}
	return nil
}

// Assumptions resolves the scenario, deriving WACC from CAPM when needed.
func (sc *Scenario) Assumptions() (valuation.Assumptions, error) {
	if err := sc.Validate(); err != nil {
		return valuation.Assumptions{}, err
	}
	a := valuation.Assumptions{
		ShortTermGrowth: *sc.ShortTermGrowth,
		LongTermGrowth:  *sc.LongTermGrowth,
	}
	if sc.WACC != nil {
		a.WACC = *sc.WACC
		return a, nil
	}
	res, err := valuation.CalculateWACC(*sc.CAPM)
	if err != nil {
		return valuation.Assumptions{}, err
	}
	a.WACC = res.WACC
	return a, nil
}

// Overrides replace individual rates, typically from command-line flags.
type Overrides struct {
	WACC            *float64
	ShortTermGrowth *float64
	LongTermGrowth  *float64
}

// Apply returns a with every non-nil override substituted.
func (o Overrides) Apply(a valuation.Assumptions) valuation.Assumptions {
	if o.WACC != nil {
		a.WACC = *o.WACC
	}
	if o.ShortTermGrowth != nil {
		a.ShortTermGrowth = *o.ShortTermGrowth
	}
	if o.LongTermGrowth != nil {
		a.LongTermGrowth = *o.LongTermGrowth
	}
	return a
}

// Complete reports whether o alone supplies every rate.
func (o Overrides) Complete() bool {
	return o.WACC != nil && o.ShortTermGrowth != nil && o.LongTermGrowth != nil
}
