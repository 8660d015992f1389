package rates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTable is returned when rate data fails structural validation.
var ErrInvalidTable = errors.New("invalid rate table")

//go:embed data/rates.yaml
var defaultRatesYAML []byte

var loadDefault = sync.OnceValues(func() (*Tables, error) {
	return Load(bytes.NewReader(defaultRatesYAML))
})

// Default returns the rate tables compiled into the binary. The tables are
// parsed once and shared.
func Default() (*Tables, error) {
	return loadDefault()
}

// MustDefault is Default for callers that cannot continue without tables.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded rate tables: %v", err))
	}
	return t
}

// LoadFile reads rate tables from a YAML file.
func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate file %s: %w", path, err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load parses rate tables from YAML, fills in derived bracket bounds and
// validates the result.
func Load(r io.Reader) (*Tables, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Tables
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse rate tables: %w", err)
	}
	if err := t.finalize(); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteYAML serializes the tables in the format Load accepts.
func (t *Tables) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode rate tables: %w", err)
	}
	return enc.Close()
}

// finalize normalizes keys, sorts and completes bracket lists, then
// validates everything. It is the only place a Tables value is modified.
func (t *Tables) finalize() error {
	if t.Federal == nil {
		t.Federal = map[domain.FilingStatus][]domain.TaxBracket{}
	}
	for status, brackets := range t.Federal {
		if !status.Valid() {
			return fmt.Errorf("%w: federal: unknown filing status %q", ErrInvalidTable, status)
		}
		t.Federal[status] = completeBrackets(status, brackets)
		if err := validateBrackets(t.Federal[status]); err != nil {
			return fmt.Errorf("%w: federal %s: %v", ErrInvalidTable, status, err)
		}
	}

	states := make(map[string]*StateTable, len(t.States))
	for code, st := range t.States {
		normalized := NormalizeStateCode(code)
		if len(normalized) != 2 {
			return fmt.Errorf("%w: state code %q must be two letters", ErrInvalidTable, code)
		}
		if st == nil {
			st = &StateTable{}
		}
		if _, dup := states[normalized]; dup {
			return fmt.Errorf("%w: duplicate state %s", ErrInvalidTable, normalized)
		}
		if err := st.finalize(); err != nil {
			return fmt.Errorf("%w: state %s: %v", ErrInvalidTable, normalized, err)
		}
		states[normalized] = st
	}
	t.States = states

	if err := t.Savers.validate(); err != nil {
		return fmt.Errorf("%w: savers credit: %v", ErrInvalidTable, err)
	}
	if err := t.finalizeLimits(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return nil
}

// finalizeLimits sorts the contribution limit and poverty guideline
// schedules by year and normalizes guideline state codes.
func (t *Tables) finalizeLimits() error {
	sort.SliceStable(t.ContributionLimits, func(i, j int) bool {
		return t.ContributionLimits[i].Year < t.ContributionLimits[j].Year
	})
	for i, l := range t.ContributionLimits {
		if l.Year <= 0 {
			return fmt.Errorf("annual contribution limit %d: missing year", i)
		}
		if !l.Limit.IsPositive() {
			return fmt.Errorf("annual contribution limit %d: limit must be positive", l.Year)
		}
		if i > 0 && t.ContributionLimits[i-1].Year == l.Year {
			return fmt.Errorf("annual contribution limit %d: duplicate year", l.Year)
		}
	}

	sort.SliceStable(t.FPLSchedules, func(i, j int) bool { return t.FPLSchedules[i].Year < t.FPLSchedules[j].Year })
	for i := range t.FPLSchedules {
		s := &t.FPLSchedules[i]
		if s.Year <= 0 {
			return fmt.Errorf("fpl %d: missing year", i)
		}
		if i > 0 && t.FPLSchedules[i-1].Year == s.Year {
			return fmt.Errorf("fpl %d: duplicate year", s.Year)
		}
		if s.Amount.IsNegative() {
			return fmt.Errorf("fpl %d: negative amount", s.Year)
		}
		states := make(map[string]decimal.Decimal, len(s.States))
		for code, v := range s.States {
			normalized := NormalizeStateCode(code)
			if len(normalized) != 2 {
				return fmt.Errorf("fpl %d: state code %q must be two letters", s.Year, code)
			}
			if !v.IsPositive() {
				return fmt.Errorf("fpl %d %s: amount must be positive", s.Year, normalized)
			}
			states[normalized] = v
		}
		if len(states) == 0 && !s.Amount.IsPositive() {
			return fmt.Errorf("fpl %d: no amounts", s.Year)
		}
		if len(states) == 0 {
			states = nil
		}
		s.States = states
	}
	return nil
}

func (st *StateTable) finalize() error {
	if st.Plan.Name == "" {
		st.Plan.Name = st.Name
	}
	for status, brackets := range st.Brackets {
		if !status.Valid() {
			return fmt.Errorf("unknown filing status %q", status)
		}
		st.Brackets[status] = completeBrackets(status, brackets)
		if err := validateBrackets(st.Brackets[status]); err != nil {
			return fmt.Errorf("%s: %v", status, err)
		}
	}
	for status, b := range st.Benefits {
		if !status.Valid() {
			return fmt.Errorf("benefit: unknown filing status %q", status)
		}
		switch b.Type {
		case domain.BenefitNone, domain.BenefitDeduction, domain.BenefitCredit:
		case "":
			b.Type = domain.BenefitNone
		default:
			return fmt.Errorf("benefit %s: unknown type %q", status, b.Type)
		}
		if b.Amount.IsNegative() || b.CreditPercent.IsNegative() {
			return fmt.Errorf("benefit %s: negative amount", status)
		}
		st.Benefits[status] = b
	}
	if st.Plan.MaxAccountBalance != nil && !st.Plan.MaxAccountBalance.IsPositive() {
		return fmt.Errorf("plan maximum balance must be positive")
	}
	return nil
}

// completeBrackets sorts by Min, tags each bracket with its status and
// closes any bracket without an explicit Max at one dollar below the next
// bracket's Min.
func completeBrackets(status domain.FilingStatus, brackets []domain.TaxBracket) []domain.TaxBracket {
	out := make([]domain.TaxBracket, len(brackets))
	copy(out, brackets)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Min.LessThan(out[j].Min) })
	for i := range out {
		out[i].FilingStatus = status
		if out[i].Max == nil && i+1 < len(out) && out[i+1].Min.GreaterThan(out[i].Min) {
			upper := out[i+1].Min.Sub(decimal.NewFromInt(1))
			out[i].Max = &upper
		}
	}
	return out
}

func validateBrackets(brackets []domain.TaxBracket) error {
	if len(brackets) == 0 {
		return errors.New("no brackets")
	}
	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		if b.Min.IsNegative() {
			return fmt.Errorf("bracket %d: negative minimum", i)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("bracket %d: rate %s outside [0, 1]", i, b.Rate)
		}
		last := i == len(brackets)-1
		if b.Max == nil {
			if !last {
				return fmt.Errorf("bracket %d: only the top bracket may be open-ended", i)
			}
			continue
		}
		if b.Max.LessThan(b.Min) {
			return fmt.Errorf("bracket %d: max %s below min %s", i, b.Max, b.Min)
		}
		if last {
			return fmt.Errorf("top bracket must be open-ended")
		}
		if !brackets[i+1].Min.GreaterThan(*b.Max) {
			return fmt.Errorf("brackets %d and %d overlap", i, i+1)
		}
	}
	return nil
}

func (s SaversTable) validate() error {
	for status, limit := range s.ContributionLimits {
		if !status.Valid() {
			return fmt.Errorf("contribution limit: unknown filing status %q", status)
		}
		if limit.IsNegative() {
			return fmt.Errorf("contribution limit %s is negative", status)
		}
	}
	for i, tier := range s.Tiers {
		if tier.CreditRate.IsNegative() || tier.CreditRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("tier %d: credit rate %s outside [0, 1]", i, tier.CreditRate)
		}
		for status, b := range tier.Brackets {
			if !status.Valid() {
				return fmt.Errorf("tier %d: unknown filing status %q", i, status)
			}
			if err := b.Validate(); err != nil {
				return fmt.Errorf("tier %d %s: %v", i, status, err)
			}
		}
	}
	return nil
}
