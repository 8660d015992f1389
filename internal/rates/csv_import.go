package rates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ablecalc/able-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Source spreadsheet exports understood by the importer.
const (
	PlanInfoFile        = "plan_level_info.csv"
	StateTaxFile        = "state_tax_table.csv"
	StateDeductionsFile = "state_tax_deductions.csv"
	SaversIncomeFile    = "federal_savers_income_table.csv"
	SaversLimitsFile    = "federal_savers_contribution_limits.csv"
	FederalTaxFile      = "federal_tax_table.csv"
	AnnualLimitsFile    = "annual_contribution_limits.csv"
	FPLFile             = "fpl.csv"
)

// CSVImporter builds rate tables from the tabular exports published with
// each tax year.
type CSVImporter struct {
	DataPath string
	TaxYear  int
}

// NewCSVImporter creates an importer reading from dataPath.
func NewCSVImporter(dataPath string, taxYear int) *CSVImporter {
	return &CSVImporter{DataPath: dataPath, TaxYear: taxYear}
}

// Import reads every source file and returns validated tables. The Saver's
// Credit contribution limits, annual ABLE limits and poverty guideline files
// are optional; each one that is absent is taken from the embedded tables.
func (ci *CSVImporter) Import() (*Tables, error) {
	t := &Tables{
		TaxYear: ci.TaxYear,
		Federal: map[domain.FilingStatus][]domain.TaxBracket{},
		States:  map[string]*StateTable{},
	}

	steps := []struct {
		file     string
		optional bool
		load     func(*Tables, []map[string]string) error
	}{
		{PlanInfoFile, false, loadPlanInfo},
		{StateTaxFile, false, loadStateBrackets},
		{StateDeductionsFile, false, loadStateBenefits},
		{SaversIncomeFile, false, loadSaversTiers},
		{SaversLimitsFile, true, loadSaversLimits},
		{FederalTaxFile, false, loadFederalBrackets},
		{AnnualLimitsFile, true, loadAnnualLimits},
		{FPLFile, true, loadFPL},
	}
	for _, step := range steps {
		rows, err := ci.readCSV(step.file)
		if errors.Is(err, fs.ErrNotExist) && step.optional {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := step.load(t, rows); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", step.file, err)
		}
	}

	if err := fillFromDefault(t); err != nil {
		return nil, err
	}

	if err := t.finalize(); err != nil {
		return nil, err
	}
	return t, nil
}

// fillFromDefault copies every optional table the import left empty from
// the embedded tables.
func fillFromDefault(t *Tables) error {
	if t.Savers.ContributionLimits != nil && t.ContributionLimits != nil && t.FPLSchedules != nil {
		return nil
	}
	def, err := Default()
	if err != nil {
		return err
	}
	if t.Savers.ContributionLimits == nil {
		t.Savers.ContributionLimits = make(map[domain.FilingStatus]decimal.Decimal, len(def.Savers.ContributionLimits))
		for k, v := range def.Savers.ContributionLimits {
			t.Savers.ContributionLimits[k] = v
		}
	}
	if t.ContributionLimits == nil {
		t.ContributionLimits = append([]domain.AnnualContributionLimit(nil), def.ContributionLimits...)
	}
	if t.FPLSchedules == nil {
		t.FPLSchedules = make([]domain.FPLSchedule, len(def.FPLSchedules))
		for i, s := range def.FPLSchedules {
			t.FPLSchedules[i] = domain.FPLSchedule{Year: s.Year, Amount: s.Amount}
			if s.States != nil {
				t.FPLSchedules[i].States = make(map[string]decimal.Decimal, len(s.States))
				for code, v := range s.States {
					t.FPLSchedules[i].States[code] = v
				}
			}
		}
	}
	return nil
}

// readCSV returns the rows of a file keyed by trimmed header name.
func (ci *CSVImporter) readCSV(filename string) ([]map[string]string, error) {
	filePath := filepath.Join(ci.DataPath, filename)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", filePath, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("missing header in %s", filePath)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (t *Tables) stateEntry(code, name string) *StateTable {
	st, ok := t.States[code]
	if !ok {
		st = &StateTable{}
		t.States[code] = st
	}
	if st.Name == "" && name != "" {
		st.Name = name
	}
	return st
}

func loadPlanInfo(t *Tables, rows []map[string]string) error {
	for _, row := range rows {
		code := NormalizeStateCode(row["State Abbrev"])
		if code == "" {
			continue
		}
		st := t.stateEntry(code, row["State Name"])
		st.Plan = domain.PlanInfo{
			Name:              row["State Name"],
			HasPlan:           parseYes(row["State has Plan"]),
			ResidencyRequired: parseYes(row["Residency"]),
			Parity:            parseYes(row["Parity"]),
		}
		if v, ok := parseMoney(row["Maximum Account Balance"]); ok && v.IsPositive() {
			st.Plan.MaxAccountBalance = &v
		}
	}
	return nil
}

var stateTaxStatus = map[string]domain.FilingStatus{
	"Single":   domain.FilingSingle,
	"Joint":    domain.FilingMarriedJoint,
	"Separate": domain.FilingMarriedSeparate,
	"Head":     domain.FilingHeadOfHousehold,
}

func loadStateBrackets(t *Tables, rows []map[string]string) error {
	for _, row := range rows {
		code := NormalizeStateCode(row["StateCode"])
		status, ok := stateTaxStatus[row["TaxFilingStatus"]]
		if code == "" || !ok {
			continue
		}
		lo, ok := parseDashZero(row["Income"], parseMoney)
		if !ok {
			continue
		}
		rate, ok := parseDashZero(row["Rate"], parsePercent)
		if !ok {
			continue
		}
		st := t.stateEntry(code, "")
		if st.Brackets == nil {
			st.Brackets = map[domain.FilingStatus][]domain.TaxBracket{}
		}
		st.Brackets[status] = append(st.Brackets[status], domain.TaxBracket{Min: lo, Rate: rate})
	}
	return nil
}

func loadStateBenefits(t *Tables, rows []map[string]string) error {
	for _, row := range rows {
		code := NormalizeStateCode(row["State Abbrev"])
		if code == "" {
			continue
		}
		status, err := domain.ParseFilingStatus(row["Filing Status"])
		if err != nil {
			continue
		}
		amount, _ := parseMoney(row["Max Deduction/Credit"])
		percent, _ := parsePercent(row["Credit Percent"])

		st := t.stateEntry(code, row["State Name"])
		if st.Benefits == nil {
			st.Benefits = map[domain.FilingStatus]domain.StateBenefit{}
		}
		st.Benefits[status] = domain.StateBenefit{
			Type:          domain.ParseBenefitType(row["Benefit Type"]),
			Amount:        amount,
			CreditPercent: percent,
		}
	}
	return nil
}

var saversColumns = []struct {
	header string
	status domain.FilingStatus
}{
	{"Single", domain.FilingSingle},
	{"Married Filing Separately", domain.FilingMarriedSeparate},
	{"Married Filing Jointly", domain.FilingMarriedJoint},
	{"Head of Household", domain.FilingHeadOfHousehold},
}

func loadSaversTiers(t *Tables, rows []map[string]string) error {
	for _, row := range rows {
		rate, ok := parsePercent(row["Credit Rate"])
		if !ok {
			continue
		}
		tier := domain.SaversTier{CreditRate: rate, Brackets: map[domain.FilingStatus]domain.SaversBracket{}}
		for _, col := range saversColumns {
			if b, ok := parseSaversBracket(row[col.header]); ok {
				tier.Brackets[col.status] = b
			}
		}
		t.Savers.Tiers = append(t.Savers.Tiers, tier)
	}
	return nil
}

func loadSaversLimits(t *Tables, rows []map[string]string) error {
	limits := map[domain.FilingStatus]decimal.Decimal{}
	for _, row := range rows {
		status, err := domain.ParseFilingStatus(row["Filing Status"])
		if err != nil {
			return err
		}
		v, ok := parseMoney(row["Contribution Limit"])
		if !ok {
			return fmt.Errorf("bad contribution limit for %s: %q", status, row["Contribution Limit"])
		}
		limits[status] = v
	}
	t.Savers.ContributionLimits = limits
	return nil
}

var federalColumns = []struct {
	header string
	status domain.FilingStatus
}{
	{"Single", domain.FilingSingle},
	{"Married Filing Jointly", domain.FilingMarriedJoint},
	{"Married Filing Separately", domain.FilingMarriedSeparate},
	{"Head of Household", domain.FilingHeadOfHousehold},
}

func loadFederalBrackets(t *Tables, rows []map[string]string) error {
	for _, row := range rows {
		rate, ok := parsePercent(row["Tax Rate"])
		if !ok {
			continue
		}
		for _, col := range federalColumns {
			lo, hi, ok := parseRange(row[col.header])
			if !ok {
				continue
			}
			t.Federal[col.status] = append(t.Federal[col.status], domain.TaxBracket{
				FilingStatus: col.status,
				Rate:         rate,
				Min:          lo,
				Max:          hi,
			})
		}
	}
	return nil
}

func loadAnnualLimits(t *Tables, rows []map[string]string) error {
	limits := make([]domain.AnnualContributionLimit, 0, len(rows))
	for _, row := range rows {
		year, err := strconv.Atoi(row["Year"])
		if err != nil {
			return fmt.Errorf("bad year %q", row["Year"])
		}
		v, ok := parseMoney(row["Limit"])
		if !ok {
			return fmt.Errorf("bad limit for %d: %q", year, row["Limit"])
		}
		limits = append(limits, domain.AnnualContributionLimit{Year: year, Limit: v})
	}
	t.ContributionLimits = limits
	return nil
}

// loadFPL reads one row per state and year. A row whose state is blank or
// "US" sets the amount for every state without its own row.
func loadFPL(t *Tables, rows []map[string]string) error {
	byYear := map[int]*domain.FPLSchedule{}
	var years []int
	for _, row := range rows {
		year, err := strconv.Atoi(row["Year"])
		if err != nil {
			return fmt.Errorf("bad year %q", row["Year"])
		}
		v, ok := parseMoney(row["Amount"])
		if !ok {
			return fmt.Errorf("bad amount for %d: %q", year, row["Amount"])
		}
		s, ok := byYear[year]
		if !ok {
			s = &domain.FPLSchedule{Year: year}
			byYear[year] = s
			years = append(years, year)
		}
		code := NormalizeStateCode(row["State Abbrev"])
		if code == "" || code == "US" {
			s.Amount = v
			continue
		}
		if s.States == nil {
			s.States = map[string]decimal.Decimal{}
		}
		s.States[code] = v
	}
	t.FPLSchedules = make([]domain.FPLSchedule, 0, len(years))
	for _, y := range years {
		t.FPLSchedules = append(t.FPLSchedules, *byYear[y])
	}
	return nil
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

func parseYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}

// parseMoney strips currency formatting and truncates to whole dollars.
func parseMoney(s string) (decimal.Decimal, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return v.Truncate(0), true
}

// parsePercent turns "4.95%" into 0.0495.
func parsePercent(s string) (decimal.Decimal, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return v.Div(decimal.NewFromInt(100)), true
}

// parseDashZero treats an empty cell or a lone dash as zero.
func parseDashZero(s string, parse func(string) (decimal.Decimal, bool)) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, true
	}
	return parse(s)
}

// parseRange understands "$0 – $11,925", "$11,926-$48,475", "Over $626,350"
// and a bare "$626,351". Over X starts at X+1.
func parseRange(s string) (decimal.Decimal, *decimal.Decimal, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, nil, false
	}
	if strings.HasPrefix(strings.ToLower(raw), "over") {
		v, ok := parseMoney(raw)
		if !ok {
			return decimal.Zero, nil, false
		}
		return v.Add(decimal.NewFromInt(1)), nil, true
	}
	sep := "-"
	if strings.Contains(raw, "–") {
		sep = "–"
	}
	if strings.Contains(raw, sep) {
		parts := strings.SplitN(raw, sep, 2)
		lo, ok := parseMoney(parts[0])
		if !ok {
			return decimal.Zero, nil, false
		}
		hi, ok := parseMoney(parts[1])
		if !ok {
			return lo, nil, true
		}
		return lo, &hi, true
	}
	v, ok := parseMoney(raw)
	return v, nil, ok
}

// parseSaversBracket reads a Saver's Credit cell: "≤ $23,750" is an upper
// bound, "> $39,500" a strict lower bound, "$23,751 – $25,750" a range.
func parseSaversBracket(s string) (domain.SaversBracket, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return domain.SaversBracket{}, false
	}
	switch {
	case strings.Contains(raw, "≤"):
		v, ok := parseMoney(raw)
		return domain.SaversBracket{Kind: domain.BracketAtMost, Value: v, Label: raw}, ok
	case strings.Contains(raw, ">"):
		v, ok := parseMoney(raw)
		return domain.SaversBracket{Kind: domain.BracketMoreThan, Value: v, Label: raw}, ok
	}
	lo, hi, ok := parseRange(raw)
	if !ok {
		return domain.SaversBracket{}, false
	}
	if hi == nil {
		return domain.SaversBracket{Kind: domain.BracketMoreThan, Value: lo, Label: raw}, true
	}
	return domain.SaversBracket{Kind: domain.BracketRange, Min: lo, Max: *hi, Label: raw}, true
}
