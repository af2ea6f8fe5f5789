package legislation

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Active       int               `yaml:"active"`
	Legislations []fileLegislation `yaml:"legislations"`
}

type fileLegislation struct {
	Year          int                      `yaml:"year"`
	Name          string                   `yaml:"name"`
	Allowances    map[string]string        `yaml:"allowances"`
	Brackets      map[string][]fileBracket `yaml:"brackets"`
	UsufructScale []fileBand               `yaml:"usufructScale"`
}

type fileBracket struct {
	Min  string  `yaml:"min"`
	Max  *string `yaml:"max,omitempty"`
	Rate string  `yaml:"rate"`
}

type fileBand struct {
	MaxAge int    `yaml:"maxAge"`
	Rate   string `yaml:"rate"`
}

// LoadFile reads a YAML legislation file into a static provider.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading legislation file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes YAML legislation tables. Every snapshot must validate.
func ParseYAML(data []byte) (*Static, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding legislation YAML: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(doc.Legislations))
	for _, fl := range doc.Legislations {
		snap, err := fl.snapshot()
		if err != nil {
			return nil, fmt.Errorf("legislation %d: %w", fl.Year, err)
		}
		if err := snap.Validate(); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return NewStatic(doc.Active, snapshots...), nil
}

func (fl fileLegislation) snapshot() (Snapshot, error) {
	snap := Snapshot{
		Year:       fl.Year,
		Name:       fl.Name,
		Allowances: make(map[Category]decimal.Decimal, len(fl.Allowances)),
		Brackets:   make(map[Category][]Bracket, len(fl.Brackets)),
	}
	for c, amount := range fl.Allowances {
		v, err := decimal.NewFromString(amount)
		if err != nil {
			return Snapshot{}, fmt.Errorf("allowance %s: %w", c, err)
		}
		snap.Allowances[Category(c)] = v
	}
	for c, brackets := range fl.Brackets {
		for i, fb := range brackets {
			b, err := parseBracket(fb.Min, fb.Max, fb.Rate)
			if err != nil {
				return Snapshot{}, fmt.Errorf("bracket %s/%d: %w", c, i, err)
			}
			snap.Brackets[Category(c)] = append(snap.Brackets[Category(c)], b)
		}
	}
	for _, fb := range fl.UsufructScale {
		r, err := decimal.NewFromString(fb.Rate)
		if err != nil {
			return Snapshot{}, fmt.Errorf("usufruct band %d: %w", fb.MaxAge, err)
		}
		snap.UsufructScale = append(snap.UsufructScale, UsufructBand{MaxAge: fb.MaxAge, Rate: r})
	}
	return snap, nil
}

// WriteYAML encodes snapshots in the format read by ParseYAML.
func WriteYAML(w io.Writer, active int, snapshots ...Snapshot) error {
	doc := fileDocument{Active: active}
	sorted := append([]Snapshot(nil), snapshots...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	for _, s := range sorted {
		fl := fileLegislation{
			Year: s.Year,
			Name: s.Name,
			Allowances: lo.MapEntries(s.Allowances, func(c Category, v decimal.Decimal) (string, string) {
				return string(c), v.String()
			}),
			Brackets: make(map[string][]fileBracket, len(s.Brackets)),
		}
		for c, brackets := range s.Brackets {
			fl.Brackets[string(c)] = lo.Map(brackets, func(b Bracket, _ int) fileBracket {
				fb := fileBracket{Min: b.Min.String(), Rate: b.Rate.String()}
				if b.Max != nil {
					fb.Max = lo.ToPtr(b.Max.String())
				}
				return fb
			})
		}
		fl.UsufructScale = lo.Map(s.UsufructScale, func(b UsufructBand, _ int) fileBand {
			return fileBand{MaxAge: b.MaxAge, Rate: b.Rate.String()}
		})
		doc.Legislations = append(doc.Legislations, fl)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding legislation YAML: %w", err)
	}
	return enc.Close()
}
