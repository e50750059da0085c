package problem

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MaxTier is the highest tier of the built-in profile.
const MaxTier = 10

// Range is an inclusive operand range.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Profile maps difficulty tiers to operand ranges.
type Profile struct {
	ranges  map[int]Range
	maxTier int
}

// DefaultProfile returns the built-in ten-tier table.
func DefaultProfile() *Profile {
	p, _ := NewProfile(map[int]Range{
		1:  {Min: 1, Max: 10},
		2:  {Min: 1, Max: 25},
		3:  {Min: 1, Max: 50},
		4:  {Min: 1, Max: 100},
		5:  {Min: 10, Max: 200},
		6:  {Min: 25, Max: 500},
		7:  {Min: 50, Max: 1000},
		8:  {Min: 100, Max: 2000},
		9:  {Min: 200, Max: 5000},
		10: {Min: 500, Max: 10000},
	})
	return p
}

// NewProfile validates ranges and builds a Profile. Tier 1 is required,
// every range needs 1 <= min <= max, and both bounds must be non-decreasing
// as the tier grows.
func NewProfile(ranges map[int]Range) (*Profile, error) {
	if _, ok := ranges[1]; !ok {
		return nil, fmt.Errorf("profile must define tier 1")
	}

	tiers := make([]int, 0, len(ranges))
	for tier := range ranges {
		if tier < 1 {
			return nil, fmt.Errorf("tier %d: tiers start at 1", tier)
		}
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)

	var prev Range
	for i, tier := range tiers {
		r := ranges[tier]
		if r.Min < 1 || r.Max < r.Min {
			return nil, fmt.Errorf("tier %d: invalid range [%d,%d]", tier, r.Min, r.Max)
		}
		if i > 0 && (r.Min < prev.Min || r.Max < prev.Max) {
			return nil, fmt.Errorf("tier %d: range [%d,%d] is below the previous tier [%d,%d]",
				tier, r.Min, r.Max, prev.Min, prev.Max)
		}
		prev = r
	}

	cp := make(map[int]Range, len(ranges))
	for k, v := range ranges {
		cp[k] = v
	}
	return &Profile{ranges: cp, maxTier: tiers[len(tiers)-1]}, nil
}

// MaxTier returns the highest defined tier.
func (p *Profile) MaxTier() int {
	return p.maxTier
}

// Range returns the operand range for tier. Tiers above the highest defined
// tier are clamped; tiers below 1 or missing from the table use tier 1.
func (p *Profile) Range(tier int) Range {
	if tier > p.maxTier {
		tier = p.maxTier
	}
	if r, ok := p.ranges[tier]; ok {
		return r
	}
	return p.ranges[1]
}

type profileFile struct {
	Tiers []struct {
		Tier int `yaml:"tier"`
		Min  int `yaml:"min"`
		Max  int `yaml:"max"`
	} `yaml:"tiers"`
}

// ParseProfile reads a YAML tier table:
//
//	tiers:
//	  - {tier: 1, min: 1, max: 10}
//	  - {tier: 2, min: 1, max: 25}
func ParseProfile(data []byte) (*Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(f.Tiers) == 0 {
		return nil, fmt.Errorf("profile has no tiers")
	}
	ranges := make(map[int]Range, len(f.Tiers))
	for _, t := range f.Tiers {
		if _, dup := ranges[t.Tier]; dup {
			return nil, fmt.Errorf("tier %d defined twice", t.Tier)
		}
		ranges[t.Tier] = Range{Min: t.Min, Max: t.Max}
	}
	return NewProfile(ranges)
}

// LoadProfile reads a YAML tier table from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseProfile(data)
}
