package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var builtinCatalog []byte

// Catalog is the source material the in-process provider draws from.
type Catalog struct {
	Arithmetic ArithmeticRules `toml:"arithmetic"`
	Stroop     StroopRules     `toml:"stroop"`
	Memory     MemoryRules     `toml:"memory"`
	Reading    ReadingRules    `toml:"reading"`
}

// ArithmeticRules bounds the generated problem pool: sums and differences
// of 1..MaxAddend (differences never negative) and products of
// MinFactor..MaxFactor.
type ArithmeticRules struct {
	Count            int `toml:"count"`
	TimeLimitSeconds int `toml:"time_limit_seconds"`
	MaxAddend        int `toml:"max_addend"`
	MinFactor        int `toml:"min_factor"`
	MaxFactor        int `toml:"max_factor"`
}

// StroopRules lists the palette items are built from.
type StroopRules struct {
	Count            int          `toml:"count"`
	TimeLimitSeconds int          `toml:"time_limit_seconds"`
	Colors           []NamedColor `toml:"colors"`
}

// NamedColor pairs a color name with its hex code.
type NamedColor struct {
	Name string `toml:"name"`
	Hex  string `toml:"hex"`
}

// MemoryRules describes how word sets are drawn: ListsPerSet random lists
// are merged, shuffled and cut to Count words.
type MemoryRules struct {
	Count               int        `toml:"count"`
	ListsPerSet         int        `toml:"lists_per_set"`
	MemorizeTimeSeconds int        `toml:"memorize_time_seconds"`
	RecallTimeSeconds   int        `toml:"recall_time_seconds"`
	Lists               []WordList `toml:"lists"`
}

// WordList is a themed group of words.
type WordList struct {
	Category string   `toml:"category"`
	Words    []string `toml:"words"`
}

// ReadingRules holds the passages.
type ReadingRules struct {
	Texts []Passage `toml:"texts"`
}

// Passage is one reading text.
type Passage struct {
	Title   string `toml:"title"`
	Content string `toml:"content"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	var c Catalog
	if _, err := toml.NewDecoder(bytes.NewReader(builtinCatalog)).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode built-in catalog: %w", err)
	}
	return &c, nil
}

// LoadCatalog returns the built-in catalog with every section defined in the
// file at path replacing the built-in one. A missing file is not an error.
func LoadCatalog(path string) (*Catalog, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("stat catalog: %w", err)
	}

	var user Catalog
	md, err := toml.DecodeFile(path, &user)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("catalog %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if md.IsDefined("arithmetic") {
		c.Arithmetic = user.Arithmetic
	}
	if md.IsDefined("stroop") {
		c.Stroop = user.Stroop
	}
	if md.IsDefined("memory") {
		c.Memory = user.Memory
	}
	if md.IsDefined("reading") {
		c.Reading = user.Reading
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate reports the first section that cannot produce content.
func (c *Catalog) Validate() error {
	a := c.Arithmetic
	switch {
	case a.Count <= 0:
		return errors.New("arithmetic.count must be positive")
	case a.MaxAddend <= 0:
		return errors.New("arithmetic.max_addend must be positive")
	case a.MinFactor > a.MaxFactor:
		return errors.New("arithmetic.min_factor exceeds max_factor")
	}

	if c.Stroop.Count <= 0 {
		return errors.New("stroop.count must be positive")
	}
	if len(c.Stroop.Colors) < 2 {
		return errors.New("stroop.colors needs at least two colors")
	}
	seen := map[string]bool{}
	for _, col := range c.Stroop.Colors {
		name := strings.ToLower(strings.TrimSpace(col.Name))
		if name == "" || col.Hex == "" {
			return errors.New("stroop.colors entries need a name and a hex code")
		}
		if seen[name] {
			return fmt.Errorf("stroop.colors: duplicate color %q", col.Name)
		}
		seen[name] = true
	}

	if c.Memory.Count <= 0 {
		return errors.New("memory.count must be positive")
	}
	if len(c.Memory.Lists) == 0 {
		return errors.New("memory.lists is empty")
	}
	if len(c.Reading.Texts) == 0 {
		return errors.New("reading.texts is empty")
	}
	return nil
}
