// Package verses ships the memory verse catalog inside the binary. Grants
// reference catalog ids, so the catalog is append-only.
package verses

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var rawCatalog []byte

type Verse struct {
	ID        string `toml:"id"`
	Reference string `toml:"reference"`
	Text      string `toml:"text"`
}

type catalogFile struct {
	Verses []Verse `toml:"verses"`
}

type Catalog struct {
	verses []Verse
	byID   map[string]Verse
}

// NewCatalog parses the embedded catalog. Duplicate ids are a packaging
// mistake and fail loading outright.
func NewCatalog() (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(rawCatalog, &file); err != nil {
		return nil, err
	}

	byID := make(map[string]Verse, len(file.Verses))
	for _, v := range file.Verses {
		if v.ID == "" || v.Reference == "" || v.Text == "" {
			return nil, fmt.Errorf("incomplete verse entry %q", v.ID)
		}

		if _, ok := byID[v.ID]; ok {
			return nil, fmt.Errorf("duplicated verse id %s", v.ID)
		}

		byID[v.ID] = v
	}

	return &Catalog{verses: file.Verses, byID: byID}, nil
}

func (c *Catalog) Len() int {
	return len(c.verses)
}

func (c *Catalog) Get(id string) (Verse, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// NotOwned returns the catalog verses whose ids are absent from owned, in
// catalog order.
func (c *Catalog) NotOwned(owned []string) []Verse {
	ownedSet := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	var result []Verse
	for _, v := range c.verses {
		if _, ok := ownedSet[v.ID]; !ok {
			result = append(result, v)
		}
	}

	return result
}
