package loader

import (
	"fmt"
	"strings"

	"github.com/Veraticus/bankdash/internal/common"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Data island ids embedded in page fragments.
const (
	IslandTransactions = "transactions-data"
	IslandContracts    = "contracts-data"
	IslandGraph        = "graph-data"
	IslandResponse     = "response-data"
)

// Islands maps a script element id to its JSON content.
type Islands map[string][]byte

// Get returns the island with id.
func (is Islands) Get(id string) ([]byte, error) {
	raw, ok := is[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingDataIsland, id)
	}
	return raw, nil
}

// Has reports whether the fragment carried the island.
func (is Islands) Has(id string) bool {
	_, ok := is[id]
	return ok
}

// ExtractIslands collects the content of every <script> element that has an
// id. Script content is raw text, so the JSON is returned unescaped.
func ExtractIslands(fragment string) Islands {
	islands := make(Islands)
	z := html.NewTokenizer(strings.NewReader(fragment))

	var current string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return islands
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			current = ""
			if atom.Lookup(name) != atom.Script || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "id" {
					current = string(val)
				}
				if !more {
					break
				}
			}
			if current != "" {
				islands[current] = []byte{}
			}
		case html.TextToken:
			if current != "" {
				islands[current] = append(islands[current], z.Text()...)
			}
		case html.EndTagToken:
			if current != "" {
				islands[current] = []byte(strings.TrimSpace(string(islands[current])))
			}
			current = ""
		}
	}
}
