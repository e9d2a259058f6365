package banks

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/bankdash/internal/model"
	"golang.org/x/net/html"
)

var bankURL = regexp.MustCompile(`^/bank/([0-9]+)$`)

// FromFragment collects the banks of the navigation buttons in a rendered
// page: elements with class bank-button whose url attribute is /bank/{id}.
// Fragments that cannot be parsed yield no banks.
func FromFragment(fragment string) []model.Bank {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var out []model.Bank
	seen := make(map[int64]struct{})
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "bank-button") {
			if id, ok := bankID(n); ok {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					out = append(out, model.Bank{ID: id, Name: strings.TrimSpace(textOf(n))})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attrOf(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func bankID(n *html.Node) (int64, bool) {
	for _, key := range []string{"url", "href"} {
		v, ok := attrOf(n, key)
		if !ok {
			continue
		}
		m := bankURL.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		return id, err == nil
	}
	return 0, false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
