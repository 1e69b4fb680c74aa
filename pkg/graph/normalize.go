package graph

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes table names. It memoizes results and is scoped to
// a single engine run; it is not safe for concurrent use.
type Normalizer struct {
	memo map[string]string
}

// NewNormalizer returns an empty Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{memo: make(map[string]string)}
}

// Normalize percent-decodes name, trims surrounding whitespace and quote
// characters, and converts the result to Unicode NFC.
func (n *Normalizer) Normalize(name string) string {
	if v, ok := n.memo[name]; ok {
		return v
	}
	v := normalize(name)
	n.memo[name] = v
	return v
}

func normalize(name string) string {
	s := name
	if strings.Contains(s, "%") {
		if dec, err := url.PathUnescape(s); err == nil {
			s = dec
		}
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `'"`)
	s = strings.TrimSpace(s)
	return norm.NFC.String(s)
}
