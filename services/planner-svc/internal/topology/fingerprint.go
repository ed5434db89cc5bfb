package topology

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const fingerprintLength = 16

// Fingerprint returns a stable short hash of the graph structure.
// Two graphs with the same nodes and edges produce the same value
// regardless of insertion order, which makes it usable as a cache key.
func (g *Graph) Fingerprint() string {
	if g.fingerprint != "" {
		return g.fingerprint
	}

	parts := make([]string, 0, len(g.nodes)+len(g.edges))
	for _, id := range g.sortedIDs {
		n := g.nodes[id]
		parts = append(parts, fmt.Sprintf("n:%s:%d;", id, n.Kind))
	}

	edgeParts := make([]string, 0, len(g.edges))
	for _, e := range g.edges {
		a, b := e.A, e.B
		if b < a {
			a, b = b, a
		}
		edgeParts = append(edgeParts, fmt.Sprintf("e:%s:%s:%.6f:%d:%d;", a, b, e.Length, e.Kind, e.Status))
	}
	sort.Strings(edgeParts)
	parts = append(parts, edgeParts...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "")))
	g.fingerprint = hex.EncodeToString(sum[:])[:fingerprintLength]
	return g.fingerprint
}
