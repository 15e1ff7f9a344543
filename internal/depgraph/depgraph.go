package depgraph

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/snipdex/snipdex/internal/resolve"
)

// Stats summarizes the repository's import graph.
type Stats struct {
	Files int     `json:"files"`
	Edges int     `json:"edges"`
	TopIn []FanIn `json:"top_imported,omitempty"`
}

// FanIn is one file together with the number of files importing it.
type FanIn struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Build constructs a directed graph over file paths from the resolver's
// edges. Duplicate edges between the same pair of files collapse to one.
func Build(edges []resolve.Edge) (graph.Graph[string, string], Stats) {
	g := graph.New(graph.StringHash, graph.Directed())

	fanIn := make(map[string]int)
	seen := make(map[resolve.Edge]struct{})
	for _, e := range edges {
		_ = g.AddVertex(e.From)
		_ = g.AddVertex(e.To)
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		_ = g.AddEdge(e.From, e.To)
		fanIn[e.To]++
	}

	stats := Stats{TopIn: topFanIn(fanIn, 5)}
	if order, err := g.Order(); err == nil {
		stats.Files = order
	}
	if size, err := g.Size(); err == nil {
		stats.Edges = size
	}
	return g, stats
}

// topFanIn ranks the most imported files, highest count first, path as a
// stable tiebreak.
func topFanIn(fanIn map[string]int, limit int) []FanIn {
	ranked := make([]FanIn, 0, len(fanIn))
	for path, count := range fanIn {
		ranked = append(ranked, FanIn{Path: path, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Path < ranked[j].Path
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
