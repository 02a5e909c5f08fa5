package generator

import (
	"ai-api-tester/internal/types"
)

// EndpointGroups partitions scenarios by their endpoint key while keeping
// key order by first occurrence and scenario order within each group.
type EndpointGroups struct {
	keys   []string
	groups map[string][]types.TestScenario
}

// GroupByEndpoint builds the stable partition of the scenario list. No
// deduplication: identical scenarios stay distinct.
func GroupByEndpoint(scenarios []types.TestScenario) *EndpointGroups {
	g := &EndpointGroups{groups: make(map[string][]types.TestScenario)}
	for _, scenario := range scenarios {
		if _, seen := g.groups[scenario.Endpoint]; !seen {
			g.keys = append(g.keys, scenario.Endpoint)
		}
		g.groups[scenario.Endpoint] = append(g.groups[scenario.Endpoint], scenario)
	}
	return g
}

// Keys returns the endpoint keys in first-seen order
func (g *EndpointGroups) Keys() []string {
	return g.keys
}

// Get returns the scenarios for one endpoint key in input order
func (g *EndpointGroups) Get(key string) []types.TestScenario {
	return g.groups[key]
}

// Len returns the number of distinct endpoint keys
func (g *EndpointGroups) Len() int {
	return len(g.keys)
}
