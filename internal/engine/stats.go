package engine

import "sort"

// TagCount is one entry of the tag frequency histogram.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats aggregates counts over the case table and backend.
type Stats struct {
	TotalCases     int            `json:"totalCases"`
	CasesWithVault int            `json:"casesWithVault"`
	TagCounts      map[string]int `json:"tagCounts"`
	TopTags        []TagCount     `json:"topTags"`
	PriorityCounts map[string]int `json:"priorityCounts"`
	StorageBytes   int64          `json:"storageBytes"`
	Profile        string         `json:"profile"`
}

const topTagLimit = 10

// Stats computes aggregate statistics over the cached case table.
func (e *Engine) Stats() *Stats {
	e.load()

	tagCounts := make(map[string]int)
	priorityCounts := make(map[string]int)
	for _, c := range e.cases {
		for _, tag := range c.Tags {
			tagCounts[tag]++
		}
		if c.Priority != "" {
			priorityCounts[c.Priority]++
		}
	}

	top := make([]TagCount, 0, len(tagCounts))
	for name, count := range tagCounts {
		top = append(top, TagCount{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topTagLimit {
		top = top[:topTagLimit]
	}

	e.recordAudit("stats", "", "ok")
	return &Stats{
		TotalCases:     len(e.cases),
		CasesWithVault: len(e.vault),
		TagCounts:      tagCounts,
		TopTags:        top,
		PriorityCounts: priorityCounts,
		StorageBytes:   e.store.Size(),
		Profile:        e.profile.Name,
	}
}
