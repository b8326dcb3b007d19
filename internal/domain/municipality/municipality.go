// Package municipality groups Algerian communes by wilaya.
package municipality

import (
	"sort"
	"strings"
)

// Record is one row of the municipalities data file.
type Record struct {
	ID          int    `json:"id"`
	CommuneName string `json:"commune_name"`
	DairaName   string `json:"daira_name"`
	WilayaCode  string `json:"wilaya_code"`
	WilayaName  string `json:"wilaya_name"`
}

// GroupByWilaya maps each trimmed wilaya name to its communes, deduplicated and
// sorted.
func GroupByWilaya(records []Record) map[string][]string {
	groups := make(map[string][]string)
	seen := make(map[string]map[string]struct{})

	for _, r := range records {
		wilaya := strings.TrimSpace(r.WilayaName)
		commune := strings.TrimSpace(r.CommuneName)
		if wilaya == "" || commune == "" {
			continue
		}
		if seen[wilaya] == nil {
			seen[wilaya] = make(map[string]struct{})
		}
		if _, dup := seen[wilaya][commune]; dup {
			continue
		}
		seen[wilaya][commune] = struct{}{}
		groups[wilaya] = append(groups[wilaya], commune)
	}

	for _, communes := range groups {
		sort.Strings(communes)
	}
	return groups
}
