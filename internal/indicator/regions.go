package indicator

import "sort"

// Regions maps a country to its region or group label.
type Regions map[string]string

// Groups returns the distinct non-empty labels, sorted.
func (r Regions) Groups() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, g := range r {
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Unassigned returns the keys that have no region label, in keys order.
func (r Regions) Unassigned(keys []string) []string {
	var out []string
	for _, k := range keys {
		if r[k] == "" {
			out = append(out, k)
		}
	}
	return out
}
