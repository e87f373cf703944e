package api

import "maps"

// Metadata contains additional caller-supplied context attached to a step
// descriptor (icons, help text, analytics tags)
type Metadata map[string]any

// Apply will merge the keys/values of the other metadata set into this one
func (m Metadata) Apply(other Metadata) Metadata {
	if m == nil {
		return maps.Clone(other)
	}
	res := maps.Clone(m)
	maps.Copy(res, other)
	return res
}
