package model

import "sort"

// Org is a tenant of the console. Activation keys, config files and users all belong to one.
type Org struct {
	ID   int64
	Name string
	// ValidAddOnEntitlements are the add-on entitlements the org may grant through keys.
	ValidAddOnEntitlements []Entitlement
}

// Entitlement is a server group type that can be granted to registered systems.
type Entitlement struct {
	Label              string
	HumanReadableLabel string
	AddOn              bool
}

// HasValidAddOn reports whether label is one of the org's valid add-on entitlements.
func (o *Org) HasValidAddOn(label string) bool {
	for _, e := range o.ValidAddOnEntitlements {
		if e.Label == label {
			return true
		}
	}
	return false
}

// EntitlementsToRemove returns the labels of every valid add-on entitlement that is not
// in selected, in the org's entitlement order.
func (o *Org) EntitlementsToRemove(selected []string) []string {
	keep := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		keep[s] = struct{}{}
	}
	var out []string
	for _, e := range o.ValidAddOnEntitlements {
		if _, ok := keep[e.Label]; !ok {
			out = append(out, e.Label)
		}
	}
	return out
}

// SortEntitlementsByName orders entitlements by display name, then label.
func SortEntitlementsByName(ents []Entitlement) {
	sort.SliceStable(ents, func(i, j int) bool {
		if ents[i].HumanReadableLabel != ents[j].HumanReadableLabel {
			return ents[i].HumanReadableLabel < ents[j].HumanReadableLabel
		}
		return ents[i].Label < ents[j].Label
	})
}
