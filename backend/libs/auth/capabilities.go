package auth

import (
	"fmt"
	"strings"
)

// Capability names one area of the counter a staff member may operate.
type Capability string

const (
	CapBilliard  Capability = "billiard"
	CapConsole   Capability = "console"
	CapBar       Capability = "bar"
	CapAnalytics Capability = "analytics"
	CapAgenda    Capability = "agenda"
	CapClients   Capability = "clients"
	CapSettings  Capability = "settings"
	CapUsers     Capability = "users"
)

// RoleAdmin holds every capability regardless of the stored set.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// order fixes the bit position of each capability; append only.
var order = []Capability{
	CapBilliard,
	CapConsole,
	CapBar,
	CapAnalytics,
	CapAgenda,
	CapClients,
	CapSettings,
	CapUsers,
}

// CapabilitySet is an immutable set of capabilities stored as a bit mask.
type CapabilitySet uint32

// AllCapabilities returns the set granted to administrators.
func AllCapabilities() CapabilitySet {
	var s CapabilitySet
	for i := range order {
		s |= 1 << i
	}
	return s
}

func bit(c Capability) (CapabilitySet, bool) {
	for i, known := range order {
		if known == c {
			return 1 << i, true
		}
	}
	return 0, false
}

// NewCapabilitySet builds a set; unknown names are rejected.
func NewCapabilitySet(caps ...Capability) (CapabilitySet, error) {
	var s CapabilitySet
	for _, c := range caps {
		b, ok := bit(c)
		if !ok {
			return 0, fmt.Errorf("auth: unknown capability %q", c)
		}
		s |= b
	}
	return s, nil
}

// ParseCapabilities accepts names as they travel in JSON or token claims.
func ParseCapabilities(names []string) (CapabilitySet, error) {
	caps := make([]Capability, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		caps = append(caps, Capability(n))
	}
	return NewCapabilitySet(caps...)
}

// ForRole resolves the effective set for a role.
func ForRole(role string, granted CapabilitySet) CapabilitySet {
	if role == RoleAdmin {
		return AllCapabilities()
	}
	return granted & AllCapabilities()
}

func (s CapabilitySet) Has(c Capability) bool {
	b, ok := bit(c)
	return ok && s&b != 0
}

func (s CapabilitySet) With(c Capability) CapabilitySet {
	b, _ := bit(c)
	return s | b
}

func (s CapabilitySet) Without(c Capability) CapabilitySet {
	b, _ := bit(c)
	return s &^ b
}

// Names lists the members in declaration order.
func (s CapabilitySet) Names() []string {
	names := make([]string, 0, len(order))
	for _, c := range order {
		if s.Has(c) {
			names = append(names, string(c))
		}
	}
	return names
}
