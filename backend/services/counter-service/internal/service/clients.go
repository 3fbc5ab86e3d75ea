package service

import (
	"strings"

	"bclub/backend/services/counter-service/internal/models"
)

// NormalizeClientName trims name and substitutes the anonymous sentinel for blanks.
func NormalizeClientName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.AnonymousClient
	}
	return name
}

// IsAnonymous reports whether name is one of the anonymous sentinels.
func IsAnonymous(name string) bool {
	for _, n := range models.AnonymousNames {
		if name == n {
			return true
		}
	}
	return false
}
