package provider

import (
	"fmt"
	"slices"
)

// ValidateCapabilities checks if provider capabilities are valid and consistent
func ValidateCapabilities(caps ProviderCapabilities) error {
	if len(caps.MediaTypes) == 0 {
		return fmt.Errorf("provider must support at least one media type")
	}
	if !slices.Contains(caps.MediaTypes, MediaTypeMovie) {
		return fmt.Errorf("provider must support movie lookups")
	}

	return nil
}
