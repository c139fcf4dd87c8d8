package resource

import (
	"fmt"
	"regexp"
	"strings"
)

// resourceIDRegex matches from the start of the identifier only; anything after the
// resource name is ignored.
var resourceIDRegex = regexp.MustCompile(`^/subscriptions/([^/]+)/resourceGroups/([^/]+)/providers/([^/]+)/([^/]+)/([^/]+)(?:/.*)?`)

type ParsedResource struct {
	SubscriptionID string
	ResourceGroup  string
	Provider       string
	ResourceType   string
	ResourceName   string
}

// FullType is the provider namespace joined with the resource type, e.g. Microsoft.Web/sites.
func (parsed *ParsedResource) FullType() string {
	return parsed.Provider + "/" + parsed.ResourceType
}

// Path rebuilds the canonical five segment identifier.
func (parsed *ParsedResource) Path() string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s/%s",
		parsed.SubscriptionID,
		parsed.ResourceGroup,
		parsed.Provider,
		parsed.ResourceType,
		parsed.ResourceName,
	)
}

// Parse splits an Azure resource ID into its components. A false return is an
// ordinary outcome for identifiers that do not follow the provider layout.
func Parse(resourceID string) (*ParsedResource, bool) {
	match := resourceIDRegex.FindStringSubmatch(resourceID)
	if match == nil {
		return nil, false
	}

	return &ParsedResource{
		SubscriptionID: match[1],
		ResourceGroup:  match[2],
		Provider:       match[3],
		ResourceType:   match[4],
		ResourceName:   match[5],
	}, true
}

// DisplayName returns "name (type)", or the last path segment when the ID cannot be parsed.
func DisplayName(resourceID string) string {
	if parsed, ok := Parse(resourceID); ok {
		return fmt.Sprintf("%s (%s)", parsed.ResourceName, parsed.ResourceType)
	}

	return resourceID[strings.LastIndex(resourceID, "/")+1:]
}

// TypeName returns the resource type, or "Unknown" when the ID cannot be parsed.
func TypeName(resourceID string) string {
	if parsed, ok := Parse(resourceID); ok {
		return parsed.ResourceType
	}
	return "Unknown"
}
