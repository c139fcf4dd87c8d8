package resource

const portalBaseURL = "https://portal.azure.com"

// PortalURL builds the Azure Portal deep link for a resource. No network check is made.
func PortalURL(resourceID string) (string, bool) {
	parsed, ok := Parse(resourceID)
	if !ok {
		return "", false
	}

	return portalBaseURL + "/#@/resource" + parsed.Path(), true
}
