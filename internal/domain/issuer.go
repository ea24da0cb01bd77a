package domain

// Issuer is the organization behind every badge this deployment serves.
// Exactly one row is expected; multi-issuer hosting is out of scope.
type Issuer struct {
	Name        string
	URL         string
	Description string
	ImageName   string
	Email       string
}
