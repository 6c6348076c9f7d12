// Package models holds the canonical verification result shape shared by the
// cache, normalizer, service, and HTTP layer.
package models

// Status classifies a verification outcome.
type Status string

const (
	// StatusSuccess means the organization was found and is active.
	StatusSuccess Status = "success"
	// StatusWarning means the organization was found but is not active
	// (liquidating, liquidated, and so on).
	StatusWarning Status = "warning"
	// StatusError means no matching organization exists. This is a definitive
	// business outcome, not a failure, and is cached like any other result.
	StatusError Status = "error"
)

// Company is the normalized organization record from the registry provider.
type Company struct {
	Name    string `json:"name"`
	OGRN    string `json:"ogrn"`
	Address string `json:"address"`
	OKVED   string `json:"okved,omitempty"`
	State   string `json:"state"`
}

// Result is the canonical outcome of a registry lookup.
//
// Invariant: Status is StatusSuccess if and only if Company is present and
// Company.State == "active".
type Result struct {
	Status  Status   `json:"status"`
	Message string   `json:"message"`
	Company *Company `json:"company,omitempty"`
}

// Clone returns a deep copy so cached results cannot be mutated by callers.
func (r Result) Clone() Result {
	out := r
	if r.Company != nil {
		company := *r.Company
		out.Company = &company
	}
	return out
}
