package provider

import (
	"fmt"
	"strings"

	"fnsgate/internal/verification/models"
)

// StateActive is the only registration state that yields a success result.
const StateActive = "active"

// Outcome messages. MessageNotFound is part of the wire contract and must not
// be reworded.
const (
	MessageNotFound = "organization not found"
	MessageActive   = "organization is registered and active"
)

// Normalize maps a provider response into the canonical verification result.
//
// Only the first suggestion is considered; the provider does not rank ties
// and the source behavior of taking suggestions[0] is preserved. A found but
// non-active organization is downgraded from success to warning.
func Normalize(resp Response) models.Result {
	if len(resp.Suggestions) == 0 {
		return models.Result{
			Status:  models.StatusError,
			Message: MessageNotFound,
		}
	}

	data := resp.Suggestions[0].Data
	company := models.Company{
		Name:    firstNonEmpty(data.Name.FullWithOPF, data.Name.ShortWithOPF, data.Name.Full, data.Name.Short),
		OGRN:    firstNonEmpty(data.OGRN, data.OGRNIP),
		Address: data.Address.Value,
		OKVED:   activityCode(data),
		State:   strings.ToLower(data.State.Status),
	}

	if company.State != StateActive {
		return models.Result{
			Status:  models.StatusWarning,
			Message: fmt.Sprintf("organization found but is not active (state: %s)", company.State),
			Company: &company,
		}
	}

	return models.Result{
		Status:  models.StatusSuccess,
		Message: MessageActive,
		Company: &company,
	}
}

// activityCode prefers the primary okved field and falls back to the first
// entry of the activity-code list. Empty means the field is omitted from the
// normalized record.
func activityCode(data Data) string {
	if data.OKVED != "" {
		return data.OKVED
	}
	if len(data.OKVEDs) > 0 {
		return data.OKVEDs[0].Code
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
