package content

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

// Source names reported by EmergencyContacts and the fallback metric.
const (
	SourceDatabase      = "database"
	SourceLastKnownGood = "last_known_good"
	SourceStatic        = "static"
)

type contactSource struct {
	name  string
	fetch func(ctx context.Context) ([]models.EmergencyContact, error)
}

// firstAvailable returns the first source that yields a non-empty list.
// Failures are handed to onFailure and never returned. When every source
// fails the built-in list is served.
func firstAvailable(ctx context.Context, sources []contactSource, onFailure func(name string, err error)) ([]models.EmergencyContact, string) {
	for _, src := range sources {
		contacts, err := src.fetch(ctx)
		if err == nil && len(contacts) > 0 {
			return contacts, src.name
		}
		if err == nil {
			err = errEmpty
		}
		onFailure(src.name, err)
	}
	return staticContacts(), SourceStatic
}

var (
	errEmpty = errors.New("no active emergency contacts")
	errPanic = errors.New("emergency contact read panicked")
)

func strPtr(s string) *string { return &s }

// staticContacts is served when neither the database nor the cache can answer.
// Each call returns a fresh slice.
func staticContacts() []models.EmergencyContact {
	description := "24/7 Power Emergency"
	return []models.EmergencyContact{
		{
			ID:              "fallback-1",
			Region:          "Demerara",
			Name:            "Demerara Emergency",
			PrimaryNumber:   "0475",
			SecondaryNumber: strPtr("226-2600"),
			Description:     strPtr(description),
			Available:       "24/7",
			Order:           1,
			IsActive:        true,
		},
		{
			ID:            "fallback-2",
			Region:        "Berbice",
			Name:          "Berbice Emergency",
			PrimaryNumber: "333-2186",
			Description:   strPtr(description),
			Available:     "24/7",
			Order:         2,
			IsActive:      true,
		},
		{
			ID:            "fallback-3",
			Region:        "Essequibo",
			Name:          "Essequibo Emergency",
			PrimaryNumber: "771-4244",
			Description:   strPtr(description),
			Available:     "24/7",
			Order:         3,
			IsActive:      true,
		},
	}
}
