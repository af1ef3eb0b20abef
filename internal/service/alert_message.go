package service

import (
	"fmt"

	"petid/internal/domain/entity"
)

// Alert email assembly. Pure string building so the exact wording that lands
// in an owner's inbox is pinned down by tests.

// FoundAlert is a coordinate-based report submitted by whoever scanned the
// pet's card.
type FoundAlert struct {
	Latitude  float64
	Longitude float64
	Timestamp string
}

// ManualAlert is a free-text location report for finders who decline to
// share coordinates.
type ManualAlert struct {
	LocationDescription string
	ContactInfo         string
	Timestamp           string
}

// MapsLink builds the Google Maps pin for the reported coordinates.
func (a FoundAlert) MapsLink() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", a.Latitude, a.Longitude)
}

// BuildFoundAlertEmail returns the subject and body for a coordinate alert.
func BuildFoundAlertEmail(pet *entity.Pet, alert FoundAlert) (subject, body string) {
	subject = fmt.Sprintf("URGENT: Your pet %s has been found!", pet.Name)
	body = fmt.Sprintf(`Hello %s,

Great news! Someone has found your pet %s and is trying to contact you.

View Location on Google Maps: %s
Timestamp: %s

Best regards,
PetID Team
`, pet.Owner.FullName(), pet.Name, alert.MapsLink(), alert.Timestamp)
	return subject, body
}

// BuildManualAlertEmail returns the subject and body for a free-text report.
func BuildManualAlertEmail(pet *entity.Pet, alert ManualAlert) (subject, body string) {
	subject = fmt.Sprintf("Location Report for %s", pet.Name)

	body = fmt.Sprintf(`Hello %s,

Someone has found your pet %s and provided the following location information:

Location Description:
%s

Report Time: %s
`, pet.Owner.FullName(), pet.Name, alert.LocationDescription, alert.Timestamp)

	if alert.ContactInfo != "" {
		body += fmt.Sprintf(`
Contact Information: %s
`, alert.ContactInfo)
	}

	body += `
Please contact the person who found your pet as soon as possible.

Best regards,
PetID Team
`
	return subject, body
}
