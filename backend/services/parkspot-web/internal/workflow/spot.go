package workflow

import (
	"strings"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// Spot form messages.
const (
	MsgLocationRequired = "Location is required"
)

// SpotForm is the admin form adding a parking spot.
type SpotForm struct {
	SpotLocation string
	VehicleType  string
	Status       models.SpotStatus
}

// Validate checks the required fields.
func (f SpotForm) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(f.SpotLocation) == "" {
		errs["spotLocation"] = MsgLocationRequired
	}
	if strings.TrimSpace(f.VehicleType) == "" {
		errs["vehicleType"] = MsgVehicleTypeRequired
	}
	return errs
}

// Request returns the create request. New spots are AVAILABLE unless a status was chosen.
func (f SpotForm) Request() models.NewSpotRequest {
	status := f.Status
	if status == "" {
		status = models.SpotAvailable
	}
	return models.NewSpotRequest{
		SpotLocation: strings.TrimSpace(f.SpotLocation),
		VehicleType:  strings.TrimSpace(f.VehicleType),
		Status:       status,
	}
}
