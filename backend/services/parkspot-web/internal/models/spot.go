package models

import "strings"

// SpotStatus is the availability of a parking spot.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "AVAILABLE"
	SpotBooked    SpotStatus = "BOOKED"
	SpotCancelled SpotStatus = "CANCELLED"
)

// ParkingSpot mirrors the backend spot payload. Spots are created and updated by the backend only.
type ParkingSpot struct {
	SpotID       int64      `json:"spotId"`
	SpotLocation string     `json:"spotLocation"`
	VehicleType  string     `json:"vehicleType"`
	Status       SpotStatus `json:"status"`
}

// Available reports whether the spot can be booked.
func (s ParkingSpot) Available() bool {
	return s.Status == SpotAvailable
}

// SpotOption is one entry of the spots-with-location listing used by the booking form.
// SpotInfo is "<spotId> <location>".
type SpotOption struct {
	SpotInfo    string `json:"spotInfo"`
	VehicleType string `json:"vehicleType"`
}

// SpotID returns the leading identifier of SpotInfo.
func (o SpotOption) SpotID() string {
	fields := strings.Fields(o.SpotInfo)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NewSpotRequest is the admin payload for creating a spot.
type NewSpotRequest struct {
	SpotLocation string     `json:"spotLocation"`
	VehicleType  string     `json:"vehicleType"`
	Status       SpotStatus `json:"status"`
}
