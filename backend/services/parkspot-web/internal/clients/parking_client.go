package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// ParkingClient covers parking spot endpoints.
type ParkingClient struct {
	base *BaseClient
}

// NewParkingClient returns client.
func NewParkingClient(base *BaseClient) *ParkingClient {
	return &ParkingClient{base: base}
}

// AvailableSpots lists bookable spots, optionally narrowed by location on the server.
func (c *ParkingClient) AvailableSpots(ctx context.Context, page, size int, location string) (models.Page[models.ParkingSpot], error) {
	q := pageQuery(page, size)
	q.Set("location", strings.TrimSpace(location))
	env, err := fetch[[]models.ParkingSpot](ctx, c.base, Request{
		Name:  "parking.available",
		Path:  "/parking/spots/available",
		Query: q,
	})
	if err != nil {
		return models.Page[models.ParkingSpot]{}, err
	}
	return pageOf(env), nil
}

// AllSpots lists every spot for administrators.
func (c *ParkingClient) AllSpots(ctx context.Context, page, size int) (models.Page[models.ParkingSpot], error) {
	env, err := fetch[[]models.ParkingSpot](ctx, c.base, Request{
		Name:  "parking.all",
		Path:  "/parking/spots",
		Query: pageQuery(page, size),
	})
	if err != nil {
		return models.Page[models.ParkingSpot]{}, err
	}
	return pageOf(env), nil
}

// SpotsWithLocation lists the options offered by the booking form.
func (c *ParkingClient) SpotsWithLocation(ctx context.Context) ([]models.SpotOption, error) {
	env, err := fetch[[]models.SpotOption](ctx, c.base, Request{
		Name: "parking.with_location",
		Path: "/parking/spots/with-location",
	})
	return env.Body, err
}

// CreateSpot submits a new spot. The backend answers 201 on success.
func (c *ParkingClient) CreateSpot(ctx context.Context, spot models.NewSpotRequest) error {
	_, err := fetch[models.ParkingSpot](ctx, c.base, Request{
		Name:   "parking.create",
		Method: http.MethodPost,
		Path:   "/admin/parking/spots",
		Body:   spot,
	})
	return err
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}
