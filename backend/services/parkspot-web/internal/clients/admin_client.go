package clients

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// AdminClient covers the admin area.
type AdminClient struct {
	base *BaseClient
}

// NewAdminClient returns client.
func NewAdminClient(base *BaseClient) *AdminClient {
	return &AdminClient{base: base}
}

// AuditLogs returns the whole audit trail; the endpoint is not paged.
func (c *AdminClient) AuditLogs(ctx context.Context) ([]models.AuditLogEntry, error) {
	env, err := fetch[[]models.AuditLogEntry](ctx, c.base, Request{
		Name: "admin.audit_logs",
		Path: "/admin/audit/logs",
	})
	return env.Body, err
}

// AuditLog fetches a single entry.
func (c *AdminClient) AuditLog(ctx context.Context, id int64) (*models.AuditLogEntry, error) {
	env, err := fetch[*models.AuditLogEntry](ctx, c.base, Request{
		Name: "admin.audit_log",
		Path: fmt.Sprintf("/admin/audit/logs/%d", id),
	})
	return env.Body, err
}

// Stats fetches the four dashboard counters concurrently. Any failure fails the whole call.
func (c *AdminClient) Stats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.base.JSON(gctx, Request{Name: "admin.users_count", Path: "/admin/users/count"}, &stats.Users)
	})
	g.Go(func() error {
		var revenue decimal.Decimal
		if err := c.base.JSON(gctx, Request{Name: "admin.revenue", Path: "/admin/parking/revenue"}, &revenue); err != nil {
			return err
		}
		stats.Revenue = revenue
		return nil
	})
	g.Go(func() error {
		return c.base.JSON(gctx, Request{Name: "admin.spots_count", Path: "/admin/parking/count"}, &stats.ParkingSpots)
	})
	g.Go(func() error {
		return c.base.JSON(gctx, Request{Name: "admin.bookings_count", Path: "/admin/bookings/count"}, &stats.Bookings)
	})

	if err := g.Wait(); err != nil {
		return models.AdminStats{}, err
	}
	return stats, nil
}
