//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("freight"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get dsn: %v", err)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedDeadline(t *testing.T, db *gorm.DB, id, status string, confirmed bool, cutOff time.Time) {
	t.Helper()
	booking := Bookings{
		ID:           "booking-" + id,
		BookingRef:   "BK-" + id,
		ShipmentType: "FCL",
		OriginPort:   "SGSIN",
		DestPort:     "NLRTM",
		VesselName:   "MSC AURORA",
		SalesUserID:  "sales-" + id,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	deadline := BookingDeadlines{
		ID:               id,
		BookingID:        booking.ID,
		CutOffSI:         cutOff,
		CutOffVGM:        cutOff.Add(12 * time.Hour),
		CutOffCY:         cutOff.Add(24 * time.Hour),
		MonitoringStatus: status,
		SalesConfirmed:   confirmed,
	}
	if err := db.Omit(clause.Associations).Create(&deadline).Error; err != nil {
		t.Fatalf("seed deadline: %v", err)
	}
}

func TestGormDeadlineRepository_Integration(t *testing.T) {
	db := setupPostgres(t)
	repo := NewGormDeadlineRepository(db)
	ctx := context.Background()
	cutOff := time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC)

	seedDeadline(t, db, "d-pending", entity.MonitoringPending, false, cutOff)
	seedDeadline(t, db, "d-confirmed", entity.MonitoringPending, true, cutOff)
	seedDeadline(t, db, "d-resolved", entity.MonitoringResolved, false, cutOff)

	t.Run("fetch returns only monitored deadlines", func(t *testing.T) {
		records, err := repo.FetchPendingDeadlines(ctx)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}

		got := records[0]
		if got.ID != "d-pending" || !got.CutOffs.SI.Equal(cutOff) {
			t.Errorf("unexpected record: %+v", got)
		}
		if got.Booking.BookingRef != "BK-d-pending" || got.Booking.Carrier != "MSC AURORA" || got.Booking.SalesUserID != "sales-d-pending" {
			t.Errorf("booking context not joined: %+v", got.Booking)
		}
		if got.Latches != (entity.Latches{}) {
			t.Errorf("expected no latches, got %+v", got.Latches)
		}
	})

	t.Run("set latch touches one column", func(t *testing.T) {
		at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
		if err := repo.SetLatch(ctx, "d-pending", entity.TierH24, at); err != nil {
			t.Fatalf("set latch: %v", err)
		}

		records, err := repo.FetchPendingDeadlines(ctx)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		want := entity.Latches{Alerted24h: true}
		if records[0].Latches != want {
			t.Errorf("mismatch:\n  got:  %+v\n  want: %+v", records[0].Latches, want)
		}
		if !records[0].UpdatedAt.Equal(at) {
			t.Errorf("updated_at: got %v, want %v", records[0].UpdatedAt, at)
		}
	})

	t.Run("set latch on unknown record", func(t *testing.T) {
		err := repo.SetLatch(ctx, "missing", entity.TierH6, time.Now())
		if !errors.Is(err, repository.ErrDeadlineNotFound) {
			t.Errorf("expected ErrDeadlineNotFound, got %v", err)
		}
	})

	t.Run("set latch for a tier without a column", func(t *testing.T) {
		if err := repo.SetLatch(ctx, "d-pending", entity.TierNone, time.Now()); err == nil {
			t.Error("expected error for NONE tier")
		}
	})
}
