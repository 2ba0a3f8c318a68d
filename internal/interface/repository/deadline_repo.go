package repository

import (
	"context"
	"fmt"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormDeadlineRepository implements the DeadlineRepository interface
type GormDeadlineRepository struct {
	db *gorm.DB
}

// NewGormDeadlineRepository creates a new GORM deadline repository
func NewGormDeadlineRepository(db *gorm.DB) *GormDeadlineRepository {
	return &GormDeadlineRepository{
		db: db,
	}
}

// Bookings GORM model, read-only from this service
type Bookings struct {
	ID           string `gorm:"column:id;primaryKey"`
	BookingRef   string `gorm:"column:booking_ref"`
	ShipmentType string `gorm:"column:shipment_type"`
	OriginPort   string `gorm:"column:origin_port"`
	DestPort     string `gorm:"column:destination_port"`
	VesselName   string `gorm:"column:vessel_name"`
	FlightNumber string `gorm:"column:flight_number"`
	SalesUserID  string `gorm:"column:sales_user_id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "bookings"
}

// BookingDeadlines GORM model for database mapping
type BookingDeadlines struct {
	ID               string    `gorm:"column:id;primaryKey"`
	BookingID        string    `gorm:"column:booking_id;uniqueIndex"`
	Booking          Bookings  `gorm:"foreignKey:BookingID"`
	CutOffSI         time.Time `gorm:"column:cut_off_si"`
	CutOffVGM        time.Time `gorm:"column:cut_off_vgm"`
	CutOffCY         time.Time `gorm:"column:cut_off_cy"`
	MonitoringStatus string    `gorm:"column:monitoring_status;index;default:PENDING"`
	SalesConfirmed   bool      `gorm:"column:sales_confirmed;default:false"`
	Alerted48h       bool      `gorm:"column:alerted_48h;default:false"`
	Alerted24h       bool      `gorm:"column:alerted_24h;default:false"`
	Alerted12h       bool      `gorm:"column:alerted_12h;default:false"`
	Alerted6h        bool      `gorm:"column:alerted_6h;default:false"`
	AlertedOverdue   bool      `gorm:"column:alerted_overdue;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the default table name
func (BookingDeadlines) TableName() string {
	return "booking_deadlines"
}

// latchColumns maps each alertable tier to its latch column
var latchColumns = map[entity.EscalationTier]string{
	entity.TierOverdue: "alerted_overdue",
	entity.TierH6:      "alerted_6h",
	entity.TierH12:     "alerted_12h",
	entity.TierH24:     "alerted_24h",
	entity.TierH48:     "alerted_48h",
}

// Migrate creates or updates the tables backing this repository
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Bookings{}, &BookingDeadlines{})
}

// FetchPendingDeadlines finds monitored deadlines joined with their booking
func (r *GormDeadlineRepository) FetchPendingDeadlines(ctx context.Context) ([]*entity.BookingDeadline, error) {
	var rows []BookingDeadlines
	result := r.db.WithContext(ctx).
		Joins("Booking").
		Where("booking_deadlines.monitoring_status = ?", entity.MonitoringPending).
		Where("booking_deadlines.sales_confirmed = ?", false).
		Find(&rows)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch pending deadlines: %w", result.Error)
	}

	// Convert to domain entities
	entities := make([]*entity.BookingDeadline, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, toDeadlineEntity(row))
	}

	return entities, nil
}

// SetLatch sets a single latch column and updated_at for one record
func (r *GormDeadlineRepository) SetLatch(ctx context.Context, deadlineID string, tier entity.EscalationTier, at time.Time) error {
	column, ok := latchColumns[tier]
	if !ok {
		return fmt.Errorf("no latch for tier %q", tier)
	}

	result := r.db.WithContext(ctx).
		Model(&BookingDeadlines{}).
		Where("id = ?", deadlineID).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set %s: %w", column, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", repository.ErrDeadlineNotFound, deadlineID)
	}

	return nil
}

func toDeadlineEntity(row BookingDeadlines) *entity.BookingDeadline {
	carrier := row.Booking.VesselName
	if carrier == "" {
		carrier = row.Booking.FlightNumber
	}

	return &entity.BookingDeadline{
		ID:        row.ID,
		BookingID: row.BookingID,
		CutOffs: entity.CutOffs{
			SI:  row.CutOffSI,
			VGM: row.CutOffVGM,
			CY:  row.CutOffCY,
		},
		MonitoringStatus: row.MonitoringStatus,
		SalesConfirmed:   row.SalesConfirmed,
		Latches: entity.Latches{
			Alerted48h:     row.Alerted48h,
			Alerted24h:     row.Alerted24h,
			Alerted12h:     row.Alerted12h,
			Alerted6h:      row.Alerted6h,
			AlertedOverdue: row.AlertedOverdue,
		},
		Booking: entity.BookingContext{
			BookingID:    row.BookingID,
			BookingRef:   row.Booking.BookingRef,
			ShipmentType: row.Booking.ShipmentType,
			Origin:       row.Booking.OriginPort,
			Destination:  row.Booking.DestPort,
			Carrier:      carrier,
			SalesUserID:  row.Booking.SalesUserID,
		},
		UpdatedAt: row.UpdatedAt,
	}
}
