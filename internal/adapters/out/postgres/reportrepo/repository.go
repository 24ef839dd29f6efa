// Package reportrepo stores cancellation reports for support tooling.
package reportrepo

import (
	"context"
	"time"

	"orderlifecycle/internal/core/ports"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

const reportIDPrefix = "cxl_"

// CancellationReportDTO is one support report row. Amounts are in minor units.
type CancellationReportDTO struct {
	ID             string    `gorm:"primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	PreviousStatus string    `gorm:"not null"`
	Reason         string
	Total          int64 `gorm:"not null"`
	Fee            *int64
	Penalty        int64     `gorm:"not null"`
	CancelledAt    time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for cancellation reports.
func (CancellationReportDTO) TableName() string {
	return "cancellation_reports"
}

// GormSupportReporter implements ports.SupportReporter.
type GormSupportReporter struct {
	db    func() *gorm.DB
	newID func() string
}

func NewGormSupportReporter(db func() *gorm.DB) *GormSupportReporter {
	return &GormSupportReporter{
		db:    db,
		newID: func() string { return reportIDPrefix + ulid.Make().String() },
	}
}

// ReportCancellation inserts the report under a time-ordered id.
func (r *GormSupportReporter) ReportCancellation(ctx context.Context, report ports.CancellationReport) error {
	var fee *int64
	if report.Fee != nil {
		minor := report.Fee.Minor()
		fee = &minor
	}

	dto := CancellationReportDTO{
		ID:             r.newID(),
		OrderID:        report.OrderID.Bytes(),
		UserID:         report.UserID.Bytes(),
		PreviousStatus: report.PreviousStatus.String(),
		Reason:         report.Reason,
		Total:          report.Total.Minor(),
		Fee:            fee,
		Penalty:        report.Penalty.Minor(),
		CancelledAt:    report.CancelledAt.UTC(),
	}
	return r.db().WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the reports of one order, oldest first.
func (r *GormSupportReporter) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]CancellationReportDTO, error) {
	var dtos []CancellationReportDTO
	err := r.db().WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&dtos).Error
	return dtos, err
}
