package services

import (
	"time"

	"hostelhub_go/database"
	"hostelhub_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// VoucherScheduler flips Pending vouchers to Unpaid once their due date
// has passed. Paid vouchers are never touched.
type VoucherScheduler struct {
	cron *cron.Cron
}

func NewVoucherScheduler() *VoucherScheduler {
	return &VoucherScheduler{
		cron: cron.New(cron.WithLocation(time.Local)),
	}
}

// Start registers the daily sweep and runs one immediately so a restart
// doesn't leave overdue vouchers Pending until the next midnight.
func (s *VoucherScheduler) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", s.SweepOverdue); err != nil {
		return err
	}
	s.cron.Start()
	go s.SweepOverdue()
	logrus.Info("Voucher overdue scheduler started")
	return nil
}

func (s *VoucherScheduler) Stop() {
	s.cron.Stop()
}

// SweepOverdue marks every Pending voucher whose due date is in the
// past as Unpaid.
func (s *VoucherScheduler) SweepOverdue() {
	db := database.GetDB()
	if db == nil {
		return
	}

	result := db.Model(&models.Voucher{}).
		Where("status = ? AND due_date < ?", models.VoucherStatusPending, time.Now()).
		Update("status", models.VoucherStatusUnpaid)
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Failed to sweep overdue vouchers")
		return
	}
	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("Marked overdue vouchers as Unpaid")
	}
}
