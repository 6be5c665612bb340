package app

import (
	"context"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/report"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedSalesSummaryTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.CrmOprLog{})
	})

	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSalesSummaryTask logs aggregate statistics over completed
// orders once a day.
func (a *Application) SchedSalesSummaryTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	summary, err := report.NewService(a.gormDB).Summary(context.Background())
	if err != nil {
		zap.L().Error("sales summary failed", zap.Error(err))
		return
	}
	zap.L().Info("daily sales summary",
		zap.Int("orders", summary.Orders),
		zap.Float64("revenue", summary.Revenue),
		zap.Float64("mean_order", summary.Mean),
		zap.Float64("largest_order", summary.Largest))
}
