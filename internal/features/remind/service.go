package remind

import (
	"context"
	"fmt"

	"go-erp/internal/config"
	"go-erp/internal/features/approval"
	"go-erp/internal/features/notification"
	"go-erp/internal/features/report"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Reminder sends each gating role a daily digest of the documents
// still waiting on it. Roles with nothing pending get no message.
type Reminder struct {
	cron       *cron.Cron
	reports    report.ReportService
	dispatcher notification.Dispatcher
	logger     *zap.Logger
}

func NewReminder(lc fx.Lifecycle, cfg *config.Config, reports report.ReportService, dispatcher notification.Dispatcher, logger *zap.Logger) *Reminder {
	r := &Reminder{
		cron:       cron.New(),
		reports:    reports,
		dispatcher: dispatcher,
		logger:     logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := r.cron.AddFunc(cfg.RemindSpec, r.Run); err != nil {
				return fmt.Errorf("invalid remind schedule %q: %w", cfg.RemindSpec, err)
			}
			r.cron.Start()
			logger.Info("reminder scheduled", zap.String("spec", cfg.RemindSpec))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := r.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return r
}

// Run executes one digest sweep. Exported so the schedule and the
// sweep can be exercised separately.
func (r *Reminder) Run() {
	ctx := context.Background()
	for _, gate := range approval.GateRoles() {
		entries, err := r.reports.Pending(ctx, gate)
		if err != nil {
			r.logger.Error("reminder sweep failed", zap.String("role", string(gate)), zap.Error(err))
			continue
		}
		if len(entries) == 0 {
			continue
		}
		r.dispatcher.NotifyRole(gate,
			"Pending approvals",
			fmt.Sprintf("You have %d documents waiting:\n%s", len(entries), report.FormatEntries(entries)),
			nil)
	}
}
