package dispatch

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker drains the outbox on a cron schedule. Overlapping runs are skipped.
type Worker struct {
	outbox *Outbox
	cron   *cron.Cron
	log    *zap.Logger
}

func NewWorker(outbox *Outbox, schedule string, l *zap.Logger) (*Worker, error) {
	w := &Worker{outbox: outbox, log: l}
	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(zap.NewStdLog(l)))))

	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Worker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	sent, err := w.outbox.Drain(ctx)
	if err != nil {
		w.log.Error("outbox drain failed", zap.Error(err))
		return
	}
	if sent > 0 {
		w.log.Info("certificate notifications sent", zap.Int("count", sent))
	}
}

func (w *Worker) Start() {
	w.cron.Start()
}

// Stop halts scheduling; the returned context is done once a running drain finishes.
func (w *Worker) Stop() context.Context {
	return w.cron.Stop()
}
