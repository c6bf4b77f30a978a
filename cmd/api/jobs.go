package main

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const REFRESH_JOB_NAME = "weather-refresh"

// refreshWeatherJob asks the master actor for a new weather refresh.
type refreshWeatherJob struct {
	rootContext *actor.RootContext
	master      *actor.PID
	timeout     time.Duration
	logger      *zap.Logger
}

// ensure interface compliance
var _ quartz.Job = (*refreshWeatherJob)(nil)

func (j *refreshWeatherJob) Execute(_ context.Context) error {
	res, err := j.rootContext.RequestFuture(j.master, domain.RefreshWeatherRequest{}, j.timeout).Result()
	if err != nil {
		j.logger.Warn("weather refresh request failed", zap.Error(err))
		return err
	}
	resp, ok := res.(domain.RefreshWeatherResponse)
	if !ok {
		return fmt.Errorf("unexpected refresh response %T", res)
	}
	j.logger.Debug("weather refresh scheduled", zap.Uint64("sequence", resp.Sequence))
	return nil
}

func (j *refreshWeatherJob) Description() string {
	return REFRESH_JOB_NAME
}

func startRefreshScheduler(ctx context.Context, job *refreshWeatherJob, interval time.Duration) (quartz.Scheduler, error) {
	sched := quartz.NewStdScheduler()
	sched.Start(ctx)
	detail := quartz.NewJobDetail(job, quartz.NewJobKey(REFRESH_JOB_NAME))
	if err := sched.ScheduleJob(detail, quartz.NewSimpleTrigger(interval)); err != nil {
		sched.Stop()
		return nil, err
	}
	return sched, nil
}
