package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/berfenger/solardash/internal/core/domain"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRefreshWeatherJob(t *testing.T) {

	assert := assert.New(t)

	as := actor.NewActorSystem()
	defer as.Shutdown()

	var refreshes atomic.Uint64
	pid := as.Root.Spawn(actor.PropsFromFunc(func(ctx actor.Context) {
		if _, ok := ctx.Message().(domain.RefreshWeatherRequest); ok {
			ctx.Respond(domain.RefreshWeatherResponse{Sequence: refreshes.Add(1)})
		}
	}))

	job := &refreshWeatherJob{
		rootContext: as.Root,
		master:      pid,
		timeout:     time.Second,
		logger:      zap.NewNop(),
	}
	assert.Equal(REFRESH_JOB_NAME, job.Description())
	assert.NoError(job.Execute(context.Background()))
	assert.Equal(uint64(1), refreshes.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched, err := startRefreshScheduler(ctx, job, 50*time.Millisecond)
	assert.NoError(err)
	assert.Eventually(func() bool { return refreshes.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
	sched.Stop()
}

func TestRefreshWeatherJobUnexpectedResponse(t *testing.T) {

	as := actor.NewActorSystem()
	defer as.Shutdown()

	pid := as.Root.Spawn(actor.PropsFromFunc(func(ctx actor.Context) {
		if _, ok := ctx.Message().(domain.RefreshWeatherRequest); ok {
			ctx.Respond("nope")
		}
	}))

	job := &refreshWeatherJob{rootContext: as.Root, master: pid, timeout: time.Second, logger: zap.NewNop()}
	assert.Error(t, job.Execute(context.Background()))
}
