package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/abi-lab/backend/internal/domain/cron"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()

	cfg := xcontext.Configs(s.ctx).Cron
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewReconcileCountersCronJob(
		s.tagRepo, s.questionRepo, s.answerRepo, cfg.ReconcileInterval))
	if s.redisClient != nil {
		cronJobManager.Register(cron.NewFlushViewCountCronJob(
			s.questionRepo, s.redisClient, cfg.FlushViewInterval))
	}

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
