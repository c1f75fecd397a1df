package main

import (
	"github.com/koinonia-app/backend/internal/domain/cron"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewDailyAssignmentCronJob(
		s.taskRepo, s.assignmentRepo, s.userRepo))
	cronJobManager.Register(cron.NewChallengeReminderCronJob(
		s.challengeRepo, s.participantRepo, s.notificationRepo))
	cronJobManager.Start(s.ctx)

	return nil
}
