package cron

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

const assignmentWorkers = 8

// DailyAssignmentCronJob materializes today's checklist for every member at
// UTC midnight. The insert ignores duplicates, so a crashed run can simply be
// repeated.
type DailyAssignmentCronJob struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.TaskAssignmentRepository
	userRepo       repository.UserRepository
}

func NewDailyAssignmentCronJob(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.TaskAssignmentRepository,
	userRepo repository.UserRepository,
) *DailyAssignmentCronJob {
	return &DailyAssignmentCronJob{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

func (job *DailyAssignmentCronJob) Do(ctx context.Context) {
	tasks, err := job.taskRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tasks: %v", err)
		return
	}

	if len(tasks) == 0 {
		return
	}

	userIDs, err := job.userRepo.GetAllIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user ids: %v", err)
		return
	}

	day := dateutil.Day(time.Now())

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(assignmentWorkers)
	for _, userID := range userIDs {
		userID := userID
		group.Go(func() error {
			for _, task := range tasks {
				err := job.assignmentRepo.Create(groupCtx, &entity.TaskAssignment{
					Base:   entity.Base{ID: uuid.NewString()},
					TaskID: task.ID,
					UserID: userID,
					Day:    day,
					Status: entity.AssignmentAssigned,
				})
				if err != nil {
					return err
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot materialize assignments: %v", err)
	}
}

func (job *DailyAssignmentCronJob) RunNow() bool {
	return true
}

func (job *DailyAssignmentCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
