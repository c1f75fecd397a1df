package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TaskDomain interface {
	Create(context.Context, *model.CreateTaskRequest) (*model.CreateTaskResponse, error)
	Update(context.Context, *model.UpdateTaskRequest) (*model.UpdateTaskResponse, error)
	GetMyAssignments(context.Context, *model.GetMyAssignmentsRequest) (*model.GetMyAssignmentsResponse, error)
	Toggle(context.Context, *model.ToggleAssignmentRequest) (*model.ToggleAssignmentResponse, error)
	StartFocus(context.Context, *model.StartFocusRequest) (*model.StartFocusResponse, error)
}

type taskDomain struct {
	taskRepo       repository.TaskRepository
	assignmentRepo repository.TaskAssignmentRepository
	rewardEngine   *reward.Engine
	bonusDomain    BonusDomain
	roleVerifier   *common.GlobalRoleVerifier
}

func NewTaskDomain(
	taskRepo repository.TaskRepository,
	assignmentRepo repository.TaskAssignmentRepository,
	rewardEngine *reward.Engine,
	bonusDomain BonusDomain,
	userRepo repository.UserRepository,
) *taskDomain {
	return &taskDomain{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		rewardEngine:   rewardEngine,
		bonusDomain:    bonusDomain,
		roleVerifier:   common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *taskDomain) Create(
	ctx context.Context, req *model.CreateTaskRequest,
) (*model.CreateTaskResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating task: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	if req.CoinReward < 0 || req.FocusSeconds < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative reward or focus duration")
	}

	task := &entity.Task{
		Base:         entity.Base{ID: uuid.NewString()},
		Title:        req.Title,
		Details:      []byte(req.Details),
		Status:       entity.TaskActive,
		CoinReward:   uint64(req.CoinReward),
		FocusSeconds: req.FocusSeconds,
	}

	if err := d.taskRepo.Create(ctx, task); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create task: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTaskResponse{ID: task.ID}, nil
}

func (d *taskDomain) Update(
	ctx context.Context, req *model.UpdateTaskRequest,
) (*model.UpdateTaskResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when updating task: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.taskRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task: %v", err)
		return nil, errorx.Unknown
	}

	status := entity.TaskStatusType(req.Status)
	if req.Status != "" && status != entity.TaskActive && status != entity.TaskArchived {
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	err := d.taskRepo.UpdateByID(ctx, req.ID, &entity.Task{
		Title:        req.Title,
		Details:      []byte(req.Details),
		Status:       status,
		CoinReward:   uint64(req.CoinReward),
		FocusSeconds: req.FocusSeconds,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update task: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateTaskResponse{}, nil
}

func (d *taskDomain) GetMyAssignments(
	ctx context.Context, req *model.GetMyAssignmentsRequest,
) (*model.GetMyAssignmentsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	day := req.Day
	today := dateutil.Day(time.Now())
	if day == "" {
		day = today
	} else if _, err := time.Parse(dateutil.DayLayout, day); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid day %s", day)
	}

	// Today's assignments are materialized on first read, so a member who
	// signs up after the daily job ran still gets a full checklist.
	if day == today {
		if err := d.materialize(ctx, userID, day); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot materialize assignments: %v", err)
			return nil, errorx.Unknown
		}
	}

	assignments, err := d.assignmentRepo.GetListByUserDay(ctx, userID, day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get assignments: %v", err)
		return nil, errorx.Unknown
	}

	clientAssignments := []model.TaskAssignment{}
	for _, a := range assignments {
		clientAssignments = append(clientAssignments, model.ConvertTaskAssignment(&a))
	}

	return &model.GetMyAssignmentsResponse{Assignments: clientAssignments}, nil
}

func (d *taskDomain) materialize(ctx context.Context, userID, day string) error {
	tasks, err := d.taskRepo.GetActiveList(ctx)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		err := d.assignmentRepo.Create(ctx, &entity.TaskAssignment{
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
}

func (d *taskDomain) Toggle(
	ctx context.Context, req *model.ToggleAssignmentRequest,
) (*model.ToggleAssignmentResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	assignment, err := d.assignmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found assignment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get assignment: %v", err)
		return nil, errorx.Unknown
	}

	if assignment.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if assignment.Day != dateutil.Day(time.Now()) {
		return nil, errorx.New(errorx.Unavailable, "Only today's checklist can be changed")
	}

	if assignment.Status == entity.AssignmentDone {
		return d.undo(ctx, assignment)
	}

	return d.complete(ctx, assignment)
}

func (d *taskDomain) complete(
	ctx context.Context, assignment *entity.TaskAssignment,
) (*model.ToggleAssignmentResponse, error) {
	if assignment.Task.FocusSeconds > 0 {
		if !assignment.FocusStartAt.Valid {
			return nil, errorx.New(errorx.Unavailable, "Start the focus timer first")
		}

		elapsed := time.Since(assignment.FocusStartAt.Time)
		required := time.Duration(assignment.Task.FocusSeconds) * time.Second
		if elapsed < required {
			return nil, errorx.New(errorx.Unavailable,
				"Keep focusing for %s more", (required - elapsed).Round(time.Second))
		}
	}

	now := sql.NullTime{Valid: true, Time: time.Now()}
	err := d.assignmentRepo.UpdateStatus(ctx, assignment.ID, entity.AssignmentDone, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete assignment: %v", err)
		return nil, errorx.Unknown
	}

	issued, err := d.rewardEngine.Issue(ctx, reward.IssueInput{
		UserID:      assignment.UserID,
		SourceType:  entity.SourceTask,
		SourceID:    assignment.ID,
		Amount:      int64(assignment.Task.CoinReward),
		Reason:      fmt.Sprintf("Completed %s", assignment.Task.Title),
		Criticality: reward.Critical,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot issue task reward: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.ToggleAssignmentResponse{
		Status:      string(entity.AssignmentDone),
		CoinsIssued: issued,
	}

	remaining, err := d.assignmentRepo.CountAssigned(ctx, assignment.UserID, assignment.Day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count remaining assignments: %v", err)
		return resp, nil
	}

	if remaining == 0 {
		resp.BonusVerse = d.bonusDomain.MaybeGrantBonus(ctx, assignment.UserID)
	}

	return resp, nil
}

// undo reverts the checkmark only. A reward already issued for the completion
// stays in the ledger, the member keeps it even after unchecking.
func (d *taskDomain) undo(
	ctx context.Context, assignment *entity.TaskAssignment,
) (*model.ToggleAssignmentResponse, error) {
	err := d.assignmentRepo.UpdateStatus(ctx, assignment.ID, entity.AssignmentAssigned, sql.NullTime{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot undo assignment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleAssignmentResponse{Status: string(entity.AssignmentAssigned)}, nil
}

func (d *taskDomain) StartFocus(
	ctx context.Context, req *model.StartFocusRequest,
) (*model.StartFocusResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	assignment, err := d.assignmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found assignment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get assignment: %v", err)
		return nil, errorx.Unknown
	}

	if assignment.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if assignment.Task.FocusSeconds == 0 {
		return nil, errorx.New(errorx.BadRequest, "This task has no focus timer")
	}

	if assignment.Status == entity.AssignmentDone {
		return nil, errorx.New(errorx.Unavailable, "This task is already completed")
	}

	// A second start keeps the original timestamp, restarting never shortens
	// the required focus window.
	if assignment.FocusStartAt.Valid {
		return &model.StartFocusResponse{
			FocusStartAt: assignment.FocusStartAt.Time.Format(model.DefaultTimeLayout),
		}, nil
	}

	now := time.Now()
	err = d.assignmentRepo.SetFocusStart(ctx, assignment.ID, sql.NullTime{Valid: true, Time: now})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot start focus timer: %v", err)
		return nil, errorx.Unknown
	}

	return &model.StartFocusResponse{
		FocusStartAt: now.Format(model.DefaultTimeLayout),
	}, nil
}
