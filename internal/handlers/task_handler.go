package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/realtime"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskHandler handles team task board requests and pushes changes to the team room
type TaskHandler struct {
	taskRepository repositories.TaskRepository
	teamRepository repositories.TeamRepository
	users          CompactUserSource
	broadcaster    Broadcaster
	rewards        Rewards
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskRepo repositories.TaskRepository, teamRepo repositories.TeamRepository, users CompactUserSource, broadcaster Broadcaster, rewards Rewards) *TaskHandler {
	return &TaskHandler{
		taskRepository: taskRepo,
		teamRepository: teamRepo,
		users:          users,
		broadcaster:    broadcaster,
		rewards:        rewards,
	}
}

// RegisterTaskRoutes registers task routes. The group is expected to be protected.
func (h *TaskHandler) RegisterTaskRoutes(g *echo.Group) {
	g.POST("", h.CreateTask)
	g.GET("/team/:teamId", h.GetTasksByTeam)
	g.PATCH("/:id", h.UpdateTask)
	g.DELETE("/:id", h.DeleteTask)
}

func (h *TaskHandler) taskViews(ctx context.Context, tasks []models.Task) []models.TaskView {
	ids := make([]uint, 0, len(tasks)*2)
	for _, t := range tasks {
		ids = append(ids, t.CreatedBy)
		if t.AssignedTo != nil {
			ids = append(ids, *t.AssignedTo)
		}
	}
	profiles := compactUsers(ctx, h.users, ids)

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := models.TaskView{Task: t, Creator: compactPtr(profiles, t.CreatedBy)}
		if t.AssignedTo != nil {
			view.Assignee = compactPtr(profiles, *t.AssignedTo)
		}
		views = append(views, view)
	}
	return views
}

// requireMember checks that userID belongs to the team owning the board.
func (h *TaskHandler) requireMember(c echo.Context, teamID string, userID uint) error {
	team, err := h.teamRepository.GetTeamByID(c.Request().Context(), teamID)
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	if !team.HasMember(userID) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this team's tasks")
	}
	return nil
}

func (h *TaskHandler) broadcast(teamID primitive.ObjectID, event string, view models.TaskView) {
	if h.broadcaster == nil {
		return
	}
	if err := h.broadcaster.Broadcast(teamID.Hex(), event, view); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"team_id": teamID.Hex(),
			"event":   event,
		}).Warn("failed to broadcast task change")
	}
}

// CreateTask adds a task to a team board
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.requireMember(c, req.TeamID, userID); err != nil {
		return err
	}
	ctx := c.Request().Context()

	teamID, _ := primitive.ObjectIDFromHex(req.TeamID)
	task := &models.Task{
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   userID,
		Deadline:    req.Deadline,
	}
	if err := h.taskRepository.CreateTask(ctx, task); err != nil {
		return storeError(c, err, "")
	}

	view := h.taskViews(ctx, []models.Task{*task})[0]
	h.broadcast(task.TeamID, realtime.EventTaskCreated, view)
	return c.JSON(http.StatusCreated, view)
}

// GetTasksByTeam lists a team's tasks, newest first
func (h *TaskHandler) GetTasksByTeam(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	teamID, err := parseObjectIDParam(c, "teamId", "Team not found")
	if err != nil {
		return err
	}
	if err := h.requireMember(c, teamID.Hex(), userID); err != nil {
		return err
	}
	ctx := c.Request().Context()

	tasks, err := h.taskRepository.ListByTeam(ctx, teamID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.taskViews(ctx, tasks))
}

// UpdateTask applies a partial update. Completing a task awards XP to the
// assignee, or to the updater when nobody is assigned.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	task, err := h.taskRepository.GetTaskByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Task not found")
	}
	if err := h.requireMember(c, task.TeamID.Hex(), userID); err != nil {
		return err
	}

	previous := task.Status
	if req.Title != nil && *req.Title != "" {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil && *req.Status != "" {
		task.Status = *req.Status
	}
	if req.Priority != nil && *req.Priority != "" {
		task.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		task.AssignedTo = req.AssignedTo
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}

	if err := h.taskRepository.UpdateTask(ctx, task); err != nil {
		return storeError(c, err, "Task not found")
	}

	if previous != models.TaskDone && task.Status == models.TaskDone {
		completer := userID
		if task.AssignedTo != nil {
			completer = *task.AssignedTo
		}
		h.rewards.Record(ctx, completer, gamification.EventTaskCompleted, models.SkillGeneral)
	}

	view := h.taskViews(ctx, []models.Task{*task})[0]
	h.broadcast(task.TeamID, realtime.EventTaskUpdated, view)
	return c.JSON(http.StatusOK, view)
}

// DeleteTask removes a task from its board
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	task, err := h.taskRepository.GetTaskByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Task not found")
	}
	if err := h.requireMember(c, task.TeamID.Hex(), userID); err != nil {
		return err
	}

	if err := h.taskRepository.DeleteTask(ctx, task.ID); err != nil {
		return storeError(c, err, "Task not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Task removed"})
}
