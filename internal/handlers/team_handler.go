package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TeamHandler handles team and team invitation HTTP requests
type TeamHandler struct {
	teamRepository       repositories.TeamRepository
	invitationRepository repositories.TeamInvitationRepository
	taskRepository       repositories.TaskRepository
	userRepository       repositories.UserRepository
	notifier             Notifier
	rewards              Rewards
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(
	teamRepo repositories.TeamRepository,
	invitationRepo repositories.TeamInvitationRepository,
	taskRepo repositories.TaskRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	rewards Rewards,
) *TeamHandler {
	return &TeamHandler{
		teamRepository:       teamRepo,
		invitationRepository: invitationRepo,
		taskRepository:       taskRepo,
		userRepository:       userRepo,
		notifier:             notifier,
		rewards:              rewards,
	}
}

// RegisterTeamRoutes registers team routes. The group is expected to be protected.
func (h *TeamHandler) RegisterTeamRoutes(g *echo.Group) {
	g.POST("", h.CreateTeam)
	g.GET("/my", h.GetMyTeams)
	g.GET("/invitations/my", h.GetMyInvitations)
	g.POST("/invitations/:id/accept", h.AcceptInvitation)
	g.POST("/invitations/:id/reject", h.RejectInvitation)
	g.GET("/:id", h.GetTeam)
	g.PUT("/:id", h.UpdateTeam)
	g.DELETE("/:id", h.DeleteTeam)
	g.POST("/:id/invite", h.InviteMember)
	g.POST("/:id/invite-user", h.SendInvitation)
	g.DELETE("/:id/members/:memberId", h.RemoveMember)
}

// teamViews resolves owners and member profiles for a batch of teams.
func (h *TeamHandler) teamViews(ctx context.Context, teams []models.Team) []models.TeamView {
	var ids []uint
	for _, t := range teams {
		ids = append(ids, t.OwnerID)
		ids = append(ids, t.Members...)
	}
	profiles := compactUsers(ctx, h.userRepository, ids)

	views := make([]models.TeamView, 0, len(teams))
	for _, t := range teams {
		view := models.TeamView{Team: t, Owner: compactPtr(profiles, t.OwnerID), MemberProfiles: []models.UserCompact{}}
		for _, m := range t.Members {
			if p, ok := profiles[m]; ok {
				view.MemberProfiles = append(view.MemberProfiles, p)
			}
		}
		views = append(views, view)
	}
	return views
}

func (h *TeamHandler) teamView(ctx context.Context, team *models.Team) models.TeamView {
	return h.teamViews(ctx, []models.Team{*team})[0]
}

// loadOwnedTeam fetches :id and checks that userID owns it.
func (h *TeamHandler) loadOwnedTeam(c echo.Context, userID uint, status int, denied string) (*models.Team, error) {
	team, err := h.teamRepository.GetTeamByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, storeError(c, err, "Team not found")
	}
	if team.OwnerID != userID {
		return nil, echo.NewHTTPError(status, denied)
	}
	return team, nil
}

// CreateTeam creates a team owned by the caller, who becomes its first member
func (h *TeamHandler) CreateTeam(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		OwnerID:     userID,
		CreatedBy:   userID,
		Members:     []uint{userID},
	}
	if err := h.teamRepository.CreateTeam(ctx, team); err != nil {
		return storeError(c, err, "")
	}
	h.rewards.Record(ctx, userID, gamification.EventTeamCreated, models.SkillGeneral)

	return c.JSON(http.StatusCreated, h.teamView(ctx, team))
}

// GetMyTeams lists the teams the caller belongs to
func (h *TeamHandler) GetMyTeams(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	teams, err := h.teamRepository.ListByMember(ctx, userID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.teamViews(ctx, teams))
}

// GetTeam returns a team to one of its members
func (h *TeamHandler) GetTeam(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	team, err := h.teamRepository.GetTeamByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	if !team.HasMember(userID) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to view this team")
	}
	return c.JSON(http.StatusOK, h.teamView(ctx, team))
}

// UpdateTeam edits the team profile; owner only
func (h *TeamHandler) UpdateTeam(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdateTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	team, err := h.loadOwnedTeam(c, userID, http.StatusUnauthorized, "Only owner can update team")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.Logo != nil {
		team.Logo = *req.Logo
	}
	if err := h.teamRepository.UpdateTeam(ctx, team); err != nil {
		return storeError(c, err, "Team not found")
	}
	return c.JSON(http.StatusOK, h.teamView(ctx, team))
}

// DeleteTeam removes a team with its tasks and invitations; owner only
func (h *TeamHandler) DeleteTeam(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	team, err := h.loadOwnedTeam(c, userID, http.StatusUnauthorized, "Only owner can delete team")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.teamRepository.DeleteTeam(ctx, team.ID); err != nil {
		return storeError(c, err, "Team not found")
	}

	log := logrus.WithField("team_id", team.ID.Hex())
	if _, err := h.taskRepository.DeleteByTeam(ctx, team.ID); err != nil {
		log.WithError(err).Warn("failed to delete team tasks")
	}
	if err := h.invitationRepository.DeleteByTeam(ctx, team.ID.Hex()); err != nil {
		log.WithError(err).Warn("failed to delete team invitations")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Team deleted successfully"})
}

// InviteMember adds a registered user to the team by email; owner only
func (h *TeamHandler) InviteMember(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.InviteByEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	team, err := h.loadOwnedTeam(c, userID, http.StatusUnauthorized, "Only owner can invite members")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	invitee, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return storeError(c, err, "User not found")
	}
	if team.HasMember(invitee.ID) {
		return echo.NewHTTPError(http.StatusBadRequest, "User already in team")
	}

	updated, err := h.teamRepository.AddMember(ctx, team.ID, invitee.ID)
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	return c.JSON(http.StatusOK, h.teamView(ctx, updated))
}

// RemoveMember removes :memberId from the team. The owner may remove anyone
// but themselves; members may remove themselves.
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	memberID, err := parseUserIDParam(c, "memberId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	team, err := h.teamRepository.GetTeamByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	if team.OwnerID != userID && memberID != userID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}
	if memberID == team.OwnerID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot remove team owner")
	}

	updated, err := h.teamRepository.RemoveMember(ctx, team.ID, memberID)
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	return c.JSON(http.StatusOK, h.teamView(ctx, updated))
}
