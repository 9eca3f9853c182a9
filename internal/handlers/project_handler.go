package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/engagement"
	"github.com/anonto42/hackmate/backend/internal/feed"
	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectHandler handles HTTP requests related to projects
type ProjectHandler struct {
	projectRepository repositories.ProjectRepository
	comments          *CommentHandler
	users             CompactUserSource
	notifier          Notifier
	rewards           Rewards
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectRepo repositories.ProjectRepository, comments *CommentHandler, users CompactUserSource, notifier Notifier, rewards Rewards) *ProjectHandler {
	return &ProjectHandler{
		projectRepository: projectRepo,
		comments:          comments,
		users:             users,
		notifier:          notifier,
		rewards:           rewards,
	}
}

// RegisterProjectRoutes registers project routes
func (h *ProjectHandler) RegisterProjectRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.POST("", h.CreateProject, protect)
	g.GET("", h.GetProjects)
	g.GET("/user/:id", h.GetUserProjects)
	g.GET("/:id", h.GetProject)
	g.POST("/:id/like", h.LikeProject, protect)
	g.POST("/:id/comment", h.CommentOnProject, protect)
}

func (h *ProjectHandler) withCreators(c echo.Context, projects []models.Project) []models.ProjectView {
	ids := make([]uint, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.CreatorID)
	}
	profiles := compactUsers(c.Request().Context(), h.users, ids)

	views := make([]models.ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, models.ProjectView{Project: p, Creator: compactPtr(profiles, p.CreatorID)})
	}
	return views
}

// CreateProject publishes a project; the creator is always a team member
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	members := []uint{userID}
	for _, m := range req.TeamMembers {
		if m != userID {
			members = append(members, m)
		}
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		TeamID:      optionalObjectID(req.TeamID),
		CreatorID:   userID,
		TechStack:   req.TechStack,
		Images:      req.Images,
		VideoURL:    req.VideoURL,
		RepoLink:    req.RepoLink,
		LiveLink:    req.LiveLink,
		HackathonID: optionalObjectID(req.HackathonID),
		TeamMembers: members,
		Tags:        req.Tags,
	}
	if err := h.projectRepository.CreateProject(ctx, project); err != nil {
		return storeError(c, err, "")
	}
	h.rewards.Record(ctx, userID, gamification.EventProjectPublished, req.Category)

	return c.JSON(http.StatusCreated, h.withCreators(c, []models.Project{*project})[0])
}

// GetProjects is the discovery listing, filterable by tech stack, hackathon and featured flag
func (h *ProjectHandler) GetProjects(c echo.Context) error {
	p := pagination(c, feed.DefaultProjectLimit)

	filter := models.ProjectFilter{
		TechStack: c.QueryParam("techStack"),
		Featured:  c.QueryParam("featured") == "true",
	}
	if hackathon := c.QueryParam("hackathon"); hackathon != "" {
		oid, err := primitive.ObjectIDFromHex(hackathon)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid hackathon ID")
		}
		filter.HackathonID = &oid
	}

	projects, err := h.projectRepository.ListProjects(c.Request().Context(), filter, int64(p.Skip()), int64(p.Limit))
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"projects": h.withCreators(c, projects),
		"page":     p.Page,
		"hasMore":  p.HasMore(len(projects)),
	})
}

// GetUserProjects lists one creator's projects, newest first
func (h *ProjectHandler) GetUserProjects(c echo.Context) error {
	creatorID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	projects, err := h.projectRepository.ListByCreator(c.Request().Context(), creatorID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.withCreators(c, projects))
}

// GetProject returns a project and counts the view
func (h *ProjectHandler) GetProject(c echo.Context) error {
	project, err := h.projectRepository.ViewProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Project not found")
	}
	return c.JSON(http.StatusOK, h.withCreators(c, []models.Project{*project})[0])
}

// LikeProject toggles the caller's like on a project
func (h *ProjectHandler) LikeProject(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	project, err := h.projectRepository.GetProjectByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Project not found")
	}

	outcome, err := h.projectRepository.ToggleLike(ctx, project.ID.Hex(), userID)
	if err != nil {
		return storeError(c, err, "Project not found")
	}
	if outcome.Liked {
		h.notifier.Notify(models.Notification{
			RecipientID: outcome.OwnerID,
			SenderID:    uintPtr(userID),
			Type:        models.NotificationLikeProject,
			Message:     fmt.Sprintf("%s liked your project \"%s\"", actorName(c), project.Title),
			Link:        "/projects/" + project.ID.Hex(),
		})
	}

	return c.JSON(http.StatusOK, engagement.LikeResult{Likes: outcome.Count, Liked: outcome.Liked})
}

// CommentOnProject adds a comment to a project
func (h *ProjectHandler) CommentOnProject(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.projectRepository.GetProjectByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Project not found")
	}

	view, _, err := h.comments.addComment(c, commentTarget{
		Type:         models.TargetProject,
		ID:           project.ID,
		OwnerID:      project.CreatorID,
		Notification: models.NotificationCommentProject,
		Noun:         "project",
		Link:         "/projects/" + project.ID.Hex(),
	}, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}
