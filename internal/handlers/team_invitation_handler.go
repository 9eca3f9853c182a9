package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SendInvitation invites a user to join the team; owner only
func (h *TeamHandler) SendInvitation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.SendInvitationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	team, err := h.loadOwnedTeam(c, userID, http.StatusForbidden, "Only team owner can send invitations")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if team.HasMember(req.ReceiverID) {
		return echo.NewHTTPError(http.StatusBadRequest, "User is already a team member")
	}
	if _, err := h.userRepository.GetUserByID(ctx, req.ReceiverID); err != nil {
		return storeError(c, err, "User not found")
	}

	pending, err := h.invitationRepository.HasPending(ctx, team.ID.Hex(), req.ReceiverID)
	if err != nil {
		return storeError(c, err, "")
	}
	if pending {
		return echo.NewHTTPError(http.StatusBadRequest, "Invitation already sent")
	}

	invitation := &models.TeamInvitation{
		TeamID:     team.ID.Hex(),
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Status:     models.InvitationPending,
		Message:    req.Message,
	}
	if err := h.invitationRepository.CreateInvitation(ctx, invitation); err != nil {
		return storeError(c, err, "")
	}

	h.notifier.Notify(models.Notification{
		RecipientID: req.ReceiverID,
		SenderID:    uintPtr(userID),
		Type:        models.NotificationTeamInvitation,
		Message:     fmt.Sprintf("%s invited you to join %s", actorName(c), team.Name),
		Link:        "/teams/invitations",
	})

	profiles := compactUsers(ctx, h.userRepository, []uint{userID})
	return c.JSON(http.StatusCreated, models.TeamInvitationView{
		TeamInvitation: *invitation,
		Team:           team,
		Sender:         compactPtr(profiles, userID),
	})
}

// GetMyInvitations lists the caller's pending invitations
func (h *TeamHandler) GetMyInvitations(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	invitations, err := h.invitationRepository.ListPendingForReceiver(ctx, userID)
	if err != nil {
		return storeError(c, err, "")
	}

	senders := make([]uint, 0, len(invitations))
	for _, inv := range invitations {
		senders = append(senders, inv.SenderID)
	}
	profiles := compactUsers(ctx, h.userRepository, senders)

	views := make([]models.TeamInvitationView, 0, len(invitations))
	for _, inv := range invitations {
		view := models.TeamInvitationView{TeamInvitation: inv, Sender: compactPtr(profiles, inv.SenderID)}
		team, err := h.teamRepository.GetTeamByID(ctx, inv.TeamID)
		if err != nil {
			if !repositories.IsNotFound(err) {
				return storeError(c, err, "")
			}
			// Team deleted after the invitation was sent
			continue
		}
		view.Team = team
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, views)
}

// loadInvitation fetches :id and checks that userID received it.
func (h *TeamHandler) loadInvitation(c echo.Context, userID uint) (*models.TeamInvitation, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Invitation not found")
	}
	invitation, err := h.invitationRepository.GetInvitationByID(c.Request().Context(), uint(id))
	if err != nil {
		return nil, storeError(c, err, "Invitation not found")
	}
	if invitation.ReceiverID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	}
	if invitation.Status != models.InvitationPending {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invitation already processed")
	}
	return invitation, nil
}

// resolveInvitation moves a pending invitation to status exactly once.
func (h *TeamHandler) resolveInvitation(c echo.Context, invitation *models.TeamInvitation, status models.InvitationStatus) error {
	if err := h.invitationRepository.Resolve(c.Request().Context(), invitation.ID, status); err != nil {
		if errors.Cause(err) == repositories.ErrConflict {
			return echo.NewHTTPError(http.StatusBadRequest, "Invitation already processed")
		}
		return storeError(c, err, "Invitation not found")
	}
	invitation.Status = status
	return nil
}

// AcceptInvitation joins the caller to the inviting team
func (h *TeamHandler) AcceptInvitation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	invitation, err := h.loadInvitation(c, userID)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	team, err := h.teamRepository.GetTeamByID(ctx, invitation.TeamID)
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	if err := h.resolveInvitation(c, invitation, models.InvitationAccepted); err != nil {
		return err
	}

	updated, err := h.teamRepository.AddMember(ctx, team.ID, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"team_id":       team.ID.Hex(),
			"invitation_id": invitation.ID,
		}).Error("accepted invitation but failed to add member")
		return storeError(c, err, "Team not found")
	}

	h.notifier.Notify(models.Notification{
		RecipientID: updated.OwnerID,
		SenderID:    uintPtr(userID),
		Type:        models.NotificationTeamJoin,
		Message:     fmt.Sprintf("%s accepted your team invitation", actorName(c)),
		Link:        "/team/" + updated.ID.Hex(),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Invitation accepted",
		"team":    h.teamView(ctx, updated),
	})
}

// RejectInvitation declines an invitation
func (h *TeamHandler) RejectInvitation(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	invitation, err := h.loadInvitation(c, userID)
	if err != nil {
		return err
	}
	if err := h.resolveInvitation(c, invitation, models.InvitationRejected); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Invitation rejected"})
}
