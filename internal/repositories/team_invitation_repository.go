package repositories

import (
	"context"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TeamInvitationRepository interface {
	CreateInvitation(ctx context.Context, invitation *models.TeamInvitation) error
	GetInvitationByID(ctx context.Context, id uint) (*models.TeamInvitation, error)
	HasPending(ctx context.Context, teamID string, receiverID uint) (bool, error)
	ListPendingForReceiver(ctx context.Context, receiverID uint) ([]models.TeamInvitation, error)
	// Resolve moves a pending invitation to status. It returns ErrConflict if
	// the invitation was already processed.
	Resolve(ctx context.Context, id uint, status models.InvitationStatus) error
	DeleteByTeam(ctx context.Context, teamID string) error
}

type PostgresTeamInvitationRepository struct {
	db *gorm.DB
}

func NewPostgresTeamInvitationRepository(db *gorm.DB) *PostgresTeamInvitationRepository {
	return &PostgresTeamInvitationRepository{db: db}
}

func (r *PostgresTeamInvitationRepository) CreateInvitation(ctx context.Context, invitation *models.TeamInvitation) error {
	if invitation.Status == "" {
		invitation.Status = models.InvitationPending
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(invitation).Error, "create invitation")
}

func (r *PostgresTeamInvitationRepository) GetInvitationByID(ctx context.Context, id uint) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, gormErr(err, "invitation")
	}
	return &inv, nil
}

func (r *PostgresTeamInvitationRepository) HasPending(ctx context.Context, teamID string, receiverID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("team_id = ? AND receiver_id = ? AND status = ?", teamID, receiverID, models.InvitationPending).
		Count(&count).Error
	return count > 0, errors.Wrap(err, "check pending invitation")
}

func (r *PostgresTeamInvitationRepository) ListPendingForReceiver(ctx context.Context, receiverID uint) ([]models.TeamInvitation, error) {
	var invitations []models.TeamInvitation
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, errors.Wrap(err, "list invitations")
}

func (r *PostgresTeamInvitationRepository) Resolve(ctx context.Context, id uint, status models.InvitationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Update("status", status)
	if res.Error != nil {
		return errors.Wrap(res.Error, "resolve invitation")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrConflict, "invitation already processed")
	}
	return nil
}

// DeleteByTeam removes the invitations of a deleted team.
func (r *PostgresTeamInvitationRepository) DeleteByTeam(ctx context.Context, teamID string) error {
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).Delete(&models.TeamInvitation{}).Error
	return errors.Wrap(err, "delete team invitations")
}
