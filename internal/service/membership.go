package service

import (
	"context"
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
)

type membershipGate struct {
	memberships repositories.MembershipRepository
	logger      *slog.Logger
}

// NewMembershipGate creates the organization membership check
func NewMembershipGate(memberships repositories.MembershipRepository, logger *slog.Logger) services.MembershipGate {
	return &membershipGate{
		memberships: memberships,
		logger:      logger,
	}
}

// CheckMembership returns the caller's membership. An absent membership and
// an unknown organization are both PermissionDenied.
func (g *membershipGate) CheckMembership(ctx context.Context, userID, organizationID string) (*models.Membership, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if err := validation.Validate(organizationID, idRules...); err != nil {
		return nil, domain.Classify("check membership", validationError(err))
	}

	membership, err := g.memberships.Get(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			g.logger.Debug("membership denied", "user_id", userID, "organization_id", organizationID)
			return nil, domain.Forbiddenf("user is not a member of organization %s", organizationID)
		}
		return nil, domain.Classify("check membership", err)
	}

	return membership, nil
}
