package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pillflow-backend/events"
	"pillflow-backend/models"
	"pillflow-backend/store"
	"pillflow-backend/utils"

	"github.com/google/uuid"
)

type TeamService struct {
	*deps
}

type TeamMemberInput struct {
	Initials string  `json:"initials" binding:"required"`
	FullName string  `json:"fullName" binding:"required"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

type UpdateTeamMemberInput struct {
	TeamMemberInput
	IsActive *bool `json:"isActive" binding:"required"`
}

// normalize checks the fields and returns upper-cased initials.
func (in *TeamMemberInput) normalize() (string, error) {
	if !utils.ValidInitials(in.Initials) {
		return "", ErrInvalidInitialsFormat
	}
	if strings.TrimSpace(in.FullName) == "" {
		return "", invalid("fullName is required")
	}
	return utils.NormalizeInitials(in.Initials), nil
}

func (s *TeamService) ownedMember(ctx context.Context, userID, id uuid.UUID) (*models.TeamMember, error) {
	member, err := s.store.GetTeamMember(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notOwned("team member")
	}
	if err != nil {
		return nil, fmt.Errorf("load team member: %w", err)
	}
	if member.OwnerUserID != userID {
		return nil, notOwned("team member")
	}
	return member, nil
}

// initialsTaken reports whether another of the owner's members already
// uses initials. self is ignored.
func (s *TeamService) initialsTaken(ctx context.Context, userID, self uuid.UUID, initials string) (bool, error) {
	existing, err := s.store.FindTeamMemberByInitials(ctx, userID, initials)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up initials: %w", err)
	}
	return existing.ID != self, nil
}

func (s *TeamService) List(ctx context.Context) ([]models.TeamMember, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListTeamMembersByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

func (s *TeamService) Create(ctx context.Context, input TeamMemberInput) (uuid.UUID, error) {
	userID, err := caller(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	initials, err := input.normalize()
	if err != nil {
		return uuid.Nil, err
	}
	taken, err := s.initialsTaken(ctx, userID, uuid.Nil, initials)
	if err != nil {
		return uuid.Nil, err
	}
	if taken {
		return uuid.Nil, ErrDuplicateInitials
	}

	now := s.now()
	member := &models.TeamMember{
		ID:          uuid.New(),
		OwnerUserID: userID,
		Initials:    initials,
		FullName:    input.FullName,
		Email:       input.Email,
		Role:        input.Role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTeamMember(ctx, member); err != nil {
		return uuid.Nil, fmt.Errorf("create team member: %w", err)
	}
	s.publish(ctx, events.TeamMembers, events.OpCreate, member.ID, userID)
	return member.ID, nil
}

func (s *TeamService) Update(ctx context.Context, id uuid.UUID, input UpdateTeamMemberInput) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	member, err := s.ownedMember(ctx, userID, id)
	if err != nil {
		return err
	}
	initials, err := input.normalize()
	if err != nil {
		return err
	}
	if input.IsActive == nil {
		return invalid("isActive is required")
	}
	taken, err := s.initialsTaken(ctx, userID, id, initials)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateInitials
	}

	member.Initials = initials
	member.FullName = input.FullName
	member.Email = input.Email
	member.Role = input.Role
	member.IsActive = *input.IsActive
	member.UpdatedAt = s.now()
	if err := s.store.UpdateTeamMember(ctx, member); err != nil {
		return fmt.Errorf("update team member: %w", err)
	}
	s.publish(ctx, events.TeamMembers, events.OpUpdate, id, userID)
	return nil
}

func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	if _, err := s.ownedMember(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteTeamMember(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notOwned("team member")
		}
		return fmt.Errorf("delete team member: %w", err)
	}
	s.publish(ctx, events.TeamMembers, events.OpDelete, id, userID)
	return nil
}

func (s *TeamService) Toggle(ctx context.Context, id uuid.UUID) (bool, error) {
	userID, err := caller(ctx)
	if err != nil {
		return false, err
	}
	member, err := s.ownedMember(ctx, userID, id)
	if err != nil {
		return false, err
	}
	member.IsActive = !member.IsActive
	member.UpdatedAt = s.now()
	if err := s.store.UpdateTeamMember(ctx, member); err != nil {
		return false, fmt.Errorf("toggle team member: %w", err)
	}
	s.publish(ctx, events.TeamMembers, events.OpUpdate, id, userID)
	return member.IsActive, nil
}
