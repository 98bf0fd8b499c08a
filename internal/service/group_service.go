package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// GroupDetails is a group together with its current members.
type GroupDetails struct {
	Group   *models.Group
	Members []*models.User
}

// GroupService manages expense groups and their membership.
type GroupService struct {
	store    storage.Store
	resolver *MembershipResolver
}

// NewGroupService creates a new group service.
func NewGroupService(store storage.Store, resolver *MembershipResolver) *GroupService {
	return &GroupService{store: store, resolver: resolver}
}

// CreateGroup creates a group with the creator as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name, description string) (*models.Group, error) {
	slog.Info("CreateGroup request received", "name", name, "creator_id", creatorID)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if creatorID == "" {
		return nil, ErrUnauthorized
	}

	group := &models.Group{Name: name, Description: description}
	if err := s.store.CreateGroup(ctx, group, creatorID); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storeError(err, "create group")
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name)
	return group, nil
}

// GetGroup returns the group and its members. The caller must be a member.
func (s *GroupService) GetGroup(ctx context.Context, callerID, groupID string) (*GroupDetails, error) {
	slog.Info("GetGroup request received", "group_id", groupID)

	if err := s.resolver.checkMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(err, "get group")
	}
	members, err := s.resolver.MembersOf(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &GroupDetails{Group: group, Members: members}, nil
}

// AssignUsers adds users to the group. See MembershipResolver.AssignMembers.
func (s *GroupService) AssignUsers(ctx context.Context, groupID string, userIDs []string) (int, error) {
	slog.Info("AssignUsers request received", "group_id", groupID, "user_count", len(userIDs))

	// A missing group wins over an empty list
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return 0, storeError(err, "get group")
	}
	if len(userIDs) == 0 {
		return 0, fmt.Errorf("%w: user_ids is required", ErrInvalidInput)
	}
	return s.resolver.AssignMembers(ctx, groupID, userIDs)
}

// ListGroupExpenses returns every expense recorded in the group, oldest
// first. The caller must be a member.
func (s *GroupService) ListGroupExpenses(ctx context.Context, callerID, groupID string) ([]models.ExpenseWithGroup, error) {
	slog.Info("ListGroupExpenses request received", "group_id", groupID)

	if err := s.resolver.checkMember(ctx, callerID, groupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListGroupExpenses failed", "group_id", groupID, "error", err)
		return nil, storeError(err, "list expenses")
	}

	slog.Info("ListGroupExpenses successful", "group_id", groupID, "count", len(expenses))
	return expenses, nil
}
