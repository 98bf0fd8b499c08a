package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// MembershipResolver answers who belongs to a group and keeps membership
// rows unique.
type MembershipResolver struct {
	groups storage.GroupStore
	users  storage.UserStore
}

// NewMembershipResolver creates a resolver over the given stores.
func NewMembershipResolver(groups storage.GroupStore, users storage.UserStore) *MembershipResolver {
	return &MembershipResolver{groups: groups, users: users}
}

// MembersOf returns the current members of a group.
// Fails with ErrNotFound when the group does not exist.
func (r *MembershipResolver) MembersOf(ctx context.Context, groupID string) ([]*models.User, error) {
	if _, err := r.groups.GetGroup(ctx, groupID); err != nil {
		return nil, storeError(err, "get group")
	}

	members, err := r.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, storeError(err, "list members")
	}
	return members, nil
}

// MemberIDs is MembersOf reduced to user IDs.
func (r *MembershipResolver) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	members, err := r.MembersOf(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids, nil
}

// IsMember reports whether the user belongs to the group.
// Fails with ErrNotFound when the group does not exist.
func (r *MembershipResolver) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	if _, err := r.groups.GetGroup(ctx, groupID); err != nil {
		return false, storeError(err, "get group")
	}

	ok, err := r.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, storeError(err, "check membership")
	}
	return ok, nil
}

// AssignMembers ensures every existing user in userIDs is a member of the
// group. Unknown user IDs are skipped and assigning an existing member is a
// no-op. Fails with ErrNoValidUsers when none of the IDs resolve.
func (r *MembershipResolver) AssignMembers(ctx context.Context, groupID string, userIDs []string) (int, error) {
	if _, err := r.groups.GetGroup(ctx, groupID); err != nil {
		return 0, storeError(err, "get group")
	}

	requested := dedupe(userIDs)
	users, err := r.users.GetUsersByIDs(ctx, requested)
	if err != nil {
		return 0, storeError(err, "get users")
	}
	if len(users) == 0 {
		return 0, ErrNoValidUsers
	}

	// Keep the caller's order for the inserts
	valid := make([]string, 0, len(users))
	for _, id := range requested {
		if _, ok := users[id]; ok {
			valid = append(valid, id)
		}
	}

	added, err := r.groups.AddMembers(ctx, groupID, valid)
	if err != nil {
		return 0, storeError(err, "add members")
	}

	slog.Info("Members assigned",
		"group_id", groupID,
		"requested", len(userIDs),
		"valid", len(valid),
		"added", added,
	)
	return added, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// checkMember returns ErrForbidden unless userID belongs to groupID.
func (r *MembershipResolver) checkMember(ctx context.Context, userID, groupID string) error {
	ok, err := r.IsMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s: %w", userID, ErrForbidden)
	}
	return nil
}
