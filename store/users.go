package store

import (
	"context"
	"strings"
	"time"

	"github.com/teamplane/teamplane/internal/ident"
)

// ListUsers returns every user profile in the domain, ordered by creation
// time.
func (s *Store) ListUsers(ctx context.Context, domain string) ([]UserProfile, error) {
	recs, err := listRecords[UserProfile](ctx, s, domain, EntityUser)
	if err != nil {
		return nil, err
	}
	users := make([]UserProfile, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.Data)
	}
	return users, nil
}

// GetUser returns the profile, or (nil, nil) when it does not exist.
func (s *Store) GetUser(ctx context.Context, domain, userID string) (*UserProfile, error) {
	rec, err := getRecord[UserProfile](ctx, s, domain, EntityUser, userID)
	if err != nil || rec == nil {
		return nil, err
	}
	user := rec.Data
	return &user, nil
}

// GetUserByEmail finds the profile with the given email, compared
// case-insensitively. Returns (nil, nil) when no profile matches. This is a
// full list plus linear scan; emails are not indexed.
func (s *Store) GetUserByEmail(ctx context.Context, domain, email string) (*UserProfile, error) {
	users, err := s.ListUsers(ctx, domain)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			user := users[i]
			return &user, nil
		}
	}
	return nil, nil
}

// CreateUser creates a profile with the email lowercased. Fails with
// ErrDuplicateEmail when another profile in the domain already uses the
// email. The check is a read before the write, so two concurrent creates of
// the same email can both pass it.
func (s *Store) CreateUser(ctx context.Context, domain string, in CreateUserInput) (*UserProfile, error) {
	existing, err := s.GetUserByEmail(ctx, domain, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	now := time.Now()
	ts := stamp(now)

	userID := in.UserID
	if userID == "" {
		userID = ident.NewAt("user", now)
	}
	role := in.Role
	if role == "" {
		role = RoleMember
	}

	user := UserProfile{
		UserID:    userID,
		Email:     strings.ToLower(in.Email),
		Name:      in.Name,
		Domain:    domain,
		Role:      role,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	rec := entityRecord(domain, EntityUser, userID, ts, ts, user)
	if err := putNew(ctx, s, rec); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser shallow-merges patch over the stored profile. userId and
// domain are re-pinned; a patched email is lowercased.
func (s *Store) UpdateUser(ctx context.Context, domain, userID string, patch UserPatch) (*UserProfile, error) {
	rec, err := getRecord[UserProfile](ctx, s, domain, EntityUser, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	prev := rec.Data
	next := prev

	if patch.Email != nil {
		next.Email = strings.ToLower(*patch.Email)
	}
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Role != nil {
		next.Role = *patch.Role
	}

	next.UserID = prev.UserID
	next.Domain = prev.Domain
	next.CreatedAt = prev.CreatedAt
	next.UpdatedAt = stamp(time.Now())

	newRec := entityRecord(domain, EntityUser, userID, rec.CreatedAt, next.UpdatedAt, next)
	if err := putVersioned(ctx, s, newRec, rec.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteUser removes the profile. Missing profiles are a no-op.
func (s *Store) DeleteUser(ctx context.Context, domain, userID string) error {
	return deleteRecord(ctx, s, domain, EntityUser, userID)
}
