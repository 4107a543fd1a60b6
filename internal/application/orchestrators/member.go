package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"kiba/internal/application/resolver"
	"kiba/internal/domain/member"
)

// MemberStoreForOrchestrator defines the store interface needed by
// member orchestrators.
type MemberStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id string) error
}

// MemberResolver attaches related records to a member.
type MemberResolver interface {
	ResolveMember(ctx context.Context, m member.Member) (resolver.ResolvedMember, error)
}

// CreateMemberInput carries input for the create member orchestrator.
// CategoryID and PositionID may be empty — unassigned is a valid state.
type CreateMemberInput struct {
	FullName   string
	Sex        string
	BirthDate  string
	Phone      string
	Email      string
	Address    string
	PhotoURL   string
	CategoryID string
	PositionID string
	Status     string
}

// CreateMemberDeps holds dependencies for CreateMember.
type CreateMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
	Resolver    MemberResolver
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateMember registers a new club member.
// PRE: FullName is non-empty; Status, if given, is in the closed set
// POST: Member persisted with Age derived from BirthDate at creation time;
// the returned member carries its resolved category and position
func ExecuteCreateMember(ctx context.Context, input CreateMemberInput, deps CreateMemberDeps) (resolver.ResolvedMember, error) {
	status := input.Status
	if status == "" {
		status = member.StatusActive
	}

	m := member.Member{
		ID:         deps.GenerateID(),
		FullName:   input.FullName,
		Sex:        input.Sex,
		BirthDate:  input.BirthDate,
		Phone:      input.Phone,
		Email:      input.Email,
		Address:    input.Address,
		PhotoURL:   input.PhotoURL,
		CategoryID: input.CategoryID,
		PositionID: input.PositionID,
		Status:     status,
		CreatedAt:  deps.Now(),
	}
	m.Age = m.AgeAt(deps.Now())

	if err := m.Validate(); err != nil {
		return resolver.ResolvedMember{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return resolver.ResolvedMember{}, err
	}

	slog.Info("member_event", "event", "member_created", "member_id", m.ID, "status", m.Status)
	return deps.Resolver.ResolveMember(ctx, m)
}

// UpdateMemberInput carries input for the update member orchestrator.
// Nil pointers leave the corresponding field unchanged; pointing at the
// empty string clears it (unassigns a reference).
type UpdateMemberInput struct {
	MemberID   string
	FullName   *string
	Sex        *string
	BirthDate  *string
	Phone      *string
	Email      *string
	Address    *string
	PhotoURL   *string
	CategoryID *string
	PositionID *string
	Status     *string
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
	Resolver    MemberResolver
	Now         func() time.Time
}

// ExecuteUpdateMember applies a partial update to an existing member.
// PRE: The member exists
// POST: Only the provided fields change; a BirthDate change recomputes the
// stored Age; the returned member carries its resolved relations
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (resolver.ResolvedMember, error) {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return resolver.ResolvedMember{}, err
	}

	if input.FullName != nil {
		m.FullName = *input.FullName
	}
	if input.Sex != nil {
		m.Sex = *input.Sex
	}
	if input.BirthDate != nil {
		m.BirthDate = *input.BirthDate
		m.Age = m.AgeAt(deps.Now())
	}
	if input.Phone != nil {
		m.Phone = *input.Phone
	}
	if input.Email != nil {
		m.Email = *input.Email
	}
	if input.Address != nil {
		m.Address = *input.Address
	}
	if input.PhotoURL != nil {
		m.PhotoURL = *input.PhotoURL
	}
	if input.CategoryID != nil {
		m.CategoryID = *input.CategoryID
	}
	if input.PositionID != nil {
		m.PositionID = *input.PositionID
	}
	if input.Status != nil {
		m.Status = *input.Status
	}

	if err := m.Validate(); err != nil {
		return resolver.ResolvedMember{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return resolver.ResolvedMember{}, err
	}

	slog.Info("member_event", "event", "member_updated", "member_id", m.ID, "status", m.Status)
	return deps.Resolver.ResolveMember(ctx, m)
}

// DeleteMemberInput carries input for the delete member orchestrator.
type DeleteMemberInput struct {
	MemberID string
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	MemberStore MemberStoreForOrchestrator
}

// ExecuteDeleteMember removes a member permanently. The store cascades the
// member's payment and attendance rows.
// PRE: The member exists
// POST: The member row is gone; dependent rows are gone with it
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps DeleteMemberDeps) error {
	if err := deps.MemberStore.Delete(ctx, input.MemberID); err != nil {
		return err
	}

	slog.Info("member_event", "event", "member_deleted", "member_id", input.MemberID)
	return nil
}
