// Package resolver attaches one level of related entities to freshly read
// or written records. Missing or dangling foreign keys resolve to an
// explicit absent value (nil pointer), never to an error — presentation
// layers render absent relations as "not available."
package resolver

import (
	"context"
	"errors"

	"kiba/internal/adapters/storage"
	"kiba/internal/domain/attendance"
	"kiba/internal/domain/category"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
	"kiba/internal/domain/position"
)

// CategoryLookupStore defines the category store interface needed for resolution.
type CategoryLookupStore interface {
	GetByID(ctx context.Context, id string) (category.Category, error)
}

// PositionLookupStore defines the position store interface needed for resolution.
type PositionLookupStore interface {
	GetByID(ctx context.Context, id string) (position.Position, error)
}

// MemberLookupStore defines the member store interface needed for resolution.
type MemberLookupStore interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// ResolvedMember is a member with its category and position attached.
// A nil pointer means the reference is unset or dangling.
type ResolvedMember struct {
	member.Member
	Category *category.Category
	Position *position.Position
}

// ResolvedPayment is a payment with its member (itself resolved one level)
// attached. Resolution stops there — the member's payments are not pulled in.
type ResolvedPayment struct {
	payment.Payment
	Member *ResolvedMember
}

// ResolvedAttendance is an attendance row with its resolved member attached.
type ResolvedAttendance struct {
	attendance.Attendance
	Member *ResolvedMember
}

// Resolver looks up related records by foreign key.
type Resolver struct {
	categories CategoryLookupStore
	positions  PositionLookupStore
	members    MemberLookupStore
}

// New creates a Resolver over the given lookup stores.
func New(categories CategoryLookupStore, positions PositionLookupStore, members MemberLookupStore) *Resolver {
	return &Resolver{categories: categories, positions: positions, members: members}
}

// ResolveMember attaches the member's category and position.
// POST: Absent or dangling references yield nil, not an error; only a
// store failure (ErrUnavailable) propagates
func (r *Resolver) ResolveMember(ctx context.Context, m member.Member) (ResolvedMember, error) {
	resolved := ResolvedMember{Member: m}

	if m.CategoryID != "" {
		c, err := r.categories.GetByID(ctx, m.CategoryID)
		switch {
		case err == nil:
			resolved.Category = &c
		case errors.Is(err, storage.ErrNotFound):
			// dangling reference renders as "not available"
		default:
			return ResolvedMember{}, err
		}
	}

	if m.PositionID != "" {
		p, err := r.positions.GetByID(ctx, m.PositionID)
		switch {
		case err == nil:
			resolved.Position = &p
		case errors.Is(err, storage.ErrNotFound):
		default:
			return ResolvedMember{}, err
		}
	}

	return resolved, nil
}

// ResolvePayment attaches the payment's member, itself resolved one level.
// POST: A deleted member yields a nil Member, not an error
func (r *Resolver) ResolvePayment(ctx context.Context, p payment.Payment) (ResolvedPayment, error) {
	resolved := ResolvedPayment{Payment: p}
	m, err := r.resolveMemberRef(ctx, p.MemberID)
	if err != nil {
		return ResolvedPayment{}, err
	}
	resolved.Member = m
	return resolved, nil
}

// ResolveAttendance attaches the attendance row's member, itself resolved
// one level.
// POST: A deleted member yields a nil Member, not an error
func (r *Resolver) ResolveAttendance(ctx context.Context, a attendance.Attendance) (ResolvedAttendance, error) {
	resolved := ResolvedAttendance{Attendance: a}
	m, err := r.resolveMemberRef(ctx, a.MemberID)
	if err != nil {
		return ResolvedAttendance{}, err
	}
	resolved.Member = m
	return resolved, nil
}

// resolveMemberRef looks up a member by id and resolves it one level.
func (r *Resolver) resolveMemberRef(ctx context.Context, memberID string) (*ResolvedMember, error) {
	if memberID == "" {
		return nil, nil
	}
	m, err := r.members.GetByID(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	resolved, err := r.ResolveMember(ctx, m)
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
