package resolver_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"kiba/internal/adapters/storage"
	"kiba/internal/application/resolver"
	"kiba/internal/domain/attendance"
	"kiba/internal/domain/category"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
	"kiba/internal/domain/position"
)

// mockCategoryStore implements CategoryLookupStore for testing.
type mockCategoryStore struct {
	categories map[string]category.Category
	err        error
}

func (m *mockCategoryStore) GetByID(_ context.Context, id string) (category.Category, error) {
	if m.err != nil {
		return category.Category{}, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return category.Category{}, fmt.Errorf("category not found: %w", storage.ErrNotFound)
	}
	return c, nil
}

// mockPositionStore implements PositionLookupStore for testing.
type mockPositionStore struct {
	positions map[string]position.Position
}

func (m *mockPositionStore) GetByID(_ context.Context, id string) (position.Position, error) {
	p, ok := m.positions[id]
	if !ok {
		return position.Position{}, fmt.Errorf("position not found: %w", storage.ErrNotFound)
	}
	return p, nil
}

// mockMemberStore implements MemberLookupStore for testing.
type mockMemberStore struct {
	members map[string]member.Member
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	mm, ok := m.members[id]
	if !ok {
		return member.Member{}, fmt.Errorf("member not found: %w", storage.ErrNotFound)
	}
	return mm, nil
}

func newResolver() (*resolver.Resolver, *mockCategoryStore, *mockPositionStore, *mockMemberStore) {
	cats := &mockCategoryStore{categories: map[string]category.Category{
		"c-1": {ID: "c-1", Name: "Sub-12", MinAge: 9, MaxAge: 12},
	}}
	poss := &mockPositionStore{positions: map[string]position.Position{
		"p-1": {ID: "p-1", Name: "Portero"},
	}}
	mems := &mockMemberStore{members: map[string]member.Member{
		"m-1": {ID: "m-1", FullName: "Juan Pérez", CategoryID: "c-1", PositionID: "p-1", Status: member.StatusActive},
	}}
	return resolver.New(cats, poss, mems), cats, poss, mems
}

// TestResolveMemberAttachesRelations tests full resolution.
func TestResolveMemberAttachesRelations(t *testing.T) {
	r, _, _, mems := newResolver()

	got, err := r.ResolveMember(context.Background(), mems.members["m-1"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category == nil || got.Category.Name != "Sub-12" {
		t.Errorf("Category = %+v, want Sub-12", got.Category)
	}
	if got.Position == nil || got.Position.Name != "Portero" {
		t.Errorf("Position = %+v, want Portero", got.Position)
	}
}

// TestResolveMemberUnsetReferences tests that empty FKs resolve to absent.
func TestResolveMemberUnsetReferences(t *testing.T) {
	r, _, _, _ := newResolver()

	got, err := r.ResolveMember(context.Background(), member.Member{ID: "m-2", FullName: "Ana García", Status: member.StatusActive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != nil || got.Position != nil {
		t.Errorf("expected absent relations, got %+v / %+v", got.Category, got.Position)
	}
}

// TestResolveMemberDanglingReferenceIsAbsent tests that a deleted category
// resolves to absent rather than an error.
func TestResolveMemberDanglingReferenceIsAbsent(t *testing.T) {
	r, _, _, _ := newResolver()

	got, err := r.ResolveMember(context.Background(), member.Member{
		ID: "m-3", FullName: "Luis Soto", CategoryID: "deleted", Status: member.StatusActive,
	})
	if err != nil {
		t.Fatalf("dangling reference must not error, got: %v", err)
	}
	if got.Category != nil {
		t.Errorf("expected nil Category for dangling reference, got %+v", got.Category)
	}
}

// TestResolveMemberStoreFailurePropagates tests that backend failure is not
// swallowed as absence.
func TestResolveMemberStoreFailurePropagates(t *testing.T) {
	r, cats, _, _ := newResolver()
	cats.err = storage.Unavailable("get category", errors.New("connection refused"))

	_, err := r.ResolveMember(context.Background(), member.Member{
		ID: "m-1", FullName: "Juan Pérez", CategoryID: "c-1", Status: member.StatusActive,
	})
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable to propagate, got %v", err)
	}
}

// TestResolvePaymentAttachesResolvedMember tests one-level-deep resolution.
func TestResolvePaymentAttachesResolvedMember(t *testing.T) {
	r, _, _, _ := newResolver()

	p := payment.Payment{ID: "pg-1", MemberID: "m-1", Amount: 50, Month: "marzo", Status: payment.StatusPending}
	got, err := r.ResolvePayment(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Member == nil {
		t.Fatal("expected resolved member on payment")
	}
	if got.Member.Category == nil || got.Member.Category.ID != "c-1" {
		t.Errorf("expected member's category to come along, got %+v", got.Member.Category)
	}
}

// TestResolvePaymentDeletedMemberIsAbsent tests absence for a deleted member.
func TestResolvePaymentDeletedMemberIsAbsent(t *testing.T) {
	r, _, _, _ := newResolver()

	p := payment.Payment{ID: "pg-1", MemberID: "gone", Amount: 50, Month: "marzo", Status: payment.StatusPending}
	got, err := r.ResolvePayment(context.Background(), p)
	if err != nil {
		t.Fatalf("deleted member must not error, got: %v", err)
	}
	if got.Member != nil {
		t.Errorf("expected nil Member, got %+v", got.Member)
	}
}

// TestResolveAttendanceAttachesMember tests attendance resolution.
func TestResolveAttendanceAttachesMember(t *testing.T) {
	r, _, _, _ := newResolver()

	a := attendance.Attendance{ID: "a-1", MemberID: "m-1", Date: "2026-08-28", Status: attendance.StatusPresent}
	got, err := r.ResolveAttendance(context.Background(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Member == nil || got.Member.FullName != "Juan Pérez" {
		t.Errorf("expected resolved member, got %+v", got.Member)
	}
}
