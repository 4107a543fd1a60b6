package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"kiba/internal/adapters/storage"
	attendanceStore "kiba/internal/adapters/storage/attendance"
	categoryStore "kiba/internal/adapters/storage/category"
	memberStore "kiba/internal/adapters/storage/member"
	paymentStore "kiba/internal/adapters/storage/payment"
	positionStore "kiba/internal/adapters/storage/position"
	userStore "kiba/internal/adapters/storage/user"
	"kiba/internal/domain/attendance"
	"kiba/internal/domain/category"
	"kiba/internal/domain/member"
	"kiba/internal/domain/payment"
	"kiba/internal/domain/position"
	"kiba/internal/domain/user"
)

// openTestDB creates an in-memory SQLite database with the full schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// One in-memory SQLite database exists per connection; pin the pool to a
	// single connection so every statement sees the same schema.
	db.SetMaxOpenConns(1)
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return db
}

// TestInitDBCreatesTables verifies the schema contains every relation.
func TestInitDBCreatesTables(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	want := []string{"attendance", "category", "member", "payment", "position", "user"}
	if len(names) != len(want) {
		t.Fatalf("tables = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("table[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

// TestEmptyListsAreNotErrors verifies an empty table yields an empty slice.
func TestEmptyListsAreNotErrors(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	categories, err := categoryStore.NewSQLiteStore(db).List(ctx)
	if err != nil {
		t.Fatalf("List categories on empty table: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("expected empty slice, got %d rows", len(categories))
	}

	members, err := memberStore.NewSQLiteStore(db).List(ctx)
	if err != nil {
		t.Fatalf("List members on empty table: %v", err)
	}
	if members == nil || len(members) != 0 {
		t.Errorf("expected non-nil empty slice, got %v", members)
	}
}

// TestCategoryRoundTrip verifies create→get field equality and ordering.
func TestCategoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := categoryStore.NewSQLiteStore(db)

	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	older := category.Category{ID: "c-2", Name: "Sub-16", MinAge: 13, MaxAge: 16, Description: "juvenil", CreatedAt: created}
	younger := category.Category{ID: "c-1", Name: "Sub-12", MinAge: 9, MaxAge: 12, CreatedAt: created}
	for _, c := range []category.Category{older, younger} {
		if err := store.Save(ctx, c); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := store.GetByID(ctx, "c-2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != older {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, older)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c-1" || list[1].ID != "c-2" {
		t.Errorf("expected min_age ascending order, got %+v", list)
	}
}

// TestPositionRoundTrip verifies create→get equality and name ordering.
func TestPositionRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := positionStore.NewSQLiteStore(db)

	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for _, p := range []position.Position{
		{ID: "p-1", Name: "Portero", CreatedAt: created},
		{ID: "p-2", Name: "Delantero", Description: "ataque", CreatedAt: created},
	} {
		if err := store.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Delantero" || list[1].Name != "Portero" {
		t.Errorf("expected name ascending order, got %+v", list)
	}
}

// TestMemberRoundTrip verifies create→get equality, including unset refs.
func TestMemberRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := memberStore.NewSQLiteStore(db)

	m := member.Member{
		ID:        "m-1",
		FullName:  "Juan Pérez",
		Sex:       "M",
		BirthDate: "2012-05-20",
		Age:       14,
		Phone:     "555-0101",
		Email:     "juan@example.com",
		Address:   "Calle 1",
		Status:    member.StatusActive,
		CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "m-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != m {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
	if got.CategoryID != "" || got.PositionID != "" {
		t.Errorf("unset references should stay empty, got %q/%q", got.CategoryID, got.PositionID)
	}
}

// TestMemberBrokenReferenceFailsSave verifies a broken foreign key is
// classified as invalid input, not a store outage.
func TestMemberBrokenReferenceFailsSave(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := memberStore.NewSQLiteStore(db)

	m := member.Member{
		ID:         "m-1",
		FullName:   "Juan Pérez",
		CategoryID: "no-such-category",
		Status:     member.StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
	err := store.Save(ctx, m)
	if err == nil {
		t.Fatal("expected foreign-key failure saving member with broken category ref")
	}
	if !errors.Is(err, storage.ErrConstraint) {
		t.Errorf("expected ErrConstraint wrapping, got %v", err)
	}
	if errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("constraint failure must not read as a store outage: %v", err)
	}
}

// TestUserDuplicateEmailFailsSave verifies the unique-key violation carries
// the same constraint classification.
func TestUserDuplicateEmailFailsSave(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := userStore.NewSQLiteStore(db)

	created := time.Now().UTC().Truncate(time.Second)
	if err := store.Save(ctx, user.User{ID: "u-1", Name: "Admin", Email: "admin@kiba.com", Password: "admin123", Role: user.RoleAdmin, CreatedAt: created}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := store.Save(ctx, user.User{ID: "u-2", Name: "Clone", Email: "admin@kiba.com", Password: "other", Role: user.RoleUser, CreatedAt: created})
	if !errors.Is(err, storage.ErrConstraint) {
		t.Errorf("expected ErrConstraint on duplicate email, got %v", err)
	}
}

// TestMemberDeleteCascades verifies member delete and the store-side cascade.
func TestMemberDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	members := memberStore.NewSQLiteStore(db)
	payments := paymentStore.NewSQLiteStore(db)

	created := time.Now().UTC().Truncate(time.Second)
	m := member.Member{ID: "m-1", FullName: "Juan Pérez", Status: member.StatusActive, CreatedAt: created}
	if err := members.Save(ctx, m); err != nil {
		t.Fatalf("Save member: %v", err)
	}
	p := payment.Payment{ID: "pg-1", MemberID: "m-1", Amount: 50, Month: "marzo", Year: 2026, Status: payment.StatusPending, CreatedAt: created}
	if err := payments.Save(ctx, p); err != nil {
		t.Fatalf("Save payment: %v", err)
	}

	if err := members.Delete(ctx, "m-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := members.GetByID(ctx, "m-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	rest, err := payments.List(ctx)
	if err != nil {
		t.Fatalf("List payments: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("expected cascade to remove payments, %d remain", len(rest))
	}

	if err := members.Delete(ctx, "m-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting missing member, got %v", err)
	}
}

// TestPaymentRoundTripPaidAt verifies the nullable paid_at column.
func TestPaymentRoundTripPaidAt(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	members := memberStore.NewSQLiteStore(db)
	store := paymentStore.NewSQLiteStore(db)

	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if err := members.Save(ctx, member.Member{ID: "m-1", FullName: "Juan Pérez", Status: member.StatusActive, CreatedAt: created}); err != nil {
		t.Fatalf("Save member: %v", err)
	}

	pending := payment.Payment{ID: "pg-1", MemberID: "m-1", Amount: 75.5, Month: "agosto", Year: 2026, Method: "efectivo", Status: payment.StatusPending, CreatedAt: created}
	if err := store.Save(ctx, pending); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "pg-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PaidAt != nil {
		t.Errorf("expected nil PaidAt on pending payment, got %v", got.PaidAt)
	}

	paidAt := created.Add(2 * time.Hour)
	pending.Status = payment.StatusPaid
	pending.PaidAt = &paidAt
	if err := store.Save(ctx, pending); err != nil {
		t.Fatalf("Save paid: %v", err)
	}
	got, err = store.GetByID(ctx, "pg-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PaidAt == nil || !got.PaidAt.Equal(paidAt) {
		t.Errorf("PaidAt = %v, want %v", got.PaidAt, paidAt)
	}
}

// TestPaymentDuplicatePeriodAllowed verifies no (member, month, year) key exists.
func TestPaymentDuplicatePeriodAllowed(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	members := memberStore.NewSQLiteStore(db)
	store := paymentStore.NewSQLiteStore(db)

	created := time.Now().UTC()
	if err := members.Save(ctx, member.Member{ID: "m-1", FullName: "Juan Pérez", Status: member.StatusActive, CreatedAt: created}); err != nil {
		t.Fatalf("Save member: %v", err)
	}
	for _, id := range []string{"pg-1", "pg-2"} {
		p := payment.Payment{ID: id, MemberID: "m-1", Amount: 50, Month: "marzo", Year: 2026, Status: payment.StatusPending, CreatedAt: created}
		if err := store.Save(ctx, p); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	list, err := store.ListByMemberID(ctx, "m-1")
	if err != nil {
		t.Fatalf("ListByMemberID: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 rows for the same period, got %d", len(list))
	}
}

// TestAttendanceOrdering verifies date-descending order with insertion order
// preserved within a date.
func TestAttendanceOrdering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	members := memberStore.NewSQLiteStore(db)
	store := attendanceStore.NewSQLiteStore(db)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if err := members.Save(ctx, member.Member{ID: "m-1", FullName: "Juan Pérez", Status: member.StatusActive, CreatedAt: base}); err != nil {
		t.Fatalf("Save member: %v", err)
	}

	rows := []attendance.Attendance{
		{ID: "a-1", MemberID: "m-1", Date: "2026-08-01", Status: attendance.StatusAbsent, CreatedAt: base},
		{ID: "a-2", MemberID: "m-1", Date: "2026-08-02", Status: attendance.StatusPresent, CreatedAt: base.Add(time.Minute)},
		{ID: "a-3", MemberID: "m-1", Date: "2026-08-02", Status: attendance.StatusExcused, Notes: "lesión", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range rows {
		if err := store.Save(ctx, a); err != nil {
			t.Fatalf("Save %s: %v", a.ID, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []string{"a-2", "a-3", "a-1"}
	if len(list) != len(wantOrder) {
		t.Fatalf("expected %d rows, got %d", len(wantOrder), len(list))
	}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Errorf("list[%d].ID = %s, want %s", i, list[i].ID, id)
		}
	}
}

// TestUserCredentialLookup verifies the exact-equality credential query.
func TestUserCredentialLookup(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := userStore.NewSQLiteStore(db)

	u := user.User{ID: "u-1", Name: "Admin", Email: "admin@kiba.com", Password: "admin123", Role: user.RoleAdmin, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := store.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByCredentials(ctx, "admin@kiba.com", "admin123")
	if err != nil {
		t.Fatalf("GetByCredentials: %v", err)
	}
	if got.ID != "u-1" {
		t.Errorf("got user %s, want u-1", got.ID)
	}

	if _, err := store.GetByCredentials(ctx, "admin@kiba.com", "wrong"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on wrong password, got %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}
