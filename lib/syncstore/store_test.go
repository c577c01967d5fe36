package syncstore

import (
	"context"
	"testing"
	"time"

	"pesuassist-backend/lib/syncstore/db"
	"pesuassist-backend/lib/testutil"
	"pesuassist-backend/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

type course struct {
	Id        string
	Code      string
	Name      string
	FetchedAt string
}

func testCodec() Codec[course] {
	return Codec[course]{
		NaturalKey: func(c course) string { return c.Id },
		Ignore:     cmp.Options{cmpopts.IgnoreFields(course{}, "FetchedAt")},
	}
}

func openStore(t *testing.T) (Store, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "syncstore",
		DbSchema: db.Schema,
	})
	return NewStore(res.DB), cleanup
}

func sampleCourses() []course {
	return []course{
		{Id: "1652", Code: "UE22CS101", Name: "Python for Computational Problem Solving"},
		{Id: "1653", Code: "UE22MA101", Name: "Engineering Mathematics I"},
		{Id: "1654", Code: "UE22PH101", Name: "Engineering Physics"},
		{Id: "1655", Code: "UE22EC101", Name: "Elements of Electrical Engineering"},
		{Id: "1656", Code: "UE22ME101", Name: "Engineering Visualization"},
	}
}

func TestReconcileWritesOnlyOnChange(t *testing.T) {
	store, cleanup := openStore(t)
	defer cleanup()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	key := Key{User: "PES1202201234", Domain: DomainSemesters}
	codec := testCodec()

	res, err := Reconcile(ctx, store, key, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Len(t, res.Stored, 5)

	// pin timestamps so a second write would be visible
	_, err = store.db.Exec("UPDATE snapshot_record SET updated_at = 1")
	require.NoError(t, err)
	_, err = store.db.Exec("UPDATE snapshot_meta SET updated_at = 1")
	require.NoError(t, err)

	res, err = Reconcile(ctx, store, key, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Len(t, res.Stored, 5)

	var maxUpdated int64
	err = store.db.QueryRow("SELECT MAX(updated_at) FROM snapshot_record").Scan(&maxUpdated)
	require.NoError(t, err)
	require.Equal(t, int64(1), maxUpdated)
	err = store.db.QueryRow("SELECT MAX(updated_at) FROM snapshot_meta").Scan(&maxUpdated)
	require.NoError(t, err)
	require.Equal(t, int64(1), maxUpdated)
}

func TestReconcileOrderInsensitive(t *testing.T) {
	store, cleanup := openStore(t)
	defer cleanup()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	key := Key{User: "PES1202201234", Domain: DomainClasses, Scope: "1652"}
	codec := testCodec()

	res, err := Reconcile(ctx, store, key, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)
	require.True(t, res.Changed)

	reversed := sampleCourses()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	res, err = Reconcile(ctx, store, key, reversed, codec, time.Time{})
	require.NoError(t, err)
	require.False(t, res.Changed)
}

func TestReconcileIgnoredFields(t *testing.T) {
	store, cleanup := openStore(t)
	defer cleanup()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	key := Key{User: "PES1202201234", Domain: DomainAttendance}
	codec := testCodec()

	_, err := Reconcile(ctx, store, key, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)

	touched := sampleCourses()
	for i := range touched {
		touched[i].FetchedAt = "2026-08-31T10:00:00"
	}
	res, err := Reconcile(ctx, store, key, touched, codec, time.Time{})
	require.NoError(t, err)
	require.False(t, res.Changed)

	touched[2].Name = "Engineering Physics Lab"
	res, err = Reconcile(ctx, store, key, touched, codec, time.Time{})
	require.NoError(t, err)
	require.True(t, res.Changed)
}

func TestReconcileDeletesMissing(t *testing.T) {
	store, cleanup := openStore(t)
	defer cleanup()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	key := Key{User: "PES1202201234", Domain: DomainResults}
	codec := testCodec()

	_, err := Reconcile(ctx, store, key, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)

	trimmed := sampleCourses()[:3]
	res, err := Reconcile(ctx, store, key, trimmed, codec, time.Time{})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Len(t, res.Stored, 3)

	stored, _, err := Load[course](ctx, store, key)
	require.NoError(t, err)
	require.Len(t, stored, 3)
}

func TestSubjectsFreshnessGuard(t *testing.T) {
	store, cleanup := openStore(t)
	defer cleanup()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	key := Key{User: "PES1202201234", Domain: DomainSubjects, Scope: "2969"}
	codec := testCodec()

	_, err := Reconcile(ctx, store, key, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)

	changed := sampleCourses()
	changed[0].Name = "Renamed Course"

	// snapshot was written after this login began, so it is trusted
	// as-is and the differing scrape is not compared
	res, err := Reconcile(ctx, store, key, changed, codec, timezone.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, "Python for Computational Problem Solving", res.Stored[0].Name)

	// a later login sees a stale snapshot and reconciles normally
	res, err = Reconcile(ctx, store, key, changed, codec, timezone.Now().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, "Renamed Course", res.Stored[0].Name)

	// other domains never short-circuit, regardless of login time
	attKey := Key{User: "PES1202201234", Domain: DomainAttendance, Scope: "2969"}
	_, err = Reconcile(ctx, store, attKey, sampleCourses(), codec, time.Time{})
	require.NoError(t, err)
	res, err = Reconcile(ctx, store, attKey, changed, codec, timezone.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.True(t, res.Changed)
}
