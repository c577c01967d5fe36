// Package syncstore persists portal snapshots and reconciles freshly
// scraped data against them, writing to the database only when the
// incoming data actually differs from what is stored.
package syncstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"pesuassist-backend/lib/syncstore/db"
	"pesuassist-backend/lib/timezone"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("syncstore")

type Domain string

const (
	DomainSemesters  Domain = "semesters"
	DomainSubjects   Domain = "subjects"
	DomainUnits      Domain = "units"
	DomainClasses    Domain = "classes"
	DomainAttendance Domain = "attendance"
	DomainResults    Domain = "results"
	DomainTimetable  Domain = "timetable"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Key identifies one snapshot: a user's view of one domain under one
// scope (e.g. subjects are scoped per semester, attendance per user).
type Key struct {
	User   string
	Domain Domain
	// Scope may be empty for domains without a parent, like semesters.
	Scope string
}

// Codec tells Reconcile how to identify and compare records of a given
// domain type.
type Codec[T any] struct {
	// NaturalKey returns the stable identity of a record, so records
	// are matched across syncs regardless of ordering.
	NaturalKey func(T) string
	// Ignore holds cmp options for fields that should not count as
	// changes, such as values recomputed on every scrape.
	Ignore cmp.Options
}

type Result[T any] struct {
	// Changed reports whether the incoming data differed from the
	// stored snapshot and a write took place.
	Changed bool
	Stored  []T
}

// Load returns the stored snapshot for a key along with the time it was
// last written. A key that has never been written returns an empty
// slice and a zero time.
func Load[T any](ctx context.Context, s Store, key Key) ([]T, time.Time, error) {
	rows, err := s.qry.GetSnapshotRecords(ctx, db.GetSnapshotRecordsParams{
		User:   key.User,
		Domain: string(key.Domain),
		Scope:  key.Scope,
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	stored := decodeRecords[T](ctx, rows)

	updatedAt, err := s.qry.GetSnapshotMeta(ctx, db.GetSnapshotMetaParams{
		User:   key.User,
		Domain: string(key.Domain),
		Scope:  key.Scope,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return stored, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return stored, time.Unix(updatedAt, 0), nil
}

func decodeRecords[T any](ctx context.Context, rows []db.SnapshotRecord) []T {
	stored := make([]T, 0, len(rows))
	for _, r := range rows {
		var v T
		err := json.Unmarshal([]byte(r.Data), &v)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to unmarshal snapshot record",
				"domain", r.Domain, "key", r.NaturalKey, "err", err,
			)
			continue
		}
		stored = append(stored, v)
	}
	return stored
}

// Reconcile compares incoming records against the stored snapshot for
// key and persists them only when something differs. Records are
// matched by natural key, so reordering alone never counts as a change.
//
// For the subjects domain a snapshot already written after loginStart
// is considered fresh for the current session and is returned as-is
// without comparing. Other domains ignore loginStart.
func Reconcile[T any](ctx context.Context, s Store, key Key, incoming []T, codec Codec[T], loginStart time.Time) (Result[T], error) {
	ctx, span := tracer.Start(ctx, "Reconcile")
	defer span.End()

	fail := func(err error) (Result[T], error) {
		span.SetStatus(codes.Error, err.Error())
		return Result[T]{}, err
	}

	rows, err := s.qry.GetSnapshotRecords(ctx, db.GetSnapshotRecordsParams{
		User:   key.User,
		Domain: string(key.Domain),
		Scope:  key.Scope,
	})
	if err != nil {
		return fail(err)
	}
	stored := decodeRecords[T](ctx, rows)

	if key.Domain == DomainSubjects && !loginStart.IsZero() && len(rows) > 0 {
		updatedAt, err := s.qry.GetSnapshotMeta(ctx, db.GetSnapshotMetaParams{
			User:   key.User,
			Domain: string(key.Domain),
			Scope:  key.Scope,
		})
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fail(err)
		}
		if err == nil && time.Unix(updatedAt, 0).After(loginStart) {
			return Result[T]{Changed: false, Stored: stored}, nil
		}
	}

	if snapshotsEqual(stored, incoming, codec) {
		return Result[T]{Changed: false, Stored: stored}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(err)
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	now := timezone.Now().Unix()
	seen := make(map[string]bool, len(incoming))
	for _, v := range incoming {
		data, err := json.Marshal(v)
		if err != nil {
			return fail(err)
		}
		naturalKey := codec.NaturalKey(v)
		seen[naturalKey] = true
		err = txqry.UpsertSnapshotRecord(ctx, db.UpsertSnapshotRecordParams{
			User:       key.User,
			Domain:     string(key.Domain),
			Scope:      key.Scope,
			NaturalKey: naturalKey,
			Data:       string(data),
			UpdatedAt:  now,
		})
		if err != nil {
			return fail(err)
		}
	}
	for _, r := range rows {
		if seen[r.NaturalKey] {
			continue
		}
		err := txqry.DeleteSnapshotRecord(ctx, db.DeleteSnapshotRecordParams{
			User:       key.User,
			Domain:     string(key.Domain),
			Scope:      key.Scope,
			NaturalKey: r.NaturalKey,
		})
		if err != nil {
			return fail(err)
		}
	}
	err = txqry.UpsertSnapshotMeta(ctx, db.UpsertSnapshotMetaParams{
		User:      key.User,
		Domain:    string(key.Domain),
		Scope:     key.Scope,
		UpdatedAt: now,
	})
	if err != nil {
		return fail(err)
	}
	err = tx.Commit()
	if err != nil {
		return fail(err)
	}

	return Result[T]{Changed: true, Stored: incoming}, nil
}

func snapshotsEqual[T any](stored, incoming []T, codec Codec[T]) bool {
	if len(stored) != len(incoming) {
		return false
	}
	byKey := make(map[string]T, len(stored))
	for _, v := range stored {
		byKey[codec.NaturalKey(v)] = v
	}
	for _, v := range incoming {
		prev, ok := byKey[codec.NaturalKey(v)]
		if !ok || !cmp.Equal(prev, v, codec.Ignore...) {
			return false
		}
	}
	return true
}
