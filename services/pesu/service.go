// Package pesu wires the portal scraper to the snapshot store. Every
// operation logs in fresh, walks the portal, reconciles what it got
// against the stored snapshot and serves the stored side, falling back
// to the cache when the portal is unreachable mid-navigation.
package pesu

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/syncstore"
	"pesuassist-backend/lib/timezone"

	"go.opentelemetry.io/otel/codes"
)

// menu labels searched for on the profile page, matched
// case-insensitively as substrings
const (
	keywordCourses    = "courses"
	keywordAttendance = "attendance"
	keywordResults    = "results"
	keywordTimetable  = "time table"
)

type Credentials struct {
	Username string
	Password string
}

type ServiceOptions struct {
	Database    *sql.DB
	BaseUrl     string
	Credentials Credentials
}

type Service struct {
	baseUrl string
	creds   Credentials
	store   syncstore.Store
}

func NewService(opts ServiceOptions) Service {
	if opts.BaseUrl == "" {
		panic("empty portal base url")
	}
	return Service{
		baseUrl: opts.BaseUrl,
		creds:   opts.Credentials,
		store:   syncstore.NewStore(opts.Database),
	}
}

func (s Service) login(ctx context.Context) (*scraper.Client, error) {
	client, err := scraper.NewClient(ctx, scraper.ClientOptions{
		BaseUrl: s.baseUrl,
	})
	if err != nil {
		return nil, err
	}
	err = client.Login(ctx, s.creds.Username, s.creds.Password)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// cached serves the stored snapshot when a fetch died mid-navigation.
// Anything else, auth failures above all, must surface to the caller.
func cached[T any](ctx context.Context, store syncstore.Store, key syncstore.Key, cause error) ([]T, error) {
	var navErr *scraper.NavigationError
	if !errors.As(cause, &navErr) {
		return nil, cause
	}
	stored, updatedAt, err := syncstore.Load[T](ctx, store, key)
	if err != nil || len(stored) == 0 {
		return nil, cause
	}
	slog.WarnContext(
		ctx, "portal fetch failed, serving cached snapshot",
		"domain", key.Domain,
		"age", timezone.Now().Sub(updatedAt).String(),
		"err", cause,
	)
	return stored, nil
}

func (s Service) GetSemesters(ctx context.Context) ([]scraper.Semester, error) {
	ctx, span := tracer.Start(ctx, "GetSemesters")
	defer span.End()

	key := syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainSemesters}

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	fetched, err := client.FetchSemesters(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return cached[scraper.Semester](ctx, s.store, key, err)
	}
	res, err := syncstore.Reconcile(ctx, s.store, key, fetched, semesterCodec, client.LoginTime)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Stored, nil
}

func (s Service) GetSubjects(ctx context.Context, semId string) ([]scraper.Subject, error) {
	ctx, span := tracer.Start(ctx, "GetSubjects")
	defer span.End()

	key := syncstore.Key{
		User:   s.creds.Username,
		Domain: syncstore.DomainSubjects,
		Scope:  semId,
	}

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordCourses)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	fetched, err := client.FetchSubjects(ctx, menu, semId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return cached[scraper.Subject](ctx, s.store, key, err)
	}
	res, err := syncstore.Reconcile(ctx, s.store, key, fetched, subjectCodec, client.LoginTime)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Stored, nil
}

func (s Service) GetAttendance(ctx context.Context, semId string) ([]scraper.AttendanceRecord, error) {
	ctx, span := tracer.Start(ctx, "GetAttendance")
	defer span.End()

	key := syncstore.Key{
		User:   s.creds.Username,
		Domain: syncstore.DomainAttendance,
		Scope:  semId,
	}

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordAttendance)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	fetched, err := client.FetchAttendance(ctx, menu, semId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return cached[scraper.AttendanceRecord](ctx, s.store, key, err)
	}
	res, err := syncstore.Reconcile(ctx, s.store, key, fetched, attendanceCodec, client.LoginTime)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Stored, nil
}

func (s Service) GetResults(ctx context.Context) ([]scraper.SubjectResult, error) {
	ctx, span := tracer.Start(ctx, "GetResults")
	defer span.End()

	key := syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainResults}

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordResults)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	fetched, err := client.FetchResults(ctx, menu)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return cached[scraper.SubjectResult](ctx, s.store, key, err)
	}
	res, err := syncstore.Reconcile(ctx, s.store, key, fetched, resultCodec, client.LoginTime)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Stored, nil
}

func (s Service) GetTimetable(ctx context.Context) ([]scraper.TimetableSlot, error) {
	ctx, span := tracer.Start(ctx, "GetTimetable")
	defer span.End()

	key := syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainTimetable}

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordTimetable)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	fetched, err := client.FetchTimetable(ctx, menu)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return cached[scraper.TimetableSlot](ctx, s.store, key, err)
	}
	res, err := syncstore.Reconcile(ctx, s.store, key, fetched, timetableCodec, client.LoginTime)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Stored, nil
}

// Session exposes the content navigation chain for interactive
// browsing. All stages share one login, the chain is only valid in
// order since each stage consumes an identifier produced by the one
// before it.
type Session struct {
	Client *scraper.Client
	menu   scraper.MenuDescriptor
}

func (s Service) OpenSession(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "OpenSession")
	defer span.End()

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordCourses)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &Session{Client: client, menu: menu}, nil
}

func (b *Session) Semesters(ctx context.Context) ([]scraper.Semester, error) {
	return b.Client.FetchSemesters(ctx)
}

func (b *Session) Subjects(ctx context.Context, semId string) ([]scraper.Subject, error) {
	return b.Client.FetchSubjects(ctx, b.menu, semId)
}

func (b *Session) Units(ctx context.Context, courseId string) ([]scraper.Unit, error) {
	return b.Client.FetchUnits(ctx, b.menu, courseId)
}

func (b *Session) Classes(ctx context.Context, unitId string) ([]scraper.ClassEntry, error) {
	return b.Client.FetchClasses(ctx, b.menu, unitId)
}

func (b *Session) PreviewDocs(ctx context.Context, entry scraper.ClassEntry) ([]scraper.DocumentRef, error) {
	return b.Client.FetchPreviewDocs(ctx, b.menu, entry)
}

func (b *Session) Download(ctx context.Context, id scraper.DocumentRef, fallbackName string) (scraper.Document, error) {
	return b.Client.Download(ctx, id, fallbackName)
}
