package pesu

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/syncstore"

	"go.opentelemetry.io/otel/codes"
)

type RefreshReport struct {
	// Changed records, per domain, whether the portal data differed
	// from the stored snapshot
	Changed map[syncstore.Domain]bool
}

// RefreshAll syncs every domain over a single login. Domains are
// fetched concurrently and one domain's failure never blocks the
// others, failures are collected and joined at the end.
func (s Service) RefreshAll(ctx context.Context) (RefreshReport, error) {
	ctx, span := tracer.Start(ctx, "RefreshAll")
	defer span.End()

	report := RefreshReport{Changed: map[syncstore.Domain]bool{}}

	client, err := s.login(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "login failed")
		return report, err
	}

	semesters, err := client.FetchSemesters(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	res, err := syncstore.Reconcile(
		ctx, s.store,
		syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainSemesters},
		semesters, semesterCodec, client.LoginTime,
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	report.Changed[syncstore.DomainSemesters] = res.Changed

	var errList []error
	reportLock := sync.Mutex{}
	wg := sync.WaitGroup{}

	record := func(domain syncstore.Domain, changed bool, err error) {
		reportLock.Lock()
		defer reportLock.Unlock()
		if err != nil {
			slog.ErrorContext(ctx, "refresh domain failed", "domain", domain, "err", err)
			errList = append(errList, err)
			return
		}
		// a domain changed when any of its semester scopes changed
		report.Changed[domain] = report.Changed[domain] || changed
	}

	for _, sem := range semesters {
		if sem.SemId == "" {
			continue
		}
		semId := sem.SemId

		wg.Add(1)
		go func() {
			defer wg.Done()
			changed, err := s.refreshSubjects(ctx, client, semId)
			record(syncstore.DomainSubjects, changed, err)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			changed, err := s.refreshAttendance(ctx, client, semId)
			record(syncstore.DomainAttendance, changed, err)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		changed, err := s.refreshResults(ctx, client)
		record(syncstore.DomainResults, changed, err)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		changed, err := s.refreshTimetable(ctx, client)
		record(syncstore.DomainTimetable, changed, err)
	}()

	wg.Wait()

	if len(errList) > 0 {
		err := errors.Join(errList...)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	return report, nil
}

func (s Service) refreshSubjects(ctx context.Context, client *scraper.Client, semId string) (bool, error) {
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordCourses)
	if err != nil {
		return false, err
	}
	fetched, err := client.FetchSubjects(ctx, menu, semId)
	if err != nil {
		return false, err
	}
	res, err := syncstore.Reconcile(
		ctx, s.store,
		syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainSubjects, Scope: semId},
		fetched, subjectCodec, client.LoginTime,
	)
	return res.Changed, err
}

func (s Service) refreshAttendance(ctx context.Context, client *scraper.Client, semId string) (bool, error) {
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordAttendance)
	if err != nil {
		return false, err
	}
	fetched, err := client.FetchAttendance(ctx, menu, semId)
	if err != nil {
		return false, err
	}
	res, err := syncstore.Reconcile(
		ctx, s.store,
		syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainAttendance, Scope: semId},
		fetched, attendanceCodec, client.LoginTime,
	)
	return res.Changed, err
}

func (s Service) refreshResults(ctx context.Context, client *scraper.Client) (bool, error) {
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordResults)
	if err != nil {
		return false, err
	}
	fetched, err := client.FetchResults(ctx, menu)
	if err != nil {
		return false, err
	}
	res, err := syncstore.Reconcile(
		ctx, s.store,
		syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainResults},
		fetched, resultCodec, client.LoginTime,
	)
	return res.Changed, err
}

func (s Service) refreshTimetable(ctx context.Context, client *scraper.Client) (bool, error) {
	menu, err := scraper.ResolveMenu(client.ProfileHtml(), keywordTimetable)
	if err != nil {
		return false, err
	}
	fetched, err := client.FetchTimetable(ctx, menu)
	if err != nil {
		return false, err
	}
	res, err := syncstore.Reconcile(
		ctx, s.store,
		syncstore.Key{User: s.creds.Username, Domain: syncstore.DomainTimetable},
		fetched, timetableCodec, client.LoginTime,
	)
	return res.Changed, err
}

// RefreshDaemon runs RefreshAll on an interval until ctx is cancelled.
// Errors are logged and swallowed, a bad portal day should not kill
// the process.
func (s Service) RefreshDaemon(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, err := s.RefreshAll(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "background refresh failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
