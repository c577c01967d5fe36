package pesu

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/syncstore"
	"pesuassist-backend/lib/syncstore/db"
	"pesuassist-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

const landingFixture = `<html><head>
	<meta name="csrf-token" content="token-1234"/>
</head><body>
	<form action="/Academy/j_spring_security_check" method="post">
		<input name="j_username"/><input name="j_password"/>
	</form>
</body></html>`

const profileFixture = `<html><head>
	<meta name="csrf-token" content="token-5678"/>
</head><body>
	<ul>
		<li id="menuTab_653" url="/Academy/a/6403/38"><a>My Courses</a></li>
		<li id="menuTab_660" url="/Academy/a/6407/8"><a>Attendance</a></li>
		<li id="menuTab_661" url="/Academy/a/6407/4"><a>My Results</a></li>
		<li id="menuTab_662" url="/Academy/a/6407/5"><a>Time Table</a></li>
	</ul>
</body></html>`

const semestersFixture = `<select id="semester">
	<option value="">Select</option>
	<option value="2969">Sem-5</option>
	<option value="2868">Sem-4</option>
</select>`

const subjectsFixture = `<div id="getStudentSubjectsBasedOnSemesters">
<table class="table">
	<tr><th>Code</th><th>Name</th></tr>
	<tr onclick="clickOnCourseContent('1652', '1', '0')"><td>UE22CS101</td><td>Python for Computational Problem Solving</td></tr>
	<tr onclick="clickOnCourseContent('1653', '1', '0')"><td>UE22MA101</td><td>Engineering Mathematics I</td></tr>
</table>
</div>`

const pastSubjectsFixture = `<div id="getStudentSubjectsBasedOnSemesters">
<table class="table">
	<tr><th>Code</th><th>Name</th></tr>
	<tr onclick="clickOnCourseContent('1499', '1', '0')"><td>UE22MA241</td><td>Linear Algebra</td></tr>
</table>
</div>`

const attendanceFixture = `<table>
	<tr><th>Code</th><th>Course</th><th>Attended</th><th>%</th></tr>
	<tr><td>UE22CS101</td><td>Python for Computational Problem Solving</td><td>58/76</td><td>76</td></tr>
	<tr><td>UE22MA101</td><td>Engineering Mathematics I</td><td>70/80</td><td>88</td></tr>
</table>`

const resultsFixture = `<div class="card">
	<div class="card-header">UE22CS101 - Python for Computational Problem Solving</div>
	<div>36/40</div><div>38/40</div><div>71/100</div>
</div>`

const serviceTimetableFixture = `<script>
	var periodTimes = {1: '8:00 - 8:50'};
	var timetableData = [
		[
			["UE22CS101::Python for Computational Problem Solving::LH-1", "_::Dr. Shenoy"]
		]
	];
</script>`

type fakePortal struct {
	server *httptest.Server
	// when set, dispatch and semester endpoints act like the portal
	// session died, serving the login page again
	expired atomic.Bool
}

func newFakePortal(t *testing.T) *fakePortal {
	p := &fakePortal{}

	mux := http.NewServeMux()
	mux.HandleFunc("/Academy/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, landingFixture)
	})
	mux.HandleFunc("/Academy/j_spring_security_check", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("j_username") == "PES1202201234" && r.FormValue("j_password") == "hunter2" {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "session-1"})
			http.Redirect(w, r, "/Academy/s/studentProfilePESU", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/Academy/?error=true", http.StatusFound)
	})
	mux.HandleFunc("/Academy/s/studentProfilePESU", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profileFixture)
	})
	mux.HandleFunc("/Academy/a/studentProfilePESU/getStudentSemestersPESU", func(w http.ResponseWriter, r *http.Request) {
		if p.expired.Load() {
			fmt.Fprint(w, landingFixture)
			return
		}
		fmt.Fprint(w, semestersFixture)
	})
	mux.HandleFunc("/Academy/s/studentProfilePESUAdmin", func(w http.ResponseWriter, r *http.Request) {
		if p.expired.Load() {
			fmt.Fprint(w, landingFixture)
			return
		}
		switch r.FormValue("actionType") {
		case "38":
			if r.FormValue("id") == "2868" {
				fmt.Fprint(w, pastSubjectsFixture)
				return
			}
			require.Equal(t, "2969", r.FormValue("id"))
			fmt.Fprint(w, subjectsFixture)
		case "8":
			fmt.Fprint(w, attendanceFixture)
		case "4":
			fmt.Fprint(w, resultsFixture)
		case "5":
			fmt.Fprint(w, serviceTimetableFixture)
		default:
			http.NotFound(w, r)
		}
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func newTestService(t *testing.T, baseUrl string) (Service, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/pesu",
		DbSchema: db.Schema,
	})

	return NewService(ServiceOptions{
		Database: res.DB,
		BaseUrl:  baseUrl,
		Credentials: Credentials{
			Username: "PES1202201234",
			Password: "hunter2",
		},
	}), cleanup
}

func TestServiceSync(t *testing.T) {
	portal := newFakePortal(t)
	service, cleanup := newTestService(t, portal.server.URL)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	semesters, err := service.GetSemesters(ctx)
	require.NoError(t, err)
	require.Len(t, semesters, 2)
	require.Equal(t, "2969", semesters[0].SemId)
	require.Equal(t, 5, semesters[0].SemNumber)

	subjects, err := service.GetSubjects(ctx, "2969")
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Equal(t, "1652", subjects[0].CourseId)
	require.Equal(t, "UE22CS101", subjects[0].Code)

	attendance, err := service.GetAttendance(ctx, "2969")
	require.NoError(t, err)
	require.Len(t, attendance, 2)
	require.Equal(t, 58, attendance[0].Attended)

	results, err := service.GetResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "UE22CS101", results[0].Code)
	require.Equal(t, 145.0, results[0].Total)

	timetable, err := service.GetTimetable(ctx)
	require.NoError(t, err)
	require.Len(t, timetable, 1)
	require.Equal(t, "Dr. Shenoy", timetable[0].Teacher)
}

func TestServiceServesCacheWhenNavigationDies(t *testing.T) {
	portal := newFakePortal(t)
	service, cleanup := newTestService(t, portal.server.URL)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	timetable, err := service.GetTimetable(ctx)
	require.NoError(t, err)
	require.Len(t, timetable, 1)

	portal.expired.Store(true)

	timetable, err = service.GetTimetable(ctx)
	require.NoError(t, err)
	require.Len(t, timetable, 1)
	require.Equal(t, "UE22CS101", timetable[0].SubjectCode)

	// nothing cached for attendance, the failure has to surface
	_, err = service.GetAttendance(ctx, "2969")
	require.Error(t, err)
}

func TestRefreshAll(t *testing.T) {
	portal := newFakePortal(t)
	service, cleanup := newTestService(t, portal.server.URL)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	report, err := service.RefreshAll(ctx)
	require.NoError(t, err)
	for _, domain := range []syncstore.Domain{
		syncstore.DomainSemesters,
		syncstore.DomainSubjects,
		syncstore.DomainAttendance,
		syncstore.DomainResults,
		syncstore.DomainTimetable,
	} {
		require.True(t, report.Changed[domain], string(domain))
	}

	// every discovered semester gets its own subjects scope, not just
	// the newest one
	past, _, err := syncstore.Load[scraper.Subject](ctx, service.store, syncstore.Key{
		User:   "PES1202201234",
		Domain: syncstore.DomainSubjects,
		Scope:  "2868",
	})
	require.NoError(t, err)
	require.Len(t, past, 1)
	require.Equal(t, "UE22MA241", past[0].Code)

	report, err = service.RefreshAll(ctx)
	require.NoError(t, err)
	for domain, changed := range report.Changed {
		require.False(t, changed, string(domain))
	}
}
