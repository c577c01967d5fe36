package pesu

import (
	"fmt"
	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/syncstore"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// codecs tell the snapshot store how to identify records across syncs
// and which fields never count as a change. Derived fields are ignored
// so recomputation noise does not trigger writes.

var semesterCodec = syncstore.Codec[scraper.Semester]{
	NaturalKey: func(s scraper.Semester) string { return s.SemId },
}

var subjectCodec = syncstore.Codec[scraper.Subject]{
	NaturalKey: func(s scraper.Subject) string {
		if s.CourseId != "" {
			return s.CourseId
		}
		return s.Code
	},
	// raw cell text shifts with portal markup tweaks that change
	// nothing the app cares about
	Ignore: cmp.Options{cmpopts.IgnoreFields(scraper.Subject{}, "RawCells")},
}

var attendanceCodec = syncstore.Codec[scraper.AttendanceRecord]{
	NaturalKey: func(r scraper.AttendanceRecord) string { return r.CourseCode },
	// recomputed from Attended/Total on every scrape
	Ignore: cmp.Options{cmpopts.IgnoreFields(scraper.AttendanceRecord{}, "Percentage")},
}

var resultCodec = syncstore.Codec[scraper.SubjectResult]{
	NaturalKey: func(r scraper.SubjectResult) string {
		if r.Code != "" {
			return r.Code
		}
		return r.Name
	},
}

var timetableCodec = syncstore.Codec[scraper.TimetableSlot]{
	NaturalKey: func(s scraper.TimetableSlot) string {
		return fmt.Sprintf("%d:%d", s.Day, s.Period)
	},
	// recomputed from SubjectName
	Ignore: cmp.Options{cmpopts.IgnoreFields(scraper.TimetableSlot{}, "DisplayCode")},
}
