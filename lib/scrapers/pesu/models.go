package pesu

// Stage is one step of the resource navigation chain. A stage cannot
// run without the identifier produced by its predecessor.
type Stage string

const (
	StageSemesters Stage = "semesters"
	StageSubjects  Stage = "subjects"
	StageUnits     Stage = "units"
	StageClasses   Stage = "classes"
	StagePreview   Stage = "preview"
	StageDownload  Stage = "download"

	StageAttendance Stage = "attendance"
	StageResults    Stage = "results"
	StageTimetable  Stage = "timetable"
)

// MenuDescriptor holds the routing codes the portal dispatcher wants
// for one feature. They are discovered live from the profile page each
// session, the portal does not keep them stable across environments.
type MenuDescriptor struct {
	Keyword        string
	MenuId         string
	ControllerMode string
}

type Semester struct {
	SemId     string
	SemNumber int
	Label     string
}

type Subject struct {
	CourseId string
	Code     string
	Name     string
	RawCells []string
}

type Unit struct {
	UnitId string
	Number int
	Title  string
}

type ClassEntry struct {
	Title           string
	ClassNo         string
	CourseUnitId    string
	SubjectId       string
	CourseContentId string
	ResourceType    string
	SlidesCount     int
	// one count per resource column, in table order
	ResourceCounts []string
	// the same per-cell handler ids addressed two ways, consumers
	// look resources up by type or by column position
	ResourceIdsByType   map[string]string
	ResourceIdsByColumn []string
}

// DocumentRef is an opaque id used to stream one file.
type DocumentRef string

type AttendanceRecord struct {
	CourseCode string
	CourseName string
	Attended   int
	Total      int
	// always recomputed from Attended/Total, the value the portal
	// renders is rounded and would mask small differences
	Percentage float64
}

type ScoreBlock struct {
	Scored float64
	Total  float64
}

type SubjectResult struct {
	Code     string
	Name     string
	Internal ScoreBlock
	// second or "best of" internal, depending on the term
	BestInternal ScoreBlock
	External     ScoreBlock
	Total        float64
	MaxMarks     float64
}

type TimetableSlot struct {
	Day         int
	Period      int
	PeriodTime  string
	SubjectCode string
	SubjectName string
	DisplayCode string
	Room        string
	Teacher     string
}
