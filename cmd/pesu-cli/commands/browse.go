package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/serviceutil"
	"pesuassist-backend/services/pesu"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var browseOut *string

func init() {
	browseOut = browseCmd.Flags().String("out", "downloads", "Directory downloaded files are written to.")
	rootCmd.AddCommand(browseCmd)
}

func prompt(reader *bufio.Reader, message string) string {
	fmt.Print(message)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// pickOne keeps asking until the input names exactly one entry.
func pickOne(reader *bufio.Reader, message string, max int) int {
	for {
		picked, err := parseSelection(prompt(reader, message), max)
		if err == nil && len(picked) == 1 {
			return picked[0]
		}
		fmt.Println("pick a single entry")
	}
}

// pickMany keeps asking until the input parses, "*" selects everything.
func pickMany(reader *bufio.Reader, message string, max int) []int {
	for {
		picked, err := parseSelection(prompt(reader, message), max)
		if err == nil {
			return picked
		}
		fmt.Println(err)
	}
}

func renderNumbered(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(append(table.Row{"#"}, header...))
	for i, row := range rows {
		t.AppendRow(append(table.Row{i + 1}, row...))
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func downloadClassDocs(cmd *cobra.Command, session *pesu.Session, entry scraper.ClassEntry, outDir string) {
	docs, err := session.PreviewDocs(cmd.Context(), entry)
	if err != nil {
		slog.Error("failed to list documents", "class", entry.Title, "err", err)
		return
	}
	if len(docs) == 0 {
		fmt.Printf("no downloadable documents behind %q\n", entry.Title)
		return
	}

	for i, id := range docs {
		fallback := entry.Title
		if len(docs) > 1 {
			fallback = fmt.Sprintf("%s_%d", entry.Title, i+1)
		}
		doc, err := session.Download(cmd.Context(), id, fallback)
		if err != nil {
			slog.Error("download failed", "class", entry.Title, "err", err)
			continue
		}

		path := filepath.Join(outDir, doc.Filename)
		out, err := os.Create(path)
		if err != nil {
			doc.Body.Close()
			slog.Error("failed to create output file", "path", path, "err", err)
			continue
		}
		written, err := io.Copy(out, doc.Body)
		doc.Body.Close()
		out.Close()
		if err != nil {
			slog.Error("failed to write output file", "path", path, "err", err)
			continue
		}
		fmt.Printf("saved %s (%d bytes)\n", path, written)
	}
}

var browseCmd = &cobra.Command{
	Use:   "browse [--out <dir>]",
	Short: "Interactively walks semester, subject, unit and class to download course documents.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		session, err := service.OpenSession(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to open portal session", err)
		}
		reader := bufio.NewReader(os.Stdin)

		semesters, err := session.Semesters(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch semesters", err)
		}
		if len(semesters) == 0 {
			serviceutil.Fatal("portal reported no semesters", nil)
		}
		rows := make([]table.Row, len(semesters))
		for i, sem := range semesters {
			rows[i] = table.Row{sem.Label}
		}
		renderNumbered(table.Row{"Semester"}, rows)
		sem := semesters[pickOne(reader, "semester> ", len(semesters))-1]

		subjects, err := session.Subjects(cmd.Context(), sem.SemId)
		if err != nil {
			serviceutil.Fatal("failed to fetch subjects", err)
		}
		if len(subjects) == 0 {
			serviceutil.Fatal("no subjects in this semester", nil)
		}
		rows = make([]table.Row, len(subjects))
		for i, subject := range subjects {
			rows[i] = table.Row{subject.Code, subject.Name}
		}
		renderNumbered(table.Row{"Code", "Subject"}, rows)
		subject := subjects[pickOne(reader, "subject> ", len(subjects))-1]
		if subject.CourseId == "" {
			serviceutil.Fatal("this subject has no navigable content", nil)
		}

		units, err := session.Units(cmd.Context(), subject.CourseId)
		if err != nil {
			serviceutil.Fatal("failed to fetch units", err)
		}
		if len(units) == 0 {
			serviceutil.Fatal("no units in this subject", nil)
		}
		rows = make([]table.Row, len(units))
		for i, unit := range units {
			rows[i] = table.Row{unit.Title}
		}
		renderNumbered(table.Row{"Unit"}, rows)
		unit := units[pickOne(reader, "unit> ", len(units))-1]

		classes, err := session.Classes(cmd.Context(), unit.UnitId)
		if err != nil {
			serviceutil.Fatal("failed to fetch classes", err)
		}
		if len(classes) == 0 {
			serviceutil.Fatal("no classes in this unit", nil)
		}
		rows = make([]table.Row, len(classes))
		for i, entry := range classes {
			rows[i] = table.Row{entry.Title, entry.SlidesCount}
		}
		renderNumbered(table.Row{"Class", "Slides"}, rows)
		picked := pickMany(reader, "classes (e.g. 1-3,5 or *)> ", len(classes))

		err = os.MkdirAll(*browseOut, 0755)
		if err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}
		for _, i := range picked {
			downloadClassDocs(cmd, session, classes[i-1], *browseOut)
		}
	},
}
