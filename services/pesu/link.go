package pesu

import (
	scraper "pesuassist-backend/lib/scrapers/pesu"
	"pesuassist-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// timetable cells and the subjects table come from different portal
// features and rarely agree on spelling, so slots are linked to
// subjects by exact code first and fuzzy name similarity after.

type TimetableLink struct {
	SlotCode    string
	CourseId    string
	Correlation float64
}

// below this the best match is noise, not a rename
const minLinkCorrelation = 0.75

func LinkTimetable(slots []scraper.TimetableSlot, subjects []scraper.Subject) []TimetableLink {
	type slotName struct {
		code string
		name string
	}
	var pending []slotName
	seen := make(map[string]struct{})
	for _, slot := range slots {
		if slot.SubjectCode == "" && slot.SubjectName == "" {
			continue
		}
		key := slot.SubjectCode
		if key == "" {
			key = slot.SubjectName
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pending = append(pending, slotName{code: key, name: slot.SubjectName})
	}

	var result []TimetableLink
	matchedSubjects := make(map[string]struct{})

	remaining := pending[:0]
	for _, slot := range pending {
		linked := false
		for _, subject := range subjects {
			if _, ok := matchedSubjects[subject.CourseId]; ok {
				continue
			}
			if textutil.NormalizeName(subject.Code) == textutil.NormalizeName(slot.code) {
				result = append(result, TimetableLink{
					SlotCode:    slot.code,
					CourseId:    subject.CourseId,
					Correlation: 1,
				})
				matchedSubjects[subject.CourseId] = struct{}{}
				linked = true
				break
			}
		}
		if !linked {
			remaining = append(remaining, slot)
		}
	}

	for _, slot := range remaining {
		var mostSimilarity float64
		var mostSimilar scraper.Subject

		for _, subject := range subjects {
			if _, ok := matchedSubjects[subject.CourseId]; ok {
				continue
			}
			similarity := matchr.JaroWinkler(
				textutil.NormalizeName(slot.name),
				textutil.NormalizeName(subject.Name),
				false,
			)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = subject
			}
		}

		if mostSimilarity >= minLinkCorrelation {
			result = append(result, TimetableLink{
				SlotCode:    slot.code,
				CourseId:    mostSimilar.CourseId,
				Correlation: mostSimilarity,
			})
			matchedSubjects[mostSimilar.CourseId] = struct{}{}
		}
	}

	return result
}
