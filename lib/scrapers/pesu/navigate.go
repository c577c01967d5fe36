package pesu

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// opaque routing codes the portal dispatcher requires per action.
// these are external contract values, never "clean them up".
const (
	actionSubjects        = "38"
	actionUnits           = "42"
	actionClasses         = "43"
	actionPreview         = "60"
	actionPreviewFallback = "343"
	actionAttendance      = "8"
	actionResults         = "4"
	actionTimetable       = "5"

	previewFallbackControllerMode = "9978"
	classSubType                  = "3"
)

var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

func cacheBuster() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func (c *Client) stageHeaders() map[string]string {
	return map[string]string{
		"Referer":          c.BaseUrl.String() + profilePath,
		"X-Requested-With": "XMLHttpRequest",
		"X-CSRF-Token":     c.CsrfToken(),
	}
}

// dispatchGet runs one parameterized GET against the portal's feature
// dispatcher. The response is an HTML fragment, or the login page when
// the session has died under us.
func (c *Client) dispatchGet(ctx context.Context, stage Stage, params map[string]string) (string, error) {
	c.setState(StateNavigating)
	defer c.settleNavigation()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(c.stageHeaders()).
		SetQueryParams(params).
		Get(dispatchPath)
	if err != nil {
		return "", navigationError(stage, err)
	}
	html := res.String()
	if isLoginPage(html) {
		c.setState(StateExpired)
		return "", navigationError(stage, SessionExpired)
	}
	return html, nil
}

func (c *Client) dispatchPost(ctx context.Context, stage Stage, form map[string]string) (string, error) {
	c.setState(StateNavigating)
	defer c.settleNavigation()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(c.stageHeaders()).
		SetFormData(form).
		Post(dispatchPath)
	if err != nil {
		return "", navigationError(stage, err)
	}
	html := res.String()
	if isLoginPage(html) {
		c.setState(StateExpired)
		return "", navigationError(stage, SessionExpired)
	}
	return html, nil
}

func (c *Client) FetchSemesters(ctx context.Context) ([]Semester, error) {
	ctx, span := tracer.Start(ctx, "client:FetchSemesters")
	defer span.End()

	err := c.refreshCsrf(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh csrf")
		return nil, navigationError(StageSemesters, err)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Referer", c.BaseUrl.String()+profilePath).
		Get(semestersPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch semester options")
		return nil, navigationError(StageSemesters, err)
	}
	html := res.String()
	if isLoginPage(html) {
		c.setState(StateExpired)
		span.SetStatus(codes.Error, SessionExpired.Error())
		return nil, navigationError(StageSemesters, SessionExpired)
	}

	return ExtractSemesters(html), nil
}

func (c *Client) FetchSubjects(ctx context.Context, menu MenuDescriptor, semId string) ([]Subject, error) {
	ctx, span := tracer.Start(ctx, "client:FetchSubjects")
	defer span.End()

	err := c.refreshCsrf(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh csrf")
		return nil, navigationError(StageSubjects, err)
	}

	html, err := c.dispatchPost(ctx, StageSubjects, map[string]string{
		"controllerMode": menu.ControllerMode,
		"actionType":     actionSubjects,
		"id":             nonDigitRegex.ReplaceAllString(semId, ""),
		"menuId":         menu.MenuId,
		"_csrf":          c.CsrfToken(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ExtractSubjects(html), nil
}

func (c *Client) FetchUnits(ctx context.Context, menu MenuDescriptor, courseId string) ([]Unit, error) {
	ctx, span := tracer.Start(ctx, "client:FetchUnits")
	defer span.End()

	err := c.refreshCsrf(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh csrf")
		return nil, navigationError(StageUnits, err)
	}

	html, err := c.dispatchGet(ctx, StageUnits, map[string]string{
		"controllerMode": menu.ControllerMode,
		"actionType":     actionUnits,
		"id":             courseId,
		"menuId":         menu.MenuId,
		"_csrf":          c.CsrfToken(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ExtractUnits(html), nil
}

func (c *Client) FetchClasses(ctx context.Context, menu MenuDescriptor, unitId string) ([]ClassEntry, error) {
	ctx, span := tracer.Start(ctx, "client:FetchClasses")
	defer span.End()

	html, err := c.dispatchGet(ctx, StageClasses, map[string]string{
		"controllerMode":  menu.ControllerMode,
		"actionType":      actionClasses,
		"coursecontentid": unitId,
		"menuId":          menu.MenuId,
		"subType":         classSubType,
		"_":               cacheBuster(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ExtractClasses(html), nil
}

var docIdRegex = regexp.MustCompile(`(?i)downloadcoursedoc\s*\(\s*['"]([a-f0-9\-]{6,})['"]`)
var docHrefRegex = regexp.MustCompile(`(?i)href=['"][^'"]*download(?:slide)?coursedoc/([a-f0-9\-]{6,})`)

func dedupeDocIds(matches [][]string) []DocumentRef {
	seen := map[string]bool{}
	var ids []DocumentRef
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, DocumentRef(m[1]))
	}
	return ids
}

// FetchPreviewDocs discovers the downloadable document ids behind one
// class entry. The primary preview action silently returns an empty
// page for some resource types instead of erroring, so when it yields
// nothing the older action code with its different parameter shape is
// tried as well. The fallback is mandatory, not an optimization.
func (c *Client) FetchPreviewDocs(ctx context.Context, menu MenuDescriptor, entry ClassEntry) ([]DocumentRef, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPreviewDocs")
	defer span.End()

	if entry.CourseUnitId == "" || entry.SubjectId == "" {
		return nil, navigationError(StagePreview, fmt.Errorf("class entry carries no preview identifiers"))
	}

	err := c.refreshCsrf(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh csrf")
		return nil, navigationError(StagePreview, err)
	}

	html, err := c.dispatchGet(ctx, StagePreview, map[string]string{
		"controllerMode": menu.ControllerMode,
		"actionType":     actionPreview,
		"selectedData":   entry.SubjectId,
		"id":             "2",
		"unitid":         entry.CourseUnitId,
		"menuId":         menu.MenuId,
		"_":              cacheBuster(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ids := dedupeDocIds(docIdRegex.FindAllStringSubmatch(html, -1))
	if len(ids) > 0 {
		return ids, nil
	}

	if entry.CourseContentId == "" || entry.ClassNo == "" {
		return nil, nil
	}

	resourceType := entry.ResourceType
	if resourceType == "" {
		resourceType = "2"
	}
	html, err = c.dispatchGet(ctx, StagePreview, map[string]string{
		"controllerMode":  previewFallbackControllerMode,
		"actionType":      actionPreviewFallback,
		"courseunitid":    entry.CourseUnitId,
		"subjectid":       entry.SubjectId,
		"coursecontentid": entry.CourseContentId,
		"classNo":         entry.ClassNo,
		"type":            resourceType,
		"menuId":          menu.MenuId,
		"selectedData":    "0",
		"_":               cacheBuster(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ids = dedupeDocIds(docIdRegex.FindAllStringSubmatch(html, -1))
	if len(ids) == 0 {
		ids = dedupeDocIds(docHrefRegex.FindAllStringSubmatch(html, -1))
	}
	return ids, nil
}

func (c *Client) FetchAttendance(ctx context.Context, menu MenuDescriptor, semId string) ([]AttendanceRecord, error) {
	ctx, span := tracer.Start(ctx, "client:FetchAttendance")
	defer span.End()

	err := c.refreshCsrf(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh csrf")
		return nil, navigationError(StageAttendance, err)
	}

	html, err := c.dispatchPost(ctx, StageAttendance, map[string]string{
		"controllerMode": menu.ControllerMode,
		"actionType":     actionAttendance,
		"id":             nonDigitRegex.ReplaceAllString(semId, ""),
		"menuId":         menu.MenuId,
		"_csrf":          c.CsrfToken(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ExtractAttendance(html), nil
}

func (c *Client) FetchResults(ctx context.Context, menu MenuDescriptor) ([]SubjectResult, error) {
	ctx, span := tracer.Start(ctx, "client:FetchResults")
	defer span.End()

	err := c.refreshCsrf(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to refresh csrf")
		return nil, navigationError(StageResults, err)
	}

	html, err := c.dispatchPost(ctx, StageResults, map[string]string{
		"controllerMode": menu.ControllerMode,
		"actionType":     actionResults,
		"menuId":         menu.MenuId,
		"_csrf":          c.CsrfToken(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ExtractResults(html), nil
}

func (c *Client) FetchTimetable(ctx context.Context, menu MenuDescriptor) ([]TimetableSlot, error) {
	ctx, span := tracer.Start(ctx, "client:FetchTimetable")
	defer span.End()

	html, err := c.dispatchGet(ctx, StageTimetable, map[string]string{
		"controllerMode": menu.ControllerMode,
		"actionType":     actionTimetable,
		"menuId":         menu.MenuId,
		"_":              cacheBuster(),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ExtractTimetable(html), nil
}
