package pesu

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"pesuassist-backend/lib/textutil"

	"go.opentelemetry.io/otel/codes"
)

// Document is one downloadable file as a stream. Close the body when
// done, it holds the underlying http response open.
type Document struct {
	Body     io.ReadCloser
	Filename string
}

var utf8FilenameRegex = regexp.MustCompile(`filename\*=UTF-8''([^;]+)`)
var plainFilenameRegex = regexp.MustCompile(`filename="?([^";]+)"?`)

func filenameFromDisposition(disposition string) string {
	m := utf8FilenameRegex.FindStringSubmatch(disposition)
	if m != nil {
		decoded, err := url.QueryUnescape(m[1])
		if err == nil {
			return decoded
		}
		return m[1]
	}
	m = plainFilenameRegex.FindStringSubmatch(disposition)
	if m != nil {
		return m[1]
	}
	return ""
}

func extensionFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return ".pdf"
	case strings.Contains(ct, "word"), strings.Contains(ct, "msword"):
		return ".docx"
	case strings.Contains(ct, "powerpoint"), strings.Contains(ct, "ppt"):
		return ".pptx"
	case strings.Contains(ct, "zip"):
		return ".zip"
	}
	return ".pdf"
}

// Download streams one document. `fallbackName` is used when the
// portal doesn't say what the file is called, the extension is then
// guessed from the content type.
func (c *Client) Download(ctx context.Context, id DocumentRef, fallbackName string) (Document, error) {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(c.stageHeaders()).
		SetDoNotParseResponse(true).
		Get(downloadPath + string(id))
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch document")
		return Document{}, navigationError(StageDownload, err)
	}
	if res.StatusCode() != 200 {
		res.RawBody().Close()
		span.SetStatus(codes.Error, "document request returned a bad status")
		return Document{}, navigationError(
			StageDownload,
			fmt.Errorf("document %s: status %d", id, res.StatusCode()),
		)
	}

	filename := filenameFromDisposition(res.Header().Get("Content-Disposition"))
	if filename == "" {
		filename = fallbackName + extensionFromContentType(res.Header().Get("Content-Type"))
	}

	return Document{
		Body:     res.RawBody(),
		Filename: textutil.SanitizeFilename(filename),
	}, nil
}
