package pesu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilenameFromDisposition(t *testing.T) {
	testCases := []struct {
		disposition string
		expected    string
	}{
		{`attachment; filename="Unit 1 Slides.pdf"`, "Unit 1 Slides.pdf"},
		{`attachment; filename=notes.pptx`, "notes.pptx"},
		{`attachment; filename*=UTF-8''OS%20Unit%203.pdf`, "OS Unit 3.pdf"},
		{`inline`, ""},
		{``, ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, filenameFromDisposition(test.disposition))
	}
}

func TestExtensionFromContentType(t *testing.T) {
	testCases := []struct {
		contentType string
		expected    string
	}{
		{"application/pdf", ".pdf"},
		{"application/msword", ".docx"},
		{"application/vnd.ms-powerpoint", ".pptx"},
		{"application/zip", ".zip"},
		{"application/octet-stream", ".pdf"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, extensionFromContentType(test.contentType))
	}
}
