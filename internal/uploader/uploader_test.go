package uploader

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File[field][0]
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	up, err := NewDiskUploader(dir)
	require.NoError(t, err)

	fileHeader := multipartFile(t, "defaultImage", "photo.PNG", "image/png", []byte("fake-png"))

	path, err := up.Save(fileHeader, "defaultImage")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "/uploads/defaultImage-"))
	require.True(t, strings.HasSuffix(path, ".png"))

	content, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, []byte("fake-png"), content)
}

func TestSave_UniqueNames(t *testing.T) {
	up, err := NewDiskUploader(t.TempDir())
	require.NoError(t, err)

	first, err := up.Save(multipartFile(t, "f", "a.jpg", "image/jpeg", []byte("one")), "f")
	require.NoError(t, err)

	second, err := up.Save(multipartFile(t, "f", "a.jpg", "image/jpeg", []byte("two")), "f")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestSave_RejectsNonImage(t *testing.T) {
	up, err := NewDiskUploader(t.TempDir())
	require.NoError(t, err)

	_, err = up.Save(multipartFile(t, "f", "notes.txt", "text/plain", []byte("text")), "f")
	require.ErrorIs(t, err, ErrNotAnImage)
}

func TestSave_RejectsRenamedNonImage(t *testing.T) {
	up, err := NewDiskUploader(t.TempDir())
	require.NoError(t, err)

	// The extension looks right but the declared type gives it away.
	_, err = up.Save(multipartFile(t, "f", "notes.png", "text/plain", []byte("text")), "f")
	require.ErrorIs(t, err, ErrNotAnImage)
}
