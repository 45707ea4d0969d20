// AngelaMos | 2026
// upload_test.go

package media

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *memoryStore) Put(
	_ context.Context,
	key, contentType string,
	body io.Reader,
) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Go Basics"))
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/courses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSaveImage_StoresImage(t *testing.T) {
	store := newMemoryStore()
	u := NewUploader(store, 1<<20)
	req := multipartRequest(t, ImageField, "cover.PNG", pngHeader)

	require.True(t, IsMultipart(req))
	require.NoError(t, u.ParseForm(httptest.NewRecorder(), req))
	assert.Equal(t, "Go Basics", req.FormValue("title"))

	img, err := u.SaveImage(context.Background(), req, "courses")
	require.NoError(t, err)
	require.NotNil(t, img)
	require.Len(t, store.objects, 1)

	for key, data := range store.objects {
		assert.True(t, strings.HasPrefix(key, "images/courses/"))
		assert.True(t, strings.HasSuffix(key, ".png"))
		assert.Equal(t, pngHeader, data)
		assert.Equal(t, "image/png", store.types[key])
		assert.Equal(t, key, img.Key)
		assert.Equal(t, "https://cdn.test/"+key, img.PublicURL())
	}
}

func TestSaveImage_RejectsNonImage(t *testing.T) {
	store := newMemoryStore()
	u := NewUploader(store, 1<<20)
	req := multipartRequest(t, ImageField, "notes.txt", []byte("plain text body"))

	require.NoError(t, u.ParseForm(httptest.NewRecorder(), req))

	_, err := u.SaveImage(context.Background(), req, "courses")
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Empty(t, store.objects)
}

func TestSaveImage_RejectsOversizedImage(t *testing.T) {
	store := newMemoryStore()
	u := NewUploader(store, 16)
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	req := multipartRequest(t, ImageField, "big.png", content)

	require.NoError(t, u.ParseForm(httptest.NewRecorder(), req))

	_, err := u.SaveImage(context.Background(), req, "courses")
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Empty(t, store.objects)
}

func TestSaveImage_AbsentImage(t *testing.T) {
	u := NewUploader(newMemoryStore(), 1<<20)
	req := multipartRequest(t, "", "", nil)

	require.NoError(t, u.ParseForm(httptest.NewRecorder(), req))

	img, err := u.SaveImage(context.Background(), req, "courses")
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.Empty(t, img.PublicURL())
}

func TestDiscard_RemovesStoredImage(t *testing.T) {
	store := newMemoryStore()
	u := NewUploader(store, 1<<20)
	req := multipartRequest(t, ImageField, "cover.png", pngHeader)
	require.NoError(t, u.ParseForm(httptest.NewRecorder(), req))

	img, err := u.SaveImage(context.Background(), req, "events")
	require.NoError(t, err)
	require.Len(t, store.objects, 1)

	u.Discard(context.Background(), img)
	assert.Empty(t, store.objects)

	u.Discard(context.Background(), nil)
}

func TestNoneStore(t *testing.T) {
	_, err := noneStore{}.Put(context.Background(), "k", "image/png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/events/", "Poster.JPG")
	assert.True(t, strings.HasPrefix(key, "images/events/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}
