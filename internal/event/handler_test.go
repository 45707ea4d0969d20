// AngelaMos | 2026
// handler_test.go

package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/instaiq-backend/internal/media"
)

type recordingStore struct {
	keys    []string
	deleted []string
}

func (s *recordingStore) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

func (s *recordingStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(repo Repository, store media.Store) chi.Router {
	h := NewHandler(NewService(repo), media.NewUploader(store, 1<<20))

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	h.RegisterAdminRoutes(r, passthrough, passthrough)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestListEvents(t *testing.T) {
	r := newTestRouter(seeded(), &recordingStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var events []EventResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &events))
	assert.Len(t, events, 2)
}

func TestListEvents_BadTypeFilter(t *testing.T) {
	r := newTestRouter(seeded(), &recordingStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/?type=someday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEvent_NotFound(t *testing.T) {
	r := newTestRouter(seeded(), &recordingStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/5b6f1a5e-8f59-4c4e-9b7a-2f0d1f0c1aff", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)
}

func TestCreateEvent_RejectsUnknownType(t *testing.T) {
	r := newTestRouter(seeded(), &recordingStore{})

	body := `{"image_url":"https://img/x.png","type":"someday","date":"1","month":"Jan","title":"T","time":"9","location":"L","desc":"D"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/events/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEvent_MissingFields(t *testing.T) {
	r := newTestRouter(seeded(), &recordingStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/events/", strings.NewReader(`{"title":"Only"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Message, "is required")
}

func TestCreateEvent_MultipartWithImage(t *testing.T) {
	repo := seeded()
	store := &recordingStore{}
	r := newTestRouter(repo, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"type": "happening", "date": "9", "month": "Sep", "title": "Launch",
		"time": "7 PM", "location": "HQ", "desc": "Product launch",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile(media.ImageField, "launch.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/events/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created EventResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "images/events/"))
	assert.Equal(t, TypeHappening, created.Type)
	assert.Len(t, repo.events, 3)
}

func TestUpdateEvent_JSON(t *testing.T) {
	repo := seeded()
	r := newTestRouter(repo, &recordingStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin/events/"+workshopID, strings.NewReader(`{"title":"K8s Deep Dive"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "K8s Deep Dive", repo.events[workshopID].Title)
	assert.Equal(t, "Remote", repo.events[workshopID].Location)
}

func TestDeleteEvent(t *testing.T) {
	repo := seeded()
	r := newTestRouter(repo, &recordingStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/events/"+meetupID, nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, repo.events, meetupID)
}

type failingWrites struct {
	*fakeRepo
}

func (failingWrites) Create(context.Context, *Event) error {
	return errors.New("connection reset")
}

func (failingWrites) Update(context.Context, *Event) error {
	return errors.New("connection reset")
}

func posterForm(t *testing.T, method, target string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile(media.ImageField, "poster.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateEvent_StoreFailureDiscardsUploadedImage(t *testing.T) {
	store := &recordingStore{}
	r := newTestRouter(failingWrites{seeded()}, store)

	req := posterForm(t, http.MethodPost, "/admin/events/", map[string]string{
		"date": "9", "month": "Sep", "title": "Launch",
		"time": "7 PM", "location": "HQ", "desc": "Product launch",
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, store.keys, 1)
	assert.Equal(t, store.keys, store.deleted)
}

func TestUpdateEvent_StoreFailureDiscardsUploadedImage(t *testing.T) {
	store := &recordingStore{}
	r := newTestRouter(failingWrites{seeded()}, store)

	req := posterForm(t, http.MethodPut, "/admin/events/"+meetupID, map[string]string{
		"title": "Cloud Meetup II",
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, store.keys, 1)
	assert.Equal(t, store.keys, store.deleted)
}

func TestUpdateEvent_MissingEventSkipsUpload(t *testing.T) {
	store := &recordingStore{}
	r := newTestRouter(seeded(), store)

	req := posterForm(t, http.MethodPut, "/admin/events/00000000-0000-4000-8000-000000000000", map[string]string{
		"title": "Ghost",
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.keys)
}
