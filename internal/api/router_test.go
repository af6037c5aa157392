package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/catalog/internal/api/ws"
	"github.com/your-org/catalog/internal/auth"
	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/gallery"
	"github.com/your-org/catalog/internal/imaging"
	"github.com/your-org/catalog/internal/ocr"
	"github.com/your-org/catalog/internal/people"
	"github.com/your-org/catalog/internal/storage"
	"github.com/your-org/catalog/pkg/dto"
)

func newTestRouter(t *testing.T, apiKey string) *gin.Engine {
	t.Helper()

	local, err := storage.NewLocalStore(config.LocalConfig{Dir: t.TempDir(), QuotaBytes: 10 * 1024 * 1024})
	require.NoError(t, err)

	coord := people.NewCoordinator(local, local, people.NewRepository(), false)
	_, err = coord.Load(context.Background())
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	return NewRouter(RouterConfig{
		APIKey:      apiKey,
		Coordinator: coord,
		Local:       local,
		Store:       local,
		Gallery:     gallery.New(),
		Compressor:  imaging.NewCompressor(config.ImageConfig{MaxWidth: 1200, MaxHeight: 1200, JPEGQuality: 70}),
		Engine:      ocr.NewEngine(config.OCRConfig{Language: "por"}),
		Sessions:    auth.NewSessions(local),
		Hub:         hub,
	})
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPeopleLifecycle(t *testing.T) {
	r := newTestRouter(t, "")

	// Create
	w := doJSON(r, http.MethodPost, "/v1/people", dto.SavePersonRequest{Name: "Maria"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.SaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Person.ID)
	assert.False(t, created.Fallback)
	assert.Contains(t, created.Person.RegistrationID, "REG-")
	assert.NotNil(t, created.Person.Photos)

	// List
	w = doJSON(r, http.MethodGet, "/v1/people", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	// Update
	w = doJSON(r, http.MethodPut, "/v1/people/"+created.Person.ID, dto.SavePersonRequest{Name: "Maria Souza"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Get
	w = doJSON(r, http.MethodGet, "/v1/people/"+created.Person.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.PersonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Maria Souza", got.Name)

	// Delete
	w = doJSON(r, http.MethodDelete, "/v1/people/"+created.Person.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/people/"+created.Person.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveRejectsBlankName(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(r, http.MethodPost, "/v1/people", map[string]string{"name": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWhereRejectsUnknownField(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(r, http.MethodGet, "/v1/people/where?field=shoe_size&value=42", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGalleryEndpoints(t *testing.T) {
	r := newTestRouter(t, "")

	// Non-image payloads are kept verbatim rather than rejected.
	w := doJSON(r, http.MethodPost, "/v1/gallery/photos", dto.AddPhotoRequest{Image: "data:text/plain;base64,aGVsbG8="}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var added dto.PhotoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.False(t, added.Compressed)
	assert.Equal(t, "data:text/plain;base64,aGVsbG8=", added.Photo.Data)

	w = doJSON(r, http.MethodGet, "/v1/gallery", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var g dto.GalleryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, 1, g.Total)

	w = doJSON(r, http.MethodDelete, "/v1/gallery/photos/"+added.Photo.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/v1/gallery/photos/"+added.Photo.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Reset clears the working set.
	w = doJSON(r, http.MethodPost, "/v1/gallery", dto.ResetGalleryRequest{}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, 0, g.Total)
}

func TestPeopleCPFFilter(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(r, http.MethodPost, "/v1/people", dto.SavePersonRequest{Name: "Maria", CPF: "12345678901"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(r, http.MethodPost, "/v1/people", dto.SavePersonRequest{Name: "João", CPF: "98765432100"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/people?cpf=12345678901", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		People []dto.PersonResponse `json:"people"`
		Total  int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Maria", list.People[0].Name)
}

func TestSessionEndpoints(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(r, http.MethodGet, "/v1/auth/session", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/auth/session", dto.SignInRequest{User: "maria"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var sess dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "maria", sess.User)
	assert.NotEmpty(t, sess.AccessToken)

	w = doJSON(r, http.MethodGet, "/v1/auth/session", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/v1/auth/session", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/auth/session", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDarkModePreference(t *testing.T) {
	r := newTestRouter(t, "")

	w := doJSON(r, http.MethodGet, "/v1/prefs/dark-mode", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pref dto.DarkModeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pref))
	assert.False(t, pref.Enabled)

	w = doJSON(r, http.MethodPut, "/v1/prefs/dark-mode", dto.DarkModeRequest{Enabled: true}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/prefs/dark-mode", nil, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pref))
	assert.True(t, pref.Enabled)
}

func TestAPIKeyGuardsV1(t *testing.T) {
	r := newTestRouter(t, "secret")

	w := doJSON(r, http.MethodGet, "/v1/people", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/people", nil, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/people", nil, map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	// System endpoints stay open.
	w = doJSON(r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
