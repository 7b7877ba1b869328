package controllers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/middleware"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/testdb"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type testEnv struct {
	t     *testing.T
	db    *gorm.DB
	repos *repository.Repositories
	app   *fiber.App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.Open(t)
	repos := repository.NewRepositories(db)
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Use(middleware.Authenticate(repos.User))
	return &testEnv{t: t, db: db, repos: repos, app: app}
}

func (e *testEnv) create(v interface{}) {
	e.t.Helper()
	require.NoError(e.t, e.db.Create(v).Error)
}

// member stores a user and returns it with a working API key.
func (e *testEnv) member(name string, admin bool) (*models.User, string) {
	e.t.Helper()
	u := &models.User{Name: name, MemberID: "M-" + name, IsAdmin: admin}
	key, err := u.IssueAPIKey()
	require.NoError(e.t, err)
	e.create(u)
	return u, key
}

type apiResult struct {
	Status int
	Body   map[string]interface{}
	Header http.Header
	Raw    []byte
}

func (r apiResult) Message() string {
	msg, _ := r.Body["message"].(string)
	return msg
}

func (r apiResult) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

func (r apiResult) List() []interface{} {
	list, _ := r.Body["data"].([]interface{})
	return list
}

func (e *testEnv) send(req *http.Request, key string) apiResult {
	e.t.Helper()
	if key != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+key)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	res := apiResult{Status: resp.StatusCode, Header: resp.Header, Raw: raw}
	if resp.Header.Get(fiber.HeaderContentType) == fiber.MIMEApplicationJSON {
		require.NoError(e.t, json.Unmarshal(raw, &res.Body))
	}
	return res
}

func (e *testEnv) do(method, path string, body interface{}, key string) apiResult {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(e.t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return e.send(req, key)
}

type formFile struct {
	field    string
	filename string
	data     []byte
}

// form builds a multipart request from text fields and an optional file.
func (e *testEnv) form(method, path string, fields map[string]string, file *formFile) *http.Request {
	e.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(e.t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.filename)
		require.NoError(e.t, err)
		_, err = part.Write(file.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
