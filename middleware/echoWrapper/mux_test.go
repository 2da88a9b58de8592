package echoWrapper_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/annotation"
	"github.com/Chendemo12/decorapi/logger"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/middleware/echoWrapper"
	"github.com/Chendemo12/decorapi/openapi"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(mux *echoWrapper.EchoMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.Echo().ServeHTTP(rec, req)
	return rec
}

func TestEchoMux_BindRoute(t *testing.T) {
	mux := echoWrapper.NewWrapper(echo.New())
	assert.Same(t, mux, mux.Group(""))

	require.NoError(t, mux.Group("/pets").BindRoute(http.MethodPut, "/:id", func(c decorapi.MuxContext) error {
		body, err := c.Body()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{
			"method": c.Method(),
			"path":   c.Path(),
			"id":     c.Params("id"),
			"kind":   c.Query("kind", "cat"),
			"body":   string(body),
		})
	}))
	require.NoError(t, mux.BindRoute(http.MethodDelete, "/pets/:id", func(c decorapi.MuxContext) error {
		return c.SendStatus(http.StatusNoContent)
	}))

	rec := serve(mux, httptest.NewRequest(http.MethodPut, "/pets/3?kind=dog", strings.NewReader("hello")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"method":"PUT","path":"/pets/:id","id":"3","kind":"dog","body":"hello"}`, rec.Body.String())

	rec = serve(mux, httptest.NewRequest(http.MethodDelete, "/pets/3", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestEchoMux_UnknownMethod(t *testing.T) {
	mux := echoWrapper.NewWrapper(echo.New())
	noop := func(c decorapi.MuxContext) error { return nil }

	assert.ErrorIs(t, mux.BindRoute(http.MethodConnect, "/", noop), decorapi.ErrUnknownMethod)
	assert.ErrorIs(t, mux.Group("/g").BindRoute("FETCH", "/", noop), decorapi.ErrUnknownMethod)
}

func TestEchoContext_SendString(t *testing.T) {
	mux := echoWrapper.NewWrapper(echo.New())
	require.NoError(t, mux.BindRoute(http.MethodGet, "/page", func(c decorapi.MuxContext) error {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusAccepted)
		return c.SendString("<html></html>")
	}))
	require.NoError(t, mux.BindRoute(http.MethodGet, "/text", func(c decorapi.MuxContext) error {
		return c.SendString("plain")
	}))

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html></html>", rec.Body.String())

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/text", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "plain", rec.Body.String())
}

type NoteController struct{}

type Note struct {
	Text string `json:"text"`
}

func (c *NoteController) Create(note Note) (Note, error) { return note, nil }

func (c *NoteController) List() []Note { return []Note{{Text: "a"}} }

func TestEchoMux_Register(t *testing.T) {
	reg := metadata.NewRegistry()
	require.NoError(t, annotation.For(reg, &NoteController{}).
		Controller("notes").
		Get("/", "List").
		Post("/", "Create").
		Err())

	mux := echoWrapper.NewWrapper(echo.New())
	app := decorapi.New(reg, decorapi.Config{Logger: logger.Discard(), DocsWriteDisabled: true})
	_, err := app.Register(mux, []any{&NoteController{}}, openapi.Options{Title: "Notes", Version: "1", Base: "/api"})
	require.NoError(t, err)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"text":"a"}]`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(`{"text":"b"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = serve(mux, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"text":"b"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(decorapi.HeaderRequestID))

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/swagger/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/api/notes"`)
}
