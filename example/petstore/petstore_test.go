package petstore

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/logger"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/middleware/fiberWrapper"
	"github.com/Chendemo12/decorapi/openapi"
	"github.com/Chendemo12/decorapi/schema"
	"github.com/gofiber/fiber/v2"
	"github.com/pb33f/libopenapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, *openapi.Document) {
	t.Helper()
	reg := metadata.NewRegistry()
	require.NoError(t, Declare(reg))

	mux := fiberWrapper.NewWrapper(fiberWrapper.New())
	app := decorapi.New(reg, decorapi.Config{Logger: logger.Discard(), DocsWriteDisabled: true})
	doc, err := app.Register(mux, Controllers(NewStore()), openapi.Options{Title: "Petstore", Version: "1.0.0", Base: "/api"})
	require.NoError(t, err)

	return mux.App(), doc
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	bs, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(bs)
}

func TestPetstore_Flow(t *testing.T) {
	app, _ := setup(t)

	steps := []struct {
		name   string
		method string
		target string
		body   string
		status int
		want   string
	}{
		{"create", http.MethodPost, "/api/pets", `{"name":"rex"}`, 201, `{"id":1,"name":"rex","status":"available"}`},
		{"create second", http.MethodPost, "/api/pets", `{"name":"tom","status":"sold"}`, 201, `{"id":2,"name":"tom","status":"sold"}`},
		{"create without name", http.MethodPost, "/api/pets", `{}`, 422, ""},
		{"list", http.MethodGet, "/api/pets", "", 200, `[{"id":1,"name":"rex","status":"available"},{"id":2,"name":"tom","status":"sold"}]`},
		{"list by status", http.MethodGet, "/api/pets?status=sold", "", 200, `[{"id":2,"name":"tom","status":"sold"}]`},
		{"list limit", http.MethodGet, "/api/pets?limit=1", "", 200, `[{"id":1,"name":"rex","status":"available"}]`},
		{"find", http.MethodGet, "/api/pets/1", "", 200, `{"id":1,"name":"rex","status":"available"}`},
		{"find missing", http.MethodGet, "/api/pets/9", "", 404, ""},
		{"update", http.MethodPut, "/api/pets/2", `{"name":"tommy","status":"available"}`, 200, `{"id":2,"name":"tommy","status":"available"}`},
		{"order", http.MethodPost, "/api/store/order", `{"pet_id":1,"quantity":1,"ship_date":"2024-01-02T00:00:00Z"}`, 201,
			`{"id":3,"pet_id":1,"quantity":1,"ship_date":"2024-01-02T00:00:00Z","complete":false}`},
		{"order again", http.MethodPost, "/api/store/order", `{"pet_id":1,"quantity":1}`, 409, ""},
		{"inventory", http.MethodGet, "/api/store/inventory", "", 200, `{"available":1,"pending":1}`},
		{"remove", http.MethodDelete, "/api/pets/1", "", 200, ""},
		{"remove missing", http.MethodDelete, "/api/pets/1", "", 404, ""},
	}
	for _, s := range steps {
		status, body := call(t, app, s.method, s.target, s.body)
		assert.Equal(t, s.status, status, s.name)
		if s.want != "" {
			assert.JSONEq(t, s.want, body, s.name)
		}
	}
}

func TestPetstore_Document(t *testing.T) {
	_, doc := setup(t)

	assert.Equal(t, []string{"/api/pets", "/api/pets/{id}", "/api/store/inventory", "/api/store/order"}, doc.Paths.Keys())

	pets, ok := doc.Paths.Lookup("/api/pets")
	require.True(t, ok)
	list := pets.Get
	require.NotNil(t, list)
	assert.Equal(t, []string{"Pet"}, list.Tags)
	require.Len(t, list.Parameters, 2)
	assert.Equal(t, "status", list.Parameters[0].Name)
	assert.Equal(t, "query", list.Parameters[0].In)
	assert.Equal(t, schema.IntegerType, list.Parameters[1].Schema.Type)
	assert.Equal(t, schema.ArrayType, list.Responses["200"].Content[openapi.MIMEApplicationJSON].Schema.Type)

	create := pets.Post
	require.NotNil(t, create)
	require.NotNil(t, create.RequestBody)
	assert.Contains(t, create.Responses, "201")

	item, ok := doc.Paths.Lookup("/api/pets/{id}")
	require.True(t, ok)
	require.NotNil(t, item.Put)
	assert.Contains(t, item.Put.Responses, "404")
	assert.Contains(t, item.Put.Responses, "200")
	require.Len(t, item.Delete.Parameters, 1)
	assert.Equal(t, "path", item.Delete.Parameters[0].In)
	assert.True(t, item.Delete.Parameters[0].Required)

	bs, err := doc.JSON()
	require.NoError(t, err)
	parsed, err := libopenapi.NewDocument(bs)
	require.NoError(t, err)
	model, err := parsed.BuildV3Model()
	require.NoError(t, err)
	assert.Equal(t, 4, model.Model.Paths.PathItems.Len())
}
