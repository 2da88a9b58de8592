package annotation

import (
	"context"
	"errors"
	"testing"

	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/pathschema"
	"github.com/Chendemo12/decorapi/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Pet struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age"`
}

type PetController struct{}

func (c *PetController) List(ctx context.Context) ([]*Pet, error)             { return nil, nil }
func (c *PetController) Find(ctx context.Context, id string) (*Pet, error)    { return nil, nil }
func (c *PetController) Create(ctx context.Context, pet *Pet) (*Pet, error)   { return pet, nil }
func (c *PetController) Replace(ctx context.Context, pet Pet) (string, error) { return "", nil }
func (c *PetController) Remove(ctx context.Context, id string) error          { return nil }
func (c *PetController) Search(q string, limit int) (any, error)              { return nil, nil }
func (c *PetController) Ping()                                                {}

type ScanController struct{}

func (c *ScanController) GetClipboardContent() (string, error) { return "", nil }
func (c *ScanController) ClipSettingsPost(s *Pet) error        { return nil }
func (c *ScanController) Helper() string                       { return "" }

func routeOf(t *testing.T, reg *metadata.Registry, handler string) *metadata.RouteDescriptor {
	t.Helper()
	for _, r := range reg.Routes(metadata.TypeOf(&PetController{})) {
		if r.HandlerName == handler {
			return r
		}
	}
	t.Fatalf("route %s not registered", handler)
	return nil
}

func TestDeclarer_Controller(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "no leading slash", path: "users", want: "/users"},
		{name: "leading slash", path: "/users", want: "/users"},
		{name: "repeated", path: "//users", want: "/users"},
		{name: "empty", path: "", want: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := metadata.NewRegistry()
			For(reg, PetController{}).Controller(tt.path, ControllerOption{Description: "pets", Tags: []string{"Pet"}})

			d, ok := reg.Controller(metadata.TypeOf(&PetController{}))
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Path)
			assert.Equal(t, "PetController", d.Name)
			assert.Equal(t, []string{"Pet"}, d.Tags)
		})
	}
}

func TestDeclarer_GetRoute(t *testing.T) {
	reg := metadata.NewRegistry()
	err := For(reg, &PetController{}).
		Controller("pets").
		Get("/", "List", RouteOption{Summary: "list pets", Tags: []string{"Pet"}}).
		Get(":id", "Find").
		Err()
	require.NoError(t, err)

	list := routeOf(t, reg, "List")
	assert.Equal(t, metadata.MethodGet, list.Method)
	assert.Equal(t, "/", list.Path)
	assert.Equal(t, "list pets", list.Summary)
	assert.Empty(t, list.Parameters, "context is injected and GET has no body")
	assert.Equal(t, 200, list.SuccessStatus)

	resp := list.Responses["200"]
	require.NotNil(t, resp)
	assert.Equal(t, SuccessDescription, resp.Description)
	items := resp.Content[MIMEApplicationJSON].Schema
	require.Equal(t, schema.ArrayType, items.Type)
	assert.Equal(t, []string{"name", "age"}, items.Items.Properties.Keys())

	find := routeOf(t, reg, "Find")
	assert.Equal(t, "/:id", find.Path)
	require.Len(t, find.Parameters, 1)
	assert.Equal(t, &metadata.ParameterDescriptor{
		Name: "id", In: metadata.InPath, Required: true, Type: "string",
		Schema: schema.String(), Index: metadata.NotBound,
	}, find.Parameters[0])
}

func TestDeclarer_SynthesizedBody(t *testing.T) {
	reg := metadata.NewRegistry()
	For(reg, &PetController{}).
		Post("/", "Create").
		Put("/:id", "Replace").
		Patch("/:id", "Replace")

	routes := reg.Routes(metadata.TypeOf(&PetController{}))
	require.Len(t, routes, 3)

	create := routes[0]
	body := create.Body()
	require.NotNil(t, body)
	assert.Equal(t, 1, body.Index, "first non injected parameter")
	assert.True(t, body.Required)
	assert.Equal(t, []string{"name", "age"}, body.Schema.Properties.Keys())

	assert.Equal(t, 201, create.SuccessStatus)
	require.Contains(t, create.Responses, "201")
	assert.NotContains(t, create.Responses, "200")
	assert.Same(t, body.Schema, create.Responses["201"].Content[MIMEApplicationJSON].Schema,
		"a handler returning its body type reuses the body schema")

	for _, r := range routes[1:] {
		assert.Equal(t, 200, r.SuccessStatus, r.Method)
		assert.Contains(t, r.Responses, "200")
		assert.NotNil(t, r.Body())
	}
	replace := routes[1].Responses["200"].Content[MIMEApplicationJSON].Schema
	assert.Equal(t, schema.String(), replace)
}

func TestDeclarer_ExplicitBody(t *testing.T) {
	reg := metadata.NewRegistry()
	err := For(reg, &PetController{}).
		Body("Create", 1, BodyOption{Description: "new pet", Required: Optional()}).
		Post("/", "Create").
		Err()
	require.NoError(t, err)

	create := routeOf(t, reg, "Create")
	bodies := 0
	for _, p := range create.Parameters {
		if p.In == metadata.InBody {
			bodies++
		}
	}
	assert.Equal(t, 1, bodies, "explicit body is never duplicated")
	assert.Equal(t, "new pet", create.Body().Description)
	assert.False(t, create.Body().Required)
	assert.Equal(t, "object", create.Body().Type)
}

func TestDeclarer_Params(t *testing.T) {
	reg := metadata.NewRegistry()
	err := For(reg, &PetController{}).
		Query("Search", 0, "q", ParamOption{Description: "keyword", Required: true}).
		Query("Search", 1, "limit").
		Get("/search", "Search").
		PathParam("Remove", 1, "id").
		Delete("/:id", "Remove").
		Err()
	require.NoError(t, err)

	search := routeOf(t, reg, "Search")
	require.Len(t, search.Parameters, 2)
	assert.Equal(t, "q", search.Parameters[0].Name)
	assert.True(t, search.Parameters[0].Required)
	assert.Equal(t, "integer", search.Parameters[1].Type)
	assert.Equal(t, 1, search.Parameters[1].Index)

	remove := routeOf(t, reg, "Remove")
	require.Len(t, remove.Parameters, 1, "declared path parameter is not added twice")
	assert.Equal(t, 1, remove.Parameters[0].Index)
	assert.Equal(t, SuccessDescription, remove.Responses["200"].Description)
	assert.Nil(t, remove.Responses["200"].Content, "error-only handlers have no content")
}

func TestDeclarer_ExplicitResponses(t *testing.T) {
	reg := metadata.NewRegistry()
	For(reg, &PetController{}).
		Post("/", "Create", RouteOption{Responses: map[string]*metadata.ResponseDescriptor{
			"200": {Description: "ok"},
			"400": {Description: "bad request"},
		}})

	create := routeOf(t, reg, "Create")
	assert.Len(t, create.Responses, 2)
	assert.NotContains(t, create.Responses, "201")
	assert.Equal(t, 200, create.SuccessStatus)
}

func TestDeclarer_Returns(t *testing.T) {
	reg := metadata.NewRegistry()
	reg.Schemas().RegisterModel(Pet{})

	For(reg, &PetController{}).Get("/search", "Search", RouteOption{Returns: "Array<Pet>"})

	node := routeOf(t, reg, "Search").Responses["200"].Content[MIMEApplicationJSON].Schema
	require.Equal(t, schema.ArrayType, node.Type)
	assert.Equal(t, []string{"name", "age"}, node.Items.Properties.Keys())
}

func TestDeclarer_NoReturn(t *testing.T) {
	reg := metadata.NewRegistry()
	For(reg, &PetController{}).Options("/", "Ping").Head("/", "Ping")

	routes := reg.Routes(metadata.TypeOf(&PetController{}))
	require.Len(t, routes, 2)
	assert.Equal(t, metadata.MethodOptions, routes[0].Method)
	assert.Equal(t, metadata.MethodHead, routes[1].Method)
	assert.Nil(t, routes[0].Responses["200"].Content)
}

func TestDeclarer_Errors(t *testing.T) {
	reg := metadata.NewRegistry()
	d := For(reg, &PetController{}).
		Body("Missing", 0).
		Get("/", "Missing").
		Body("Create", 5).
		Get("/lower", "ping")

	err := d.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownHandler))
	assert.True(t, errors.Is(err, ErrBadParamIndex))
	assert.Empty(t, reg.Routes(d.ID()), "failed declarations register nothing")
}

func TestDeclarer_NilController(t *testing.T) {
	reg := metadata.NewRegistry()
	d := For(reg, nil)
	assert.NotPanics(t, func() {
		d.Controller("nil").
			Body("Create", 0).
			Query("List", 0, "q").
			PathParam("Find", 0, "id").
			Header("List", 0, "X-Token").
			Get("/", "List").
			Post("/", "Create").
			Scan(pathschema.Default())
	})

	err := d.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownController))
	assert.False(t, errors.Is(err, ErrUnknownHandler), "later declarations are ignored silently")
	assert.Nil(t, d.ID())
	assert.Empty(t, reg.Controllers())
}

func TestDeclarer_Scan(t *testing.T) {
	reg := metadata.NewRegistry()
	id := metadata.TypeOf(&ScanController{})
	err := For(reg, &ScanController{}).
		Controller("clip").
		Get("/custom", "GetClipboardContent").
		Scan(pathschema.Default()).
		Err()
	require.NoError(t, err)

	routes := reg.Routes(id)
	require.Len(t, routes, 2)
	assert.Equal(t, "/custom", routes[0].Path, "declared routes are kept")
	assert.Equal(t, metadata.MethodPost, routes[1].Method)
	assert.Equal(t, "/clip-settings", routes[1].Path)
	assert.NotNil(t, routes[1].Body())
}

func TestIsRouteMethod(t *testing.T) {
	tests := []struct {
		name     string
		method   metadata.HTTPMethod
		relative string
		ok       bool
	}{
		{name: "GetClipboardContent", method: metadata.MethodGet, relative: "ClipboardContent", ok: true},
		{name: "ClipSettingsPost", method: metadata.MethodPost, relative: "ClipSettings", ok: true},
		{name: "DeleteUser", method: metadata.MethodDelete, relative: "User", ok: true},
		{name: "UserPatch", method: metadata.MethodPatch, relative: "User", ok: true},
		{name: "Getaway", ok: false},
		{name: "Helper", ok: false},
		{name: "Get", ok: false},
		{name: "getUser", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, relative, ok := IsRouteMethod(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.method, method)
			assert.Equal(t, tt.relative, relative)
		})
	}
}
