package metadata

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersController struct{}

type ordersController struct{}

func TestTypeOf(t *testing.T) {
	want := reflect.TypeOf(&usersController{})

	assert.Equal(t, want, TypeOf(usersController{}))
	assert.Equal(t, want, TypeOf(&usersController{}))
	assert.Equal(t, want, TypeOf(reflect.TypeOf(usersController{})))
	assert.Nil(t, TypeOf(nil))
}

func TestRegistry_RegisterController(t *testing.T) {
	reg := NewRegistry()
	users := TypeOf(usersController{})
	orders := TypeOf(ordersController{})

	reg.RegisterController(users, &ControllerDescriptor{Path: "/users", Tags: []string{"a"}})
	reg.RegisterController(orders, &ControllerDescriptor{Path: "/orders"})
	reg.RegisterController(users, &ControllerDescriptor{Path: "/members"})

	d, ok := reg.Controller(users)
	require.True(t, ok)
	assert.Equal(t, "/members", d.Path, "later registration overwrites")
	assert.Empty(t, d.Tags)

	snap := reg.Snapshot()
	assert.Equal(t, []reflect.Type{users, orders}, snap.Order, "order is fixed by the first registration")

	list := reg.Controllers()
	require.Len(t, list, 2)
	assert.Equal(t, "/members", list[0].Path)
	assert.Equal(t, "/orders", list[1].Path)
	assert.Len(t, snap.Controllers, 2)
}

func TestRegistry_RegisterRoute(t *testing.T) {
	reg := NewRegistry()
	id := TypeOf(usersController{})

	assert.Empty(t, reg.Routes(id), "missing routes are treated as zero routes")

	reg.RegisterRoute(id, &RouteDescriptor{Method: MethodGet, Path: "/", HandlerName: "List"})
	reg.RegisterRoute(id, &RouteDescriptor{Method: MethodPost, Path: "/", HandlerName: "Create"})

	routes := reg.Routes(id)
	require.Len(t, routes, 2)
	assert.Equal(t, "List", routes[0].HandlerName)
	assert.Equal(t, "Create", routes[1].HandlerName)
}

func TestRegistry_SnapshotIsLive(t *testing.T) {
	reg := NewRegistry()
	id := TypeOf(usersController{})
	reg.RegisterController(id, &ControllerDescriptor{Path: "/users"})

	snap := reg.Snapshot()
	stable := snap.Clone()

	reg.RegisterRoute(id, &RouteDescriptor{Method: MethodGet, Path: "/"})
	snap.Controllers[id].Description = "changed"

	assert.Len(t, reg.Snapshot().Routes[id], 1)
	assert.Len(t, snap.Routes[id], 1, "snapshot shares the backing maps")
	assert.Equal(t, "changed", reg.Snapshot().Controllers[id].Description)

	assert.Empty(t, stable.Routes[id])
	assert.Empty(t, stable.Controllers[id].Description)
}

func TestRegistry_Pending(t *testing.T) {
	reg := NewRegistry()
	id := TypeOf(usersController{})

	reg.AddPending(id, "Create", &ParameterDescriptor{Name: "body", In: InBody})
	reg.AddPending(id, "Create", &ParameterDescriptor{Name: "q", In: InQuery})
	reg.AddPending(id, "Update", &ParameterDescriptor{Name: "body", In: InBody})

	params := reg.TakePending(id, "Create")
	require.Len(t, params, 2)
	assert.Equal(t, "body", params[0].Name)
	assert.Empty(t, reg.TakePending(id, "Create"), "pending parameters are consumed")
	assert.Len(t, reg.TakePending(id, "Update"), 1)
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	id := TypeOf(usersController{})
	reg.RegisterController(id, &ControllerDescriptor{Path: "/users"})
	reg.RegisterRoute(id, &RouteDescriptor{Method: MethodGet, Path: "/"})

	reg.Reset()

	snap := reg.Snapshot()
	assert.Empty(t, snap.Controllers)
	assert.Empty(t, snap.Routes)
	assert.Empty(t, snap.Order)
}

func TestHTTPMethod(t *testing.T) {
	tests := []struct {
		method  HTTPMethod
		upper   string
		status  int
		hasBody bool
	}{
		{MethodGet, http.MethodGet, http.StatusOK, false},
		{MethodPost, http.MethodPost, http.StatusCreated, true},
		{MethodPut, http.MethodPut, http.StatusOK, true},
		{MethodPatch, http.MethodPatch, http.StatusOK, true},
		{MethodDelete, http.MethodDelete, http.StatusOK, false},
		{MethodHead, http.MethodHead, http.StatusOK, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.upper, tt.method.Upper())
			assert.Equal(t, tt.status, tt.method.SuccessStatus())
			assert.Equal(t, tt.hasBody, tt.method.HasBody())

			m, ok := ParseMethod(tt.upper)
			assert.True(t, ok)
			assert.Equal(t, tt.method, m)
		})
	}

	_, ok := ParseMethod("TRACE")
	assert.False(t, ok)
}
