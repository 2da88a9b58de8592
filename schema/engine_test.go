package schema

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/Chendemo12/decorapi/utils"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Address struct {
	Street string `json:"street" validate:"required" description:"街道"`
	City   string `json:"city"`
}

type User struct {
	ID        int64     `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required,min=1,max=32"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Role      string    `json:"role" validate:"oneof=admin member" default:"member"`
	CreatedAt time.Time `json:"createdAt"`
	Address   *Address  `json:"address"`
	Tags      []string  `json:"tags"`
	Avatar    []byte    `json:"avatar"`
	Extra     map[string]int
	secret    string
	Ignored   string `json:"-"`
}

type TreeNode struct {
	Value    string      `json:"value"`
	Parent   *TreeNode   `json:"parent"`
	Children []*TreeNode `json:"children"`
}

type Base struct {
	ID string `json:"id"`
}

type Article struct {
	Base
	Title string `json:"title"`
}

type Empty struct{}

type Envelope struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

func (Envelope) OpenAPIExample() any {
	return Envelope{Code: 0, Data: map[string]any{"items": []string{"a"}, "_internal": true}}
}

type Hinted struct {
	Users any `json:"users" schema:"Array<User>"`
}

func TestEngine_InferPrimitives(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name string
		typ  reflect.Type
		want *Node
	}{
		{name: "string", typ: reflect.TypeOf(""), want: &Node{Type: StringType}},
		{name: "bool", typ: reflect.TypeOf(true), want: &Node{Type: BoolType}},
		{name: "int", typ: reflect.TypeOf(0), want: &Node{Type: IntegerType}},
		{name: "int64", typ: reflect.TypeOf(int64(0)), want: &Node{Type: IntegerType, Format: Int64Format}},
		{name: "uint32", typ: reflect.TypeOf(uint32(0)), want: &Node{Type: IntegerType, Format: Int32Format}},
		{name: "float64", typ: reflect.TypeOf(0.1), want: &Node{Type: NumberType, Format: DoubleFormat}},
		{name: "time", typ: reflect.TypeOf(time.Time{}), want: &Node{Type: StringType, Format: DateTimeFormat}},
		{name: "bytes", typ: reflect.TypeOf([]byte{}), want: &Node{Type: StringType, Format: BinaryFormat}},
		{name: "raw json", typ: reflect.TypeOf(json.RawMessage{}), want: &Node{Type: ObjectType}},
		{name: "json number", typ: reflect.TypeOf(json.Number("")), want: &Node{Type: NumberType}},
		{name: "any", typ: reflect.TypeOf((*any)(nil)).Elem(), want: &Node{Type: ObjectType}},
		{name: "slice of any", typ: reflect.TypeOf([]any{}), want: &Node{Type: ArrayType, Items: &Node{Type: ObjectType}}},
		{name: "chan", typ: reflect.TypeOf(make(chan int)), want: &Node{Type: ObjectType}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Infer(tt.typ))
		})
	}
}

func TestEngine_InferStruct(t *testing.T) {
	e := NewEngine()
	node := e.Infer(reflect.TypeOf(User{}))

	require.Equal(t, ObjectType, node.Type)
	assert.Equal(t,
		[]string{"id", "name", "email", "role", "createdAt", "address", "tags", "avatar", "Extra"},
		node.Properties.Keys(),
	)
	assert.Equal(t, []string{"id", "name"}, node.Required)

	assert.Equal(t, &Node{Type: StringType, Format: DateTimeFormat}, node.Property("createdAt"))
	assert.Equal(t, &Node{Type: ArrayType, Items: &Node{Type: StringType}}, node.Property("tags"))
	assert.Equal(t, BinaryFormat, node.Property("avatar").Format)
	assert.Equal(t, &Node{Type: IntegerType}, node.Property("Extra").AdditionalProperties)

	name := node.Property("name")
	require.NotNil(t, name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.EqualValues(t, 1, *name.MinLength)
	assert.EqualValues(t, 32, *name.MaxLength)

	assert.Equal(t, "email", node.Property("email").Format)
	assert.Equal(t, []any{"admin", "member"}, node.Property("role").Enum)
	assert.Equal(t, "member", node.Property("role").Default)

	addr := node.Property("address")
	assert.True(t, addr.Nullable)
	assert.Equal(t, "街道", addr.Property("street").Description)
	assert.True(t, addr.IsRequired("street"))

	// 缓存中的结构体节点不受指针字段的 nullable 影响
	assert.False(t, e.Infer(reflect.TypeOf(Address{})).Nullable)
}

func TestEngine_InferSelfReferential(t *testing.T) {
	e := NewEngine()
	node := e.Infer(reflect.TypeOf(TreeNode{}))

	require.Equal(t, []string{"value", "parent", "children"}, node.Properties.Keys())

	parent := node.Property("parent")
	assert.Equal(t, ObjectType, parent.Type)
	assert.Nil(t, parent.Properties, "cycle point should be a placeholder object")

	children := node.Property("children")
	require.Equal(t, ArrayType, children.Type)
	assert.Equal(t, ObjectType, children.Items.Type)
	assert.Nil(t, children.Items.Properties)

	// 循环结构可以被序列化
	_, err := utils.JsonMarshal(node)
	assert.NoError(t, err)

	// 第二次推断命中缓存
	assert.Same(t, node, e.Infer(reflect.TypeOf(TreeNode{})))
}

type (
	Tree     map[string]Tree
	NodeList []NodeList
	Chain    *Chain
)

type Forest struct {
	Name  string `json:"name"`
	Trees Tree   `json:"trees"`
}

func TestEngine_InferRecursiveContainers(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		check func(t *testing.T, node *Node)
	}{
		{
			name: "map of itself",
			typ:  reflect.TypeOf(Tree{}),
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, ObjectType, node.Type)
				require.NotNil(t, node.AdditionalProperties)
				assert.Equal(t, ObjectType, node.AdditionalProperties.Type)
				assert.Nil(t, node.AdditionalProperties.AdditionalProperties)
			},
		},
		{
			name: "slice of itself",
			typ:  reflect.TypeOf(NodeList{}),
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, ArrayType, node.Type)
				require.NotNil(t, node.Items)
				assert.Equal(t, ObjectType, node.Items.Type)
				assert.Nil(t, node.Items.Items)
			},
		},
		{
			name: "pointer to itself",
			typ:  reflect.TypeOf(Chain(nil)),
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, ObjectType, node.Type)
				assert.True(t, node.Nullable)
			},
		},
		{
			name: "struct field of a recursive map",
			typ:  reflect.TypeOf(Forest{}),
			check: func(t *testing.T, node *Node) {
				assert.Equal(t, []string{"name", "trees"}, node.Properties.Keys())
				assert.Equal(t, ObjectType, node.Property("trees").AdditionalProperties.Type)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			node := e.Infer(tt.typ)
			tt.check(t, node)

			// 再次推断不受上一次的影响
			assert.Equal(t, node, e.Infer(tt.typ))
		})
	}
}

func TestEngine_InferValueContainingItself(t *testing.T) {
	e := NewEngine()

	m := map[string]any{"name": "root"}
	m["self"] = m
	node := e.InferValue(m)
	require.Equal(t, []string{"name", "self"}, node.Properties.Keys())
	assert.Equal(t, StringType, node.Property("name").Type)
	assert.Equal(t, ObjectType, node.Property("self").Type)
	assert.Nil(t, node.Property("self").Properties)

	s := []any{nil}
	s[0] = s
	list := e.InferValue(s)
	assert.Equal(t, ArrayType, list.Type)
	require.NotNil(t, list.Items)
	assert.Equal(t, ObjectType, list.Items.Type)

	// 同一个值出现在兄弟位置时不视为循环
	shared := map[string]any{"id": 1}
	pair := e.InferValue(map[string]any{"a": shared, "b": shared})
	assert.Equal(t, []string{"id"}, pair.Property("a").Properties.Keys())
	assert.Equal(t, []string{"id"}, pair.Property("b").Properties.Keys())
}

func TestEngine_InferEmbeddedAndFallback(t *testing.T) {
	e := NewEngine()

	article := e.Infer(reflect.TypeOf(Article{}))
	assert.Equal(t, []string{"id", "title"}, article.Properties.Keys())

	empty := e.Infer(reflect.TypeOf(Empty{}))
	assert.Equal(t, &Node{Type: ObjectType, Description: "Schema for type Empty"}, empty)
}

func TestEngine_InferFromExample(t *testing.T) {
	e := NewEngine()
	node := e.Infer(reflect.TypeOf(Envelope{}))

	data := node.Property("data")
	require.NotNil(t, data)
	assert.Equal(t, []string{"items"}, data.Properties.Keys())
	assert.Equal(t, &Node{Type: ArrayType, Items: &Node{Type: StringType}}, data.Property("items"))
}

func TestEngine_InferTypeHint(t *testing.T) {
	e := NewEngine()
	e.RegisterModel(User{})

	node := e.Infer(reflect.TypeOf(Hinted{}))
	users := node.Property("users")
	require.Equal(t, ArrayType, users.Type)
	assert.Equal(t, ObjectType, users.Items.Type)
	assert.Contains(t, users.Items.Properties.Keys(), "createdAt")
}

func TestEngine_InferFunc(t *testing.T) {
	e := NewEngine()
	node := e.Infer(reflect.TypeOf(func(a string, b int) error { return nil }))

	assert.Equal(t, ObjectType, node.Type)
	assert.Equal(t, []string{"arg0", "arg1"}, node.Properties.Keys())
	assert.Equal(t, &Node{Type: ObjectType}, node.Property("arg1"))
}

func TestEngine_InferValue(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name  string
		value any
		want  *Node
	}{
		{name: "nil", value: nil, want: &Node{Type: ObjectType}},
		{name: "string", value: "x", want: &Node{Type: StringType}},
		{name: "bool", value: false, want: &Node{Type: BoolType}},
		{name: "date", value: time.Now(), want: &Node{Type: StringType, Format: DateTimeFormat}},
		{name: "empty slice", value: []any{}, want: &Node{Type: ArrayType, Items: &Node{Type: ObjectType}}},
		{name: "slice", value: []any{"a", 1}, want: &Node{Type: ArrayType, Items: &Node{Type: StringType}}},
		{name: "nil pointer", value: (*User)(nil), want: &Node{Type: ObjectType}},
		{name: "empty map", value: map[string]any{"_hidden": 1}, want: &Node{Type: ObjectType}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.InferValue(tt.value))
		})
	}

	t.Run("map", func(t *testing.T) {
		node := e.InferValue(map[string]any{"b": 1.5, "a": []int{1}, "_c": "x"})
		assert.Equal(t, []string{"a", "b"}, node.Properties.Keys())
		assert.Equal(t, &Node{Type: NumberType, Format: DoubleFormat}, node.Property("b"))
	})

	t.Run("struct", func(t *testing.T) {
		node := e.InferValue(&Address{Street: "x"})
		assert.Equal(t, []string{"street", "city"}, node.Properties.Keys())
	})
}

func TestEngine_SchemaCompiles(t *testing.T) {
	e := NewEngine()
	node := e.Infer(reflect.TypeOf(User{}))

	bs, err := utils.JsonMarshal(node)
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("user.json", bytes.NewReader(bs)))
	compiled, err := compiler.Compile("user.json")
	require.NoError(t, err)

	var valid any
	require.NoError(t, utils.JsonUnmarshal([]byte(`{"id": 1, "name": "tom", "role": "admin", "tags": ["a"]}`), &valid))
	assert.NoError(t, compiled.Validate(valid))

	var invalid any
	require.NoError(t, utils.JsonUnmarshal([]byte(`{"name": "tom"}`), &invalid))
	assert.Error(t, compiled.Validate(invalid), "id is required")
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine()
	first := e.Infer(reflect.TypeOf(Address{}))
	e.Reset()
	assert.NotSame(t, first, e.Infer(reflect.TypeOf(Address{})))
}
