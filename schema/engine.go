package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Engine 模型文档推断引擎
//
// 结构体的推断结果按 reflect.Type 缓存; 进入结构体字段之前会先缓存一个 {type:object} 占位节点,
// 自引用或循环引用的类型因此会在循环处得到该占位节点, 而不会无限递归.
// 占位节点不会被修改, 结构体推断完成后由完整的节点替换.
// 指针、切片和 map 也可以引用自身(type Tree map[string]Tree), 推断中的这类类型记录在 visiting 中,
// 再次遇到时同样得到 {type:object}.
//
// 引擎从不 panic, 无法识别的类型一律退化为 {type:object}.
type Engine struct {
	mu       sync.Mutex
	cache    map[reflect.Type]*Node
	visiting map[reflect.Type]bool
	names    map[string]reflect.Type // 文本类型推断时可按名称查找的类型
}

func NewEngine() *Engine {
	return &Engine{
		cache:    make(map[reflect.Type]*Node),
		visiting: make(map[reflect.Type]bool),
		names:    make(map[string]reflect.Type),
	}
}

// Register 登记一个可按名称查找的类型, name 为空时使用类型名和 "包名.类型名"
func (e *Engine) Register(name string, rt reflect.Type) *Engine {
	if rt == nil {
		return e
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if name != "" {
		e.names[name] = rt
		return e
	}
	if rt.Name() != "" {
		e.names[rt.Name()] = rt
		e.names[rt.String()] = rt
	}
	return e
}

// RegisterModel 登记模型对象的类型
func (e *Engine) RegisterModel(models ...any) *Engine {
	for _, m := range models {
		e.Register("", reflect.TypeOf(m))
	}
	return e
}

// Reset 清空缓存和类型表
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cache = make(map[reflect.Type]*Node)
	e.visiting = make(map[reflect.Type]bool)
	e.names = make(map[string]reflect.Type)
}

// Infer 由类型推断模型文档
func (e *Engine) Infer(rt reflect.Type) *Node {
	if rt == nil {
		return Object()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.infer(rt)
}

// InferValue 由运行时的值推断模型文档
func (e *Engine) InferValue(v any) *Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.inferValue(reflect.ValueOf(v), make(map[visit]bool))
}

// InferText 由文本形式的类型声明推断模型文档, 例如 "Array<Pet>", "[]Pet", "Pet", "string"
func (e *Engine) InferText(text string) *Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.inferText(text)
}

func (e *Engine) infer(rt reflect.Type) *Node {
	if n, ok := e.cache[rt]; ok {
		return n
	}
	if e.visiting[rt] {
		return Object()
	}

	switch rt {
	case timeType:
		return DateTime()
	case jsonNumberType:
		return Number()
	case rawMessageType:
		return Object()
	}

	switch rt.Kind() {
	case reflect.Bool:
		return Boolean()
	case reflect.String:
		return String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Uint, reflect.Uint8, reflect.Uint16:
		return Integer()
	case reflect.Int32, reflect.Uint32:
		return &Node{Type: IntegerType, Format: Int32Format}
	case reflect.Int64, reflect.Uint64:
		return &Node{Type: IntegerType, Format: Int64Format}
	case reflect.Float32:
		return &Node{Type: NumberType, Format: FloatFormat}
	case reflect.Float64:
		return &Node{Type: NumberType, Format: DoubleFormat}

	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		e.visiting[rt] = true
		defer delete(e.visiting, rt)
	}

	switch rt.Kind() {
	case reflect.Pointer:
		n := e.infer(rt.Elem()).Clone()
		n.Nullable = true
		return n

	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return Binary()
		}
		return ArrayOf(e.elemOf(rt))

	case reflect.Map:
		n := Object()
		if rt.Elem().Kind() != reflect.Interface {
			n.AdditionalProperties = e.infer(rt.Elem())
		}
		return n

	case reflect.Interface:
		if rt.Implements(readerType) {
			return Binary()
		}
		return Object()

	case reflect.Struct:
		return e.inferStruct(rt)

	case reflect.Func:
		return e.inferFunc(rt)

	default: // chan, complex, unsafe.Pointer
		return Object()
	}
}

// 数组元素模型, 元素类型为 interface 时尝试从类型名称中恢复元素类型, 例如泛型 List[pkg.User]
func (e *Engine) elemOf(rt reflect.Type) *Node {
	elem := rt.Elem()
	if elem.Kind() != reflect.Interface || elem.Implements(readerType) {
		return e.infer(elem)
	}
	if name, ok := genericElemName(rt.Name()); ok {
		return e.inferName(name)
	}
	return Object()
}

func (e *Engine) inferStruct(rt reflect.Type) *Node {
	e.cache[rt] = Object() // 占位节点

	node := &Node{Type: ObjectType, Properties: NewProperties()}
	e.collectFields(rt, exampleOf(rt), node, map[reflect.Type]bool{rt: true})

	if node.Properties.Len() == 0 {
		name := rt.Name()
		if name == "" {
			name = rt.String()
		}
		node = &Node{Type: ObjectType, Description: FallbackDescriptionPrefix + name}
	}

	e.cache[rt] = node
	return node
}

// collectFields 提取结构体的导出字段, 匿名嵌入的结构体字段会被展开到当前层级
func (e *Engine) collectFields(rt reflect.Type, example reflect.Value, node *Node, seen map[reflect.Type]bool) {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := QueryJsonName(field.Tag, field.Name)
		if name == "-" {
			continue
		}

		var fv reflect.Value
		if example.IsValid() {
			fv = indirect(example.Field(i))
		}

		if field.Anonymous && field.Tag.Get(JsonTagName) == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct && !seen[embedded] && embedded != timeType {
				seen[embedded] = true
				e.collectFields(embedded, fv, node, seen)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}

		node.Properties.Set(name, e.fieldSchema(field, fv))
		if IsFieldRequired(field.Tag) {
			node.Required = append(node.Required, name)
		}
	}
}

func (e *Engine) fieldSchema(field reflect.StructField, example reflect.Value) *Node {
	var base *Node
	switch {
	case field.Tag.Get(TypeHintTagName) != "":
		base = e.inferText(field.Tag.Get(TypeHintTagName))
	case field.Type.Kind() == reflect.Interface && example.IsValid():
		base = e.inferValue(example, make(map[visit]bool))
	default:
		base = e.infer(field.Type)
	}

	return enrich(base, field.Tag)
}

func (e *Engine) inferFunc(rt reflect.Type) *Node {
	node := &Node{Type: ObjectType, Properties: NewProperties()}
	for i := 0; i < rt.NumIn(); i++ {
		node.Properties.Set(fmt.Sprintf("arg%d", i), Object())
	}
	if node.Properties.Len() == 0 {
		node.Properties = nil
	}
	return node
}

// visit 推断中的 map 或切片值, 用于识别包含自身的值
type visit struct {
	ptr uintptr
	typ reflect.Type
}

func (e *Engine) inferValue(rv reflect.Value, visited map[visit]bool) *Node {
	rv = indirect(rv)
	if !rv.IsValid() {
		return Object()
	}

	if kind := rv.Kind(); (kind == reflect.Map || kind == reflect.Slice) && !rv.IsNil() {
		v := visit{ptr: rv.Pointer(), typ: rv.Type()}
		if visited[v] {
			return Object()
		}
		visited[v] = true
		defer delete(visited, v)
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary()
		}
		if rv.Len() == 0 {
			return ArrayOf(nil)
		}
		return ArrayOf(e.inferValue(rv.Index(0), visited))

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Object()
		}
		keys := make([]string, 0, rv.Len())
		values := make(map[string]reflect.Value, rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			k := iter.Key().String()
			if strings.HasPrefix(k, "_") { // 私有属性
				continue
			}
			keys = append(keys, k)
			values[k] = iter.Value()
		}
		if len(keys) == 0 {
			return Object()
		}
		sort.Strings(keys)

		node := &Node{Type: ObjectType, Properties: NewProperties()}
		for _, k := range keys {
			node.Properties.Set(k, e.inferValue(values[k], visited))
		}
		return node

	default:
		return e.infer(rv.Type())
	}
}

// 解除指针和接口的包装, nil 返回无效的 reflect.Value
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// 获取模型的示例值, 模型未实现 Exampler 或示例值类型不匹配时返回无效值
func exampleOf(rt reflect.Type) (example reflect.Value) {
	var v any
	switch {
	case rt.Implements(examplerType):
		v = reflect.Zero(rt).Interface()
	case reflect.PointerTo(rt).Implements(examplerType):
		v = reflect.New(rt).Interface()
	default:
		return
	}

	defer func() {
		if recover() != nil { // 示例方法不可用时忽略
			example = reflect.Value{}
		}
	}()

	example = indirect(reflect.ValueOf(v.(Exampler).OpenAPIExample()))
	if !example.IsValid() || example.Type() != rt {
		return reflect.Value{}
	}
	return example
}
