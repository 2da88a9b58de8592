package schema

import (
	"bytes"

	"github.com/Chendemo12/decorapi/utils"
	"gopkg.in/yaml.v3"
)

// Exampler 可由模型实现, 返回一个示例值
// 对于声明为 any/interface 的字段, 引擎会根据示例值中对应字段的运行时类型推断其文档
type Exampler interface {
	OpenAPIExample() any
}

// Node JSON-Schema 风格的模型文档节点
type Node struct {
	Type                 DataType    `json:"type,omitempty" yaml:"type,omitempty" description:"数据类型"`
	Format               string      `json:"format,omitempty" yaml:"format,omitempty" description:"针对特殊类型的格式化参数"`
	Description          string      `json:"description,omitempty" yaml:"description,omitempty" description:"说明"`
	Nullable             bool        `json:"nullable,omitempty" yaml:"nullable,omitempty" description:"是否可为null"`
	Default              any         `json:"default,omitempty" yaml:"default,omitempty" description:"默认值"`
	Example              any         `json:"example,omitempty" yaml:"example,omitempty" description:"示例值"`
	Enum                 []any       `json:"enum,omitempty" yaml:"enum,omitempty" description:"枚举值"`
	Minimum              *float64    `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum              *float64    `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinLength            *uint64     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength            *uint64     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinItems             *uint64     `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems             *uint64     `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Items                *Node       `json:"items,omitempty" yaml:"items,omitempty" description:"数组元素模型"`
	Properties           *Properties `json:"properties,omitempty" yaml:"properties,omitempty" description:"结构体字段"`
	Required             []string    `json:"required,omitempty" yaml:"required,omitempty" description:"必填字段"`
	AdditionalProperties *Node       `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

func String() *Node   { return &Node{Type: StringType} }
func Number() *Node   { return &Node{Type: NumberType} }
func Integer() *Node  { return &Node{Type: IntegerType} }
func Boolean() *Node  { return &Node{Type: BoolType} }
func Object() *Node   { return &Node{Type: ObjectType} }
func DateTime() *Node { return &Node{Type: StringType, Format: DateTimeFormat} }
func Binary() *Node   { return &Node{Type: StringType, Format: BinaryFormat} }

// ArrayOf 以 items 为元素模型构造数组文档, items 为nil时元素缺省为 object
func ArrayOf(items *Node) *Node {
	if items == nil {
		items = Object()
	}
	return &Node{Type: ArrayType, Items: items}
}

// Clone 浅拷贝, 子节点仍然共享
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Required != nil {
		c.Required = append([]string(nil), n.Required...)
	}
	return &c
}

// Property 查找字段文档, 不存在时返回nil
func (n *Node) Property(name string) *Node {
	if n == nil || n.Properties == nil {
		return nil
	}
	p, _ := n.Properties.Get(name)
	return p
}

// IsRequired 字段是否被标记为必填
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Properties 有序的字段表, 序列化时保持字段的声明顺序
type Properties struct {
	keys []string
	m    map[string]*Node
}

func NewProperties() *Properties {
	return &Properties{keys: make([]string, 0), m: make(map[string]*Node)}
}

// Set 设置字段文档, 重复设置时保留首次出现的位置
func (p *Properties) Set(name string, node *Node) {
	if _, ok := p.m[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.m[name] = node
}

func (p *Properties) Get(name string) (*Node, bool) {
	node, ok := p.m[name]
	return node, ok
}

func (p *Properties) Keys() []string { return append([]string(nil), p.keys...) }

func (p *Properties) Len() int { return len(p.keys) }

// MarshalJSON 重载序列化方法
func (p *Properties) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := utils.JsonMarshal(k)
		if err != nil {
			return nil, err
		}
		value, err := utils.JsonMarshal(p.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML 以 MappingNode 输出, 保持字段顺序
func (p *Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range p.keys {
		value := &yaml.Node{}
		if err := value.Encode(p.m[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, value)
	}
	return node, nil
}
