package openapi

import (
	"bytes"
	"encoding/json"

	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/schema"
	"github.com/Chendemo12/decorapi/utils"
	"gopkg.in/yaml.v3"
)

// Document OpenAPI 文档
type Document struct {
	OpenAPI    string      `json:"openapi" yaml:"openapi" description:"Open API版本号"`
	Info       *Info       `json:"info" yaml:"info" description:"文档说明信息"`
	Servers    []*Server   `json:"servers" yaml:"servers" description:"服务地址"`
	Paths      *Paths      `json:"paths" yaml:"paths" description:"路由列表,同一路由存在多个方法文档"`
	Components *Components `json:"components" yaml:"components" description:"模型文档"`
}

// Info 文档说明信息
type Info struct {
	Title       string `json:"title" yaml:"title" description:"显示在文档顶部的标题"`
	Version     string `json:"version" yaml:"version" description:"显示在标题右上角的程序版本号"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" description:"显示在标题下方的说明"`
}

// Server 服务地址
type Server struct {
	URL         string `json:"url" yaml:"url" koanf:"url" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" koanf:"description"`
}

// Components openapi 的模型部分, 模型均以内联形式出现在路由中, 此处始终为空
type Components struct {
	Schemas map[string]*schema.Node `json:"schemas" yaml:"schemas"`
}

// Parameter 路径参数、查询参数或请求头
type Parameter struct {
	Name        string       `json:"name" yaml:"name" description:"名称"`
	In          string       `json:"in" yaml:"in" description:"参数位置"`
	Required    bool         `json:"required" yaml:"required" description:"是否必须"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" description:"说明"`
	Schema      *schema.Node `json:"schema,omitempty" yaml:"schema,omitempty" description:"字段模型"`
}

// MediaType 请求体或响应体的模型
type MediaType struct {
	Schema *schema.Node `json:"schema" yaml:"schema"`
}

// RequestBody 路由请求体模型文档
type RequestBody struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty" description:"说明"`
	Required    bool                  `json:"required" yaml:"required" description:"是否必须"`
	Content     map[string]*MediaType `json:"content" yaml:"content" description:"请求体模型"`
}

// Response 路由返回体
type Response struct {
	Description string                `json:"description" yaml:"description" description:"说明"`
	Content     map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty" description:"返回值模型"`
}

// Operation 路由HTTP方法: Get/Post/Patch/Delete 等操作方法
type Operation struct {
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty" description:"路由标签"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty" description:"摘要描述"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty" description:"说明"`
	OperationId string                `json:"operationId,omitempty" yaml:"operationId,omitempty" description:"唯一ID"`
	Parameters  []*Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty" description:"路径参数和查询参数"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty" description:"请求体"`
	Responses   map[string]*Response  `json:"responses" yaml:"responses" description:"响应体"`
	Security    []map[string][]string `json:"security,omitempty" yaml:"security,omitempty" description:"鉴权声明"`
	Deprecated  bool                  `json:"deprecated,omitempty" yaml:"deprecated,omitempty" description:"是否禁用"`
}

// PathItem 路由选项，由于同一个路由可以存在不同的操作方法，因此此选项可以存在多个 Operation
type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty" description:"GET方法"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty" description:"PUT方法"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty" description:"POST方法"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty" description:"DELETE方法"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty" description:"OPTIONS方法"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty" description:"HEAD方法"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty" description:"PATCH方法"`
}

// Set 设置方法的操作, 已存在时覆盖
func (p *PathItem) Set(method metadata.HTTPMethod, op *Operation) {
	switch method {
	case metadata.MethodPost:
		p.Post = op
	case metadata.MethodPut:
		p.Put = op
	case metadata.MethodDelete:
		p.Delete = op
	case metadata.MethodPatch:
		p.Patch = op
	case metadata.MethodOptions:
		p.Options = op
	case metadata.MethodHead:
		p.Head = op
	default:
		p.Get = op
	}
}

// Operation 查询方法的操作, 未设置时返回nil
func (p *PathItem) Operation(method metadata.HTTPMethod) *Operation {
	switch method {
	case metadata.MethodGet:
		return p.Get
	case metadata.MethodPost:
		return p.Post
	case metadata.MethodPut:
		return p.Put
	case metadata.MethodDelete:
		return p.Delete
	case metadata.MethodPatch:
		return p.Patch
	case metadata.MethodOptions:
		return p.Options
	case metadata.MethodHead:
		return p.Head
	}
	return nil
}

// Paths openapi 的路由部分, 按路由首次出现的顺序序列化
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

func NewPaths() *Paths {
	return &Paths{keys: make([]string, 0), items: make(map[string]*PathItem)}
}

// Item 查询路由对象, 不存在则新建
func (p *Paths) Item(path string) *PathItem {
	item, ok := p.items[path]
	if !ok {
		item = &PathItem{}
		p.items[path] = item
		p.keys = append(p.keys, path)
	}
	return item
}

// Lookup 查询路由对象
func (p *Paths) Lookup(path string) (*PathItem, bool) {
	item, ok := p.items[path]
	return item, ok
}

// Keys 全部路由, 按首次出现的顺序
func (p *Paths) Keys() []string { return append([]string(nil), p.keys...) }

func (p *Paths) Len() int { return len(p.keys) }

// MarshalJSON 重载序列化方法
func (p *Paths) MarshalJSON() ([]byte, error) {
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
		value, err := utils.JsonMarshal(p.items[k])
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

// MarshalYAML 以 MappingNode 输出, 保持路由顺序
func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range p.keys {
		value := &yaml.Node{}
		if err := value.Encode(p.items[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, value)
	}
	return node, nil
}

// JSON 序列化为缩进格式的 JSON 文档
func (d *Document) JSON() ([]byte, error) {
	bs, err := utils.JsonMarshal(d)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err = json.Indent(buf, bs, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML 序列化为 YAML 文档
func (d *Document) YAML() ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
