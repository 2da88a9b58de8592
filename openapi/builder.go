// Package openapi 由元数据仓库生成 OpenAPI 3.0.0 文档
package openapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/pathschema"
	"github.com/Chendemo12/decorapi/schema"
	"github.com/Chendemo12/decorapi/utils"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Options 文档选项
type Options struct {
	Title       string    `json:"title" koanf:"title" validate:"required" description:"显示在文档顶部的标题"`
	Version     string    `json:"version" koanf:"version" validate:"required" description:"程序版本号"`
	Description string    `json:"description" koanf:"description" description:"说明"`
	Base        string    `json:"base" koanf:"base" description:"全局路由前缀"`
	Servers     []*Server `json:"servers" koanf:"servers" validate:"dive" description:"服务地址, 缺省为 [{url:/}]"`
}

// Validate 校验必填项, 返回的错误包含全部缺失的字段
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make([]string, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, fe.Namespace()+" "+fe.Tag())
	}
	return fmt.Errorf("invalid openapi options: %s", strings.Join(fields, ", "))
}

// Builder 文档构建器
type Builder struct {
	reg *metadata.Registry
}

func NewBuilder(reg *metadata.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build 按控制器的声明顺序为仓库内的全部控制器生成文档
func (b *Builder) Build(opts Options) *Document {
	return b.BuildFor(opts, b.reg.Snapshot().Clone().Order...)
}

// BuildFor 为指定的控制器生成文档, 未声明 Controller 的控制器以 "/" 为基础路由
//
// 路由和方法均相同的操作会相互覆盖, 后出现的生效.
func (b *Builder) BuildFor(opts Options, controllers ...reflect.Type) *Document {
	doc := &Document{
		OpenAPI: ApiVersion,
		Info: &Info{
			Title:       opts.Title,
			Version:     opts.Version,
			Description: opts.Description,
		},
		Servers:    opts.Servers,
		Paths:      NewPaths(),
		Components: &Components{Schemas: make(map[string]*schema.Node)},
	}
	if len(doc.Servers) == 0 {
		doc.Servers = []*Server{{URL: DefaultServerUrl}}
	}

	for _, id := range controllers {
		ctrl, ok := b.reg.Controller(id)
		if !ok {
			ctrl = &metadata.ControllerDescriptor{Path: pathschema.PathSeparator}
		}

		for _, route := range b.reg.Routes(id) {
			path := pathschema.ToOpenApiPath(pathschema.Compose(opts.Base, ctrl.Path, route.Path))
			doc.Paths.Item(path).Set(route.Method, operationOf(ctrl, route))
		}
	}

	return doc
}

func operationOf(ctrl *metadata.ControllerDescriptor, route *metadata.RouteDescriptor) *Operation {
	op := &Operation{
		Tags:        utils.MergeUnique(ctrl.Tags, route.Tags),
		Summary:     route.Summary,
		Description: route.Description,
		OperationId: route.OperationID,
		Parameters:  make([]*Parameter, 0),
		Responses:   make(map[string]*Response),
		Security:    route.Security,
		Deprecated:  route.Deprecated,
	}

	for _, p := range route.Parameters {
		if p.In != metadata.InBody {
			op.Parameters = append(op.Parameters, parameterOf(p))
			continue
		}
		// 只使用第一个请求体
		if op.RequestBody == nil {
			op.RequestBody = &RequestBody{
				Description: p.Description,
				Required:    p.Required,
				Content:     map[string]*MediaType{MIMEApplicationJSON: {Schema: schemaOf(p)}},
			}
		}
	}

	for code, resp := range route.Responses {
		r := &Response{Description: resp.Description}
		if len(resp.Content) > 0 {
			r.Content = make(map[string]*MediaType, len(resp.Content))
			for mime, media := range resp.Content {
				r.Content[mime] = &MediaType{Schema: media.Schema}
			}
		}
		op.Responses[code] = r
	}
	if len(op.Responses) == 0 {
		op.Responses["200"] = &Response{Description: DefaultResponseDescription}
	}

	return op
}

func parameterOf(p *metadata.ParameterDescriptor) *Parameter {
	return &Parameter{
		Name:        p.Name,
		In:          string(p.In),
		Required:    p.Required,
		Description: p.Description,
		Schema:      schemaOf(p),
	}
}

// schemaOf 参数的模型文档, 未推断模型时由类型名构造
func schemaOf(p *metadata.ParameterDescriptor) *schema.Node {
	if p.Schema != nil {
		return p.Schema
	}
	if p.Type == "" {
		return schema.Object()
	}
	return &schema.Node{Type: schema.DataType(p.Type)}
}
