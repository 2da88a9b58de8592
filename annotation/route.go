package annotation

import (
	"net/http"
	"reflect"
	"sort"
	"strconv"

	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/pathschema"
	"github.com/Chendemo12/decorapi/schema"
	"github.com/Chendemo12/decorapi/utils"
)

const (
	MIMEApplicationJSON = "application/json"
	SuccessDescription  = "Successful response"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (d *Declarer) Get(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodGet, path, handler, opts...)
}

func (d *Declarer) Post(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodPost, path, handler, opts...)
}

func (d *Declarer) Put(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodPut, path, handler, opts...)
}

func (d *Declarer) Delete(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodDelete, path, handler, opts...)
}

func (d *Declarer) Patch(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodPatch, path, handler, opts...)
}

func (d *Declarer) Options(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodOptions, path, handler, opts...)
}

func (d *Declarer) Head(path, handler string, opts ...RouteOption) *Declarer {
	return d.Route(metadata.MethodHead, path, handler, opts...)
}

// Route 声明一个路由
//
//  1. 取出此前对该方法的参数声明;
//  2. POST/PUT/PATCH 未声明请求体时, 以第一个非框架注入的参数作为请求体;
//  3. 路由中未声明的路径参数按字符串补充到文档;
//  4. 未显式声明成功响应时, 由返回值推断响应文档, POST 为201, 其余为200.
func (d *Declarer) Route(method metadata.HTTPMethod, path, handler string, opts ...RouteOption) *Declarer {
	if d.id == nil {
		return d
	}
	params := d.reg.TakePending(d.id, handler)
	m, ok := d.method(handler)
	if !ok {
		return d
	}

	opt := first(opts)
	route := &metadata.RouteDescriptor{
		Method:      method,
		Path:        pathschema.Normalize(path),
		HandlerName: handler,
		Summary:     opt.Summary,
		Description: opt.Description,
		OperationID: opt.OperationID,
		Deprecated:  opt.Deprecated,
		Tags:        utils.MergeUnique(opt.Tags),
		Security:    opt.Security,
		Parameters:  append(make([]*metadata.ParameterDescriptor, 0, len(params)), params...),
		Responses:   make(map[string]*metadata.ResponseDescriptor),
	}
	for code, resp := range opt.Responses {
		route.Responses[code] = resp
	}

	inputs := argTypes(m)
	body := route.Body()
	if body == nil && method.HasBody() {
		body = d.synthesizeBody(inputs, route.Parameters)
		if body != nil {
			route.Parameters = append(route.Parameters, body)
		}
	}

	for _, name := range pathschema.PathParams(route.Path) {
		if route.Param(metadata.InPath, name) == nil {
			route.Parameters = append(route.Parameters, &metadata.ParameterDescriptor{
				Name:     name,
				In:       metadata.InPath,
				Required: true,
				Type:     string(schema.StringType),
				Schema:   schema.String(),
				Index:    metadata.NotBound,
			})
		}
	}

	status := method.SuccessStatus()
	if explicit, ok := explicitSuccess(route.Responses, status); ok {
		route.SuccessStatus = explicit
	} else {
		route.SuccessStatus = status
		route.Responses[strconv.Itoa(status)] = d.successResponse(m, opt, inputs, body)
	}

	d.reg.RegisterRoute(d.id, route)
	return d
}

// synthesizeBody 以第一个未被绑定且非框架注入的参数作为请求体
func (d *Declarer) synthesizeBody(inputs []reflect.Type, params []*metadata.ParameterDescriptor) *metadata.ParameterDescriptor {
	bound := make(map[int]bool)
	for _, p := range params {
		bound[p.Index] = true
	}

	for i, rt := range inputs {
		if bound[i] || metadata.IsInjected(rt) {
			continue
		}
		node := d.reg.Schemas().Infer(rt)
		return &metadata.ParameterDescriptor{
			Name:     "body",
			In:       metadata.InBody,
			Required: true,
			Type:     string(node.Type),
			Schema:   node,
			Index:    i,
		}
	}
	return nil
}

func (d *Declarer) successResponse(m reflect.Method, opt RouteOption, inputs []reflect.Type, body *metadata.ParameterDescriptor) *metadata.ResponseDescriptor {
	resp := &metadata.ResponseDescriptor{Description: SuccessDescription}

	var node *schema.Node
	out := returnType(m)
	switch {
	case opt.Returns != "":
		node = d.reg.Schemas().InferText(opt.Returns)
	case out == nil:
		return resp
	case body != nil && body.Index >= 0 && sameType(out, inputs[body.Index]):
		// 原样返回请求体
		node = body.Schema
	default:
		node = d.reg.Schemas().Infer(out)
	}

	resp.Content = map[string]*metadata.MediaType{MIMEApplicationJSON: {Schema: node}}
	return resp
}

// explicitSuccess 是否已显式声明成功响应(默认状态码, 或 200/201), 返回其中最小的 2xx 状态码
func explicitSuccess(responses map[string]*metadata.ResponseDescriptor, status int) (int, bool) {
	found := false
	for _, code := range []int{status, http.StatusOK, http.StatusCreated} {
		if _, ok := responses[strconv.Itoa(code)]; ok {
			found = true
		}
	}
	if !found {
		return 0, false
	}

	codes := make([]int, 0)
	for key := range responses {
		if code, err := strconv.Atoi(key); err == nil && code >= 200 && code < 300 {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	return codes[0], true
}

// argTypes 方法的参数类型, 不含接收者
func argTypes(m reflect.Method) []reflect.Type {
	types := make([]reflect.Type, 0, m.Type.NumIn())
	for i := 1; i < m.Type.NumIn(); i++ {
		types = append(types, m.Type.In(i))
	}
	return types
}

// returnType 第一个非 error 的返回值类型, 不存在则返回nil
func returnType(m reflect.Method) reflect.Type {
	for i := 0; i < m.Type.NumOut(); i++ {
		if out := m.Type.Out(i); out != errorType {
			return out
		}
	}
	return nil
}

func sameType(a, b reflect.Type) bool {
	for a.Kind() == reflect.Pointer {
		a = a.Elem()
	}
	for b.Kind() == reflect.Pointer {
		b = b.Elem()
	}
	return a == b
}
