// Package annotation 控制器、路由和参数的声明
//
// Go 没有装饰器, 声明通过对 Declarer 的显式调用完成, 通常放在控制器所在包的 Declare 函数中:
//
//	func Declare(reg *metadata.Registry) error {
//		return annotation.For(reg, &UserController{}).
//			Controller("users", annotation.ControllerOption{Tags: []string{"User"}}).
//			Get("/", "List").
//			Body("Create", 1).
//			Post("/", "Create").
//			Err()
//	}
//
// 参数声明(Body/Query/PathParam/Header)必须位于对应的路由声明之前.
package annotation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Chendemo12/decorapi/logger"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/pathschema"
	"github.com/Chendemo12/decorapi/schema"
	"github.com/Chendemo12/decorapi/utils"
)

// Declarer 绑定到一个控制器类型的声明器
type Declarer struct {
	reg  *metadata.Registry
	id   reflect.Type
	log  logger.Iface
	errs []error
}

// For 创建控制器的声明器, controller 可以是结构体、结构体指针或其 reflect.Type
//
// controller 为nil时记录 ErrUnknownController, 此后的全部声明被忽略.
func For(reg *metadata.Registry, controller any) *Declarer {
	d := &Declarer{reg: reg, id: metadata.TypeOf(controller), log: logger.Discard()}
	if d.id == nil {
		d.fail(fmt.Errorf("%w: %v", ErrUnknownController, controller))
	}
	return d
}

// WithLogger 设置声明错误的日志输出
func (d *Declarer) WithLogger(l logger.Iface) *Declarer {
	if l != nil {
		d.log = l
	}
	return d
}

// ID 控制器的类型标识
func (d *Declarer) ID() reflect.Type { return d.id }

// Err 全部声明错误, 无错误时返回nil
func (d *Declarer) Err() error { return errors.Join(d.errs...) }

func (d *Declarer) fail(err error) {
	d.log.Warn("declaration ignored:", err.Error())
	d.errs = append(d.errs, err)
}

// Controller 声明控制器的基础路由, 重复声明时覆盖
func (d *Declarer) Controller(path string, opts ...ControllerOption) *Declarer {
	if d.id == nil {
		return d
	}
	opt := first(opts)
	d.reg.RegisterController(d.id, &metadata.ControllerDescriptor{
		Name:        d.id.Elem().Name(),
		Path:        pathschema.Normalize(path),
		Description: opt.Description,
		Tags:        utils.MergeUnique(opt.Tags),
	})

	return d
}

// Body 声明方法的第 index 个参数(不含接收者)为请求体
func (d *Declarer) Body(handler string, index int, opts ...BodyOption) *Declarer {
	rt, ok := d.paramType(handler, index)
	if !ok {
		return d
	}

	opt := first(opts)
	required := true
	if opt.Required != nil {
		required = *opt.Required
	}

	node := d.reg.Schemas().Infer(rt)
	d.reg.AddPending(d.id, handler, &metadata.ParameterDescriptor{
		Name:        "body",
		In:          metadata.InBody,
		Required:    required,
		Type:        string(node.Type),
		Description: opt.Description,
		Schema:      node,
		Index:       index,
	})

	return d
}

// Query 声明方法的第 index 个参数为查询参数 name
func (d *Declarer) Query(handler string, index int, name string, opts ...ParamOption) *Declarer {
	return d.param(metadata.InQuery, handler, index, name, first(opts))
}

// PathParam 声明方法的第 index 个参数为路径参数 name
func (d *Declarer) PathParam(handler string, index int, name string, opts ...ParamOption) *Declarer {
	opt := first(opts)
	opt.Required = true
	return d.param(metadata.InPath, handler, index, name, opt)
}

// Header 声明方法的第 index 个参数为请求头 name
func (d *Declarer) Header(handler string, index int, name string, opts ...ParamOption) *Declarer {
	return d.param(metadata.InHeader, handler, index, name, first(opts))
}

func (d *Declarer) param(in metadata.ParamLocation, handler string, index int, name string, opt ParamOption) *Declarer {
	rt, ok := d.paramType(handler, index)
	if !ok {
		return d
	}

	node := d.reg.Schemas().Infer(rt)
	if !node.Type.IsBaseType() { // 非基本类型的参数按字符串传递
		node = schema.String()
	}
	d.reg.AddPending(d.id, handler, &metadata.ParameterDescriptor{
		Name:        name,
		In:          in,
		Required:    opt.Required,
		Type:        string(node.Type),
		Description: opt.Description,
		Schema:      node,
		Index:       index,
	})

	return d
}

func (d *Declarer) method(handler string) (reflect.Method, bool) {
	if d.id == nil {
		return reflect.Method{}, false
	}
	m, ok := d.id.MethodByName(handler)
	if !ok {
		d.fail(fmt.Errorf("%w: %s.%s", ErrUnknownHandler, d.id.Elem().Name(), handler))
	}
	return m, ok
}

// 查找方法第 index 个参数的类型, 不存在时记录错误
func (d *Declarer) paramType(handler string, index int) (reflect.Type, bool) {
	m, ok := d.method(handler)
	if !ok {
		return nil, false
	}
	if index < 0 || index >= m.Type.NumIn()-1 {
		d.fail(fmt.Errorf("%w: %s.%s has no parameter %d", ErrBadParamIndex, d.id.Elem().Name(), handler, index))
		return nil, false
	}

	return m.Type.In(index + 1), true
}
