package decorapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/utils"
	"github.com/google/uuid"
)

const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
)

// DefaultErrorMessage 路由方法返回的错误没有消息时的响应体
var DefaultErrorMessage = http.StatusText(http.StatusInternalServerError)

var (
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	contextType    = reflect.TypeOf((*context.Context)(nil)).Elem()
	contextPtrType = reflect.TypeOf(&Context{})
	timeType       = reflect.TypeOf(time.Time{})
)

// HTTPError 携带状态码的错误, 路由方法返回此错误时以 Code 作为响应状态码
type HTTPError struct {
	Code    int
	Message string
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

func (e *HTTPError) Error() string { return e.Message }

type argKind int

const (
	argZero       argKind = iota // 零值
	argContext                   // *Context
	argStdContext                // context.Context
	argBody
	argQuery
	argPath
	argHeader
)

type argSource struct {
	kind argKind
	typ  reflect.Type
	name string
}

// callPlan 路由方法的调用计划, 注册路由时创建, 请求时只读
type callPlan struct {
	route      *metadata.RouteDescriptor
	fn         reflect.Value
	args       []argSource
	valueIndex int // 返回值位置, -1 表示无返回值
	errIndex   int // error 位置, -1 表示不返回错误
}

func newCallPlan(instance reflect.Value, route *metadata.RouteDescriptor) (*callPlan, error) {
	fn := instance.MethodByName(route.HandlerName)
	if !fn.IsValid() {
		return nil, fmt.Errorf("%s has no method %s", instance.Type(), route.HandlerName)
	}

	ft := fn.Type()
	plan := &callPlan{route: route, fn: fn, args: make([]argSource, ft.NumIn()), valueIndex: -1, errIndex: -1}
	for i := 0; i < ft.NumIn(); i++ {
		t := ft.In(i)
		switch t {
		case contextPtrType:
			plan.args[i] = argSource{kind: argContext, typ: t}
		case contextType:
			plan.args[i] = argSource{kind: argStdContext, typ: t}
		default:
			plan.args[i] = argSource{kind: argZero, typ: t}
		}
	}

	for _, p := range route.Parameters {
		if p.Index < 0 || p.Index >= len(plan.args) {
			continue
		}
		src := &plan.args[p.Index]
		src.name = p.Name
		switch p.In {
		case metadata.InBody:
			src.kind = argBody
		case metadata.InQuery:
			src.kind = argQuery
		case metadata.InPath:
			src.kind = argPath
		case metadata.InHeader:
			src.kind = argHeader
		}
	}

	for i := 0; i < ft.NumOut(); i++ {
		if ft.Out(i) == errorType {
			plan.errIndex = i
		} else if plan.valueIndex < 0 {
			plan.valueIndex = i
		}
	}

	return plan, nil
}

// dispatch 路由处理函数
//
//  1. 读取或生成请求ID, 并写入响应头;
//  2. 按调用计划构造路由方法的参数, 请求体或参数无法解析时返回400;
//  3. 调用路由方法, 返回错误或发生 panic 时返回500, 响应体为错误消息;
//  4. 返回值为nil指针或接口时仅返回状态码, nil切片和 map 写为 [] 和 {}, 否则以 JSON 写入响应体.
func (a *App) dispatch(plan *callPlan) MuxHandler {
	status := plan.route.SuccessStatus
	if status == 0 {
		status = plan.route.Method.SuccessStatus()
	}

	return func(mc MuxContext) (err error) {
		requestID := mc.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		mc.Header(HeaderRequestID, requestID)

		c := a.acquireCtx(mc, plan.route, requestID)
		defer a.releaseCtx(c)
		defer func() {
			if r := recover(); r != nil {
				c.log.Errorf("handler panic: %v", r)
				err = writeError(mc, fmt.Errorf("%v", r))
			}
		}()

		args, err := plan.arguments(c)
		if err != nil {
			c.log.Warn("bad request:", err.Error())
			mc.Status(http.StatusBadRequest)
			return mc.SendString(err.Error())
		}

		outs := plan.fn.Call(args)
		if plan.errIndex >= 0 && !outs[plan.errIndex].IsNil() {
			callErr := outs[plan.errIndex].Interface().(error)
			c.log.Error("handler failed:", callErr.Error())
			return writeError(mc, callErr)
		}

		if plan.valueIndex < 0 {
			return mc.SendStatus(status)
		}
		value, ok := responseValue(outs[plan.valueIndex])
		if !ok {
			return mc.SendStatus(status)
		}
		return mc.JSON(status, value)
	}
}

func writeError(mc MuxContext, err error) error {
	code := http.StatusInternalServerError
	var he *HTTPError
	if errors.As(err, &he) && he.Code > 0 {
		code = he.Code
	}

	msg := err.Error()
	if msg == "" {
		msg = DefaultErrorMessage
	}
	mc.Status(code)
	return mc.SendString(msg)
}

// arguments 构造路由方法的参数
func (p *callPlan) arguments(c *Context) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(p.args))
	for i, src := range p.args {
		switch src.kind {
		case argContext:
			args[i] = reflect.ValueOf(c)
		case argStdContext:
			args[i] = reflect.ValueOf(c.Context())
		case argBody:
			v, err := decodeBody(c.muxCtx, src.typ)
			if err != nil {
				return nil, fmt.Errorf("invalid request body: %w", err)
			}
			args[i] = v
		case argQuery, argPath, argHeader:
			raw := p.raw(c.muxCtx, src)
			v, err := parseValue(raw, src.typ)
			if err != nil {
				return nil, fmt.Errorf("invalid %s parameter %q: %w", p.location(src.kind), src.name, err)
			}
			args[i] = v
		default:
			args[i] = reflect.Zero(src.typ)
		}
	}
	return args, nil
}

func (p *callPlan) raw(mc MuxContext, src argSource) string {
	switch src.kind {
	case argQuery:
		return mc.Query(src.name)
	case argPath:
		return mc.Params(src.name)
	default:
		return mc.GetHeader(src.name)
	}
}

func (p *callPlan) location(kind argKind) metadata.ParamLocation {
	switch kind {
	case argQuery:
		return metadata.InQuery
	case argPath:
		return metadata.InPath
	default:
		return metadata.InHeader
	}
}

// decodeBody 以 JSON 解析请求体, 请求体为空时返回零值, 指针类型返回指向零值的指针
func decodeBody(mc MuxContext, rt reflect.Type) (reflect.Value, error) {
	data, err := mc.Body()
	if err != nil {
		return reflect.Value{}, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		if rt.Kind() == reflect.Pointer {
			return reflect.New(rt.Elem()), nil
		}
		return reflect.Zero(rt), nil
	}

	v := reflect.New(rt)
	if err = utils.JsonUnmarshal(data, v.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return v.Elem(), nil
}

// parseValue 将字符串参数转换为 rt 类型, 空字符串返回零值
func parseValue(raw string, rt reflect.Type) (reflect.Value, error) {
	if raw == "" {
		return reflect.Zero(rt), nil
	}

	if rt.Kind() == reflect.Pointer {
		elem, err := parseValue(raw, rt.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(rt.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	v := reflect.New(rt).Elem()
	if rt == timeType {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.Set(reflect.ValueOf(t))
		return v, nil
	}

	switch rt.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, rt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, rt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, rt.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Interface:
		if !reflect.TypeOf(raw).AssignableTo(rt) {
			return reflect.Value{}, fmt.Errorf("cannot assign string to %s", rt)
		}
		v.Set(reflect.ValueOf(raw))
	default:
		// 其余类型按 JSON 解析
		ptr := reflect.New(rt)
		if err := utils.JsonUnmarshal([]byte(raw), ptr.Interface()); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}

	return v, nil
}

// responseValue 路由方法返回值的响应体, 无响应体时返回false; nil切片和 map 替换为空值, 与文档中的 array/object 一致
func responseValue(v reflect.Value) (any, bool) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Invalid:
		return nil, false
	case reflect.Slice:
		if v.IsNil() {
			return reflect.MakeSlice(v.Type(), 0, 0).Interface(), true
		}
	case reflect.Map:
		if v.IsNil() {
			return reflect.MakeMap(v.Type()).Interface(), true
		}
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil, false
		}
	}
	return v.Interface(), true
}
