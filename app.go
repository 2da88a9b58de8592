// Package decorapi 由声明式的控制器元数据同时生成路由和 OpenAPI 文档
//
// 控制器通过 annotation 包声明到 metadata.Registry, App 负责:
//
//  1. 为每一个控制器创建实例, 并将其路由注册到 Web 引擎的路由组上;
//  2. 由相同的元数据生成 OpenAPI 文档, 写入文档目录并挂载 Swagger UI.
package decorapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync"

	"github.com/Chendemo12/decorapi/logger"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/openapi"
	"github.com/Chendemo12/decorapi/pathschema"
)

// DefaultDocsDir 缺省的文档输出目录
const DefaultDocsDir = "docs"

// Config App 配置
type Config struct {
	Logger            logger.Logger `description:"日志句柄, 缺省为包级别的 Logger()"`
	DocsDir           string        `description:"文档输出目录, 缺省为 docs"`
	DocsWriteDisabled bool          `description:"不写入文档文件"`
	WriteYAML         bool          `description:"同时写入 openapi.yaml"`
	SwaggerDisabled   bool          `description:"禁用 Swagger UI"`
	RedocEnabled      bool          `description:"启用 ReDoc 页面"`
}

// App 路由绑定器
type App struct {
	reg  *metadata.Registry
	conf Config
	log  logger.Logger
	pool *sync.Pool
	doc  *openapi.Document
}

// New 创建路由绑定器, 仓库中的控制器需已完成声明
func New(reg *metadata.Registry, conf ...Config) *App {
	a := &App{reg: reg}
	if len(conf) > 0 {
		a.conf = conf[0]
	}
	if a.conf.DocsDir == "" {
		a.conf.DocsDir = DefaultDocsDir
	}
	a.log = a.conf.Logger
	if a.log == nil {
		a.log = Logger()
	}
	a.pool = &sync.Pool{New: func() any { return new(Context) }}

	return a
}

func (a *App) Registry() *metadata.Registry { return a.reg }

func (a *App) Config() Config { return a.conf }

// Document 最近一次 Register 生成的文档
func (a *App) Document() *openapi.Document { return a.doc }

// Register 注册控制器的路由并生成文档
//
// 每个控制器创建一个新的实例, 由其全部路由共享; controllers 的元素可以是结构体、结构体指针或 reflect.Type,
// 给出值时新实例为其浅拷贝. 控制器的路由注册在 {base}{controllerPath} 路由组之下.
func (a *App) Register(mux MuxWrapper, controllers []any, opts openapi.Options) (*openapi.Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ids := make([]reflect.Type, 0, len(controllers))
	for _, controller := range controllers {
		id := metadata.TypeOf(controller)
		if id == nil || id.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("controller %T is not a struct", controller)
		}
		ids = append(ids, id)

		if err := a.bindController(mux, id, newInstance(id, controller), opts.Base); err != nil {
			return nil, err
		}
	}

	a.doc = openapi.NewBuilder(a.reg).BuildFor(opts, ids...)
	if !a.conf.DocsWriteDisabled {
		files, err := openapi.WriteFiles(a.conf.DocsDir, a.doc, a.conf.WriteYAML)
		if err != nil {
			return a.doc, err
		}
		a.log.Debug("openapi document written to", files)
	}

	if err := a.mountDocs(mux, opts.Title); err != nil {
		return a.doc, err
	}

	return a.doc, nil
}

func (a *App) bindController(mux MuxWrapper, id reflect.Type, instance reflect.Value, base string) error {
	ctrl, ok := a.reg.Controller(id)
	if !ok {
		ctrl = &metadata.ControllerDescriptor{Name: id.Elem().Name(), Path: pathschema.PathSeparator}
	}

	prefix := pathschema.Prefix(base, ctrl.Path)
	router := mux.Group(prefix)

	for _, route := range a.reg.Routes(id) {
		plan, err := newCallPlan(instance, route)
		if err != nil {
			return err
		}

		path := pathschema.ToMuxPath(pathschema.Relative(route.Path))
		if prefix == "" && path == "" {
			path = pathschema.PathSeparator
		}
		if err = router.BindRoute(route.Method.Upper(), path, a.dispatch(plan)); err != nil {
			return fmt.Errorf("bind %s %s%s: %w", route.Method.Upper(), prefix, path, err)
		}
		a.log.Debugf("%s\t%s%s\t=> %s.%s", route.Method.Upper(), prefix, path, ctrl.Name, route.HandlerName)
	}

	return nil
}

// 挂载文档页面, 位于固定的 /swagger 和 /redoc 路由, 不受全局路由前缀影响
func (a *App) mountDocs(mux MuxWrapper, title string) error {
	if a.conf.SwaggerDisabled {
		return nil
	}

	bs, err := a.doc.JSON()
	if err != nil {
		return fmt.Errorf("marshal openapi json: %w", err)
	}
	jsonUrl := openapi.DocumentUrl + pathschema.PathSeparator + openapi.JsonName

	errs := []error{
		mux.BindRoute(http.MethodGet, jsonUrl, func(c MuxContext) error {
			c.Header(HeaderContentType, openapi.MIMEApplicationJSONCharsetUTF8)
			return c.SendString(string(bs))
		}),
		mux.BindRoute(http.MethodGet, openapi.DocumentUrl, htmlHandler(openapi.MakeSwaggerUiHtml(
			title, jsonUrl, openapi.SwaggerJsUrl, openapi.SwaggerCssUrl, openapi.SwaggerFaviconUrl,
		))),
	}
	if a.conf.RedocEnabled {
		errs = append(errs, mux.BindRoute(http.MethodGet, openapi.ReDocumentUrl, htmlHandler(openapi.MakeRedocUiHtml(
			title, jsonUrl, openapi.RedocJsUrl, openapi.SwaggerFaviconUrl,
		))))
	}

	if err = errors.Join(errs...); err != nil {
		return fmt.Errorf("mount docs: %w", err)
	}
	return nil
}

func htmlHandler(page string) MuxHandler {
	return func(c MuxContext) error {
		c.Header(HeaderContentType, openapi.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	}
}

// newInstance 创建控制器的新实例, 给出控制器值时复制其字段
func newInstance(id reflect.Type, controller any) reflect.Value {
	instance := reflect.New(id.Elem())

	rv := reflect.ValueOf(controller)
	if _, isType := controller.(reflect.Type); isType || !rv.IsValid() {
		return instance
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return instance
		}
		rv = rv.Elem()
	}
	instance.Elem().Set(rv)

	return instance
}
