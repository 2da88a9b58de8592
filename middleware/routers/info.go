// Package routers 可直接注册的通用控制器
package routers

import (
	"github.com/Chendemo12/decorapi/annotation"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/openapi"
	"github.com/Chendemo12/decorapi/pathschema"
)

// InfoPath InfoController 的基础路由
const InfoPath = "/api"

// NewInfoController 用于获取后端服务基本信息的控制器
//
//	# Usage
//
//	_ = routers.DeclareInfo(reg)
//	app.Register(mux, []any{routers.NewInfoController(opts)}, opts)
func NewInfoController(opts openapi.Options) *InfoController {
	return &InfoController{
		Title:   opts.Title,
		Version: opts.Version,
		Desc:    opts.Description,
	}
}

type InfoController struct {
	Title   string
	Version string
	Desc    string
}

func (r *InfoController) GetTitle() (string, error) { return r.Title, nil }

func (r *InfoController) GetDescription() (string, error) { return r.Desc, nil }

func (r *InfoController) GetVersion() (string, error) { return r.Version, nil }

func (r *InfoController) GetHeartbeat() (string, error) { return "pong", nil }

var infoSummary = map[string]string{
	"GetTitle":       "获取软件名",
	"GetDescription": "获取软件描述信息",
	"GetVersion":     "获取软件版本号",
	"GetHeartbeat":   "心跳检测",
}

// DeclareInfo 声明 InfoController 的路由, 路由由方法名发现: GET /api/title 等
func DeclareInfo(reg *metadata.Registry) error {
	d := annotation.For(reg, &InfoController{}).
		Controller(InfoPath, annotation.ControllerOption{Tags: []string{"Base"}})

	for _, handler := range []string{"GetTitle", "GetDescription", "GetVersion", "GetHeartbeat"} {
		_, relative, _ := annotation.IsRouteMethod(handler)
		d.Get(pathschema.Format(pathschema.PathSeparator, relative, pathschema.Default()), handler, annotation.RouteOption{Summary: infoSummary[handler]})
	}

	return d.Err()
}
