package fiberWrapper

import (
	"regexp"
	"strings"

	"github.com/Chendemo12/decorapi/openapi"
	"github.com/gofiber/fiber/v2"
)

// CORSMethods DefaultCORS 允许的请求方法
var CORSMethods = []string{
	fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch,
	fiber.MethodDelete, fiber.MethodOptions, fiber.MethodHead,
}

func DefaultCORS(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Headers", "*")
	c.Set("Access-Control-Allow-Credentials", "false")
	c.Set("Access-Control-Allow-Methods", strings.Join(CORSMethods, ","))

	if c.Method() == fiber.MethodOptions {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Next()
}

// DocsExcludePaths 文档页面的路由, 不参与鉴权
var DocsExcludePaths = []string{
	"^" + openapi.DocumentUrl,
	"^" + openapi.ReDocumentUrl + "$",
}

// NewAuthInterceptor 请求认证拦截器，验证请求是否需要认证，如果需要认证，则执行拦截器，否则继续执行
//
//	@param	excludePaths	[]string			排除的路径正则，如果请求路径匹配这些路径，则不执行拦截器
//	@param	itp				func(c *fiber.Ctx)	error	拦截器函数
//	@return	fiber.Handler
func NewAuthInterceptor(excludePaths []string, itp fiber.Handler) fiber.Handler {
	excludeExps := make([]*regexp.Regexp, 0, len(excludePaths)+len(DocsExcludePaths))
	for _, excludePattern := range append(append([]string{}, excludePaths...), DocsExcludePaths...) {
		excludeExps = append(excludeExps, regexp.MustCompile(excludePattern))
	}

	return func(c *fiber.Ctx) error {
		_path := c.Path() // 此处不能使用 c.Route().Path
		for _, excludeExp := range excludeExps {
			if excludeExp.MatchString(_path) {
				return c.Next()
			}
		}
		return itp(c)
	}
}
