package openapi

// ApiVersion 生成文档的 OpenAPI 版本号
const ApiVersion = "3.0.0"

// 用于swagger的一些静态文件
const (
	SwaggerCssName    = "swagger-ui.css"
	FaviconName       = "favicon.png"
	SwaggerJsName     = "swagger-ui-bundle.js"
	RedocJsName       = "redoc.standalone.js"
	JsonName          = "openapi.json"
	YamlName          = "openapi.yaml"
	DocumentUrl       = "/swagger"
	ReDocumentUrl     = "/redoc"
	SwaggerFaviconUrl = "https://fastapi.tiangolo.com/img/" + FaviconName
	SwaggerCssUrl     = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/" + SwaggerCssName
	SwaggerJsUrl      = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/" + SwaggerJsName
	RedocJsUrl        = "https://cdn.jsdelivr.net/npm/redoc@next/bundles/" + RedocJsName
)

const (
	MIMETextHTMLCharsetUTF8        = "text/html; charset=utf-8"
	MIMEApplicationJSON            = "application/json"
	MIMEApplicationJSONCharsetUTF8 = "application/json; charset=utf-8"
	MIMEApplicationYAML            = "application/yaml"
)

// DefaultServerUrl 未配置服务地址时文档中的缺省地址
const DefaultServerUrl = "/"

// DefaultResponseDescription 未声明任何响应的路由的缺省响应说明
const DefaultResponseDescription = "Successful response"
