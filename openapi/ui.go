package openapi

import (
	"sort"
	"strings"
)

var swaggerUiDefaultParameters = map[string]string{
	"dom_id":               `"#swagger-ui"`,
	"deepLinking":          "true",
	"showExtensions":       "true",
	"showCommonExtensions": "true",
}

// MakeSwaggerUiHtml 生成 Swagger UI 页面, openapiUrl 为文档的访问地址
func MakeSwaggerUiHtml(title, openapiUrl, jsUrl, cssUrl, faviconUrl string) string {
	keys := make([]string, 0, len(swaggerUiDefaultParameters))
	for k := range swaggerUiDefaultParameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8"/>
	<link type="text/css" rel="stylesheet" href="` + cssUrl + `">
	<link rel="shortcut icon" href="` + faviconUrl + `">
	<title>` + title + ` - Swagger UI</title>
</head>
<body>
	<div id="swagger-ui"></div>
	<script src="` + jsUrl + `"></script>
	<script>
	const ui = SwaggerUIBundle({
		url: '` + openapiUrl + `',
`)
	for _, k := range keys {
		b.WriteString("\t\t\"" + k + "\": " + swaggerUiDefaultParameters[k] + ",\n")
	}
	b.WriteString(`		presets: [
			SwaggerUIBundle.presets.apis,
			SwaggerUIBundle.SwaggerUIStandalonePreset
		],
	})
	</script>
</body>
</html>
`)

	return b.String()
}

// MakeRedocUiHtml 生成 ReDoc 页面
func MakeRedocUiHtml(title, openapiUrl, jsUrl, faviconUrl string) string {
	return `<!DOCTYPE html>
<html>
<head>
	<title>` + title + ` - ReDoc</title>
	<meta charset="utf-8"/>
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<link href="https://fonts.googleapis.com/css?family=Montserrat:300,400,700|Roboto:300,400,700" rel="stylesheet">
	<link rel="shortcut icon" href="` + faviconUrl + `">
	<style>
		body {
			margin: 0;
			padding: 0;
		}
	</style>
</head>
<body>
	<noscript>
		ReDoc requires Javascript to function. Please enable it to browse the documentation.
	</noscript>
	<redoc spec-url="` + openapiUrl + `"></redoc>
	<script src="` + jsUrl + `"></script>
</body>
</html>
`
}
