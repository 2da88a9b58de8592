// Package config 加载 decorapi 服务的配置
//
// 配置来源的优先级由低到高:
//
//  1. 缺省值;
//  2. YAML 配置文件(可选);
//  3. 以 DECORAPI_ 为前缀的环境变量, 例如 DECORAPI_SERVER_PORT 对应 server.port.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/logger"
	"github.com/Chendemo12/decorapi/openapi"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "DECORAPI_"

const (
	EngineFiber = "fiber"
	EngineEcho  = "echo"
)

var validate = validator.New()

type Config struct {
	App    openapi.Options `koanf:"app" json:"app" yaml:"app"`
	Server ServerConfig    `koanf:"server" json:"server" yaml:"server"`
	Docs   DocsConfig      `koanf:"docs" json:"docs" yaml:"docs"`
	Log    LogConfig       `koanf:"log" json:"log" yaml:"log"`

	k *koanf.Koanf
}

type ServerConfig struct {
	Host    string        `koanf:"host" json:"host" yaml:"host"`
	Port    int           `koanf:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
	Engine  string        `koanf:"engine" json:"engine" yaml:"engine" validate:"oneof=fiber echo"`
	Timeout TimeoutConfig `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

type TimeoutConfig struct {
	Shutdown time.Duration `koanf:"shutdown" json:"shutdown" yaml:"shutdown"`
}

// DocsConfig 文档的输出与挂载
type DocsConfig struct {
	Dir string `koanf:"dir" json:"dir" yaml:"dir"`
	// 同时写入 openapi.yaml
	YAML bool `koanf:"yaml" json:"yaml" yaml:"yaml"`
	// 不写入文档文件, 不影响 Swagger UI
	Disabled bool `koanf:"disabled" json:"disabled" yaml:"disabled"`
	Swagger  bool `koanf:"swagger" json:"swagger" yaml:"swagger"`
	Redoc    bool `koanf:"redoc" json:"redoc" yaml:"redoc"`
}

type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// Load 加载配置, path 为空时不读取配置文件
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// DECORAPI_SERVER_PORT => server.port
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", "."), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err = k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Defaults 缺省配置
func Defaults() map[string]any {
	return map[string]any{
		"app.title":   "decorapi",
		"app.version": "v1.0.0",
		"app.base":    "",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.engine":           EngineFiber,
		"server.timeout.shutdown": "10s",

		"docs.dir":      decorapi.DefaultDocsDir,
		"docs.yaml":     false,
		"docs.disabled": false,
		"docs.swagger":  true,
		"docs.redoc":    false,

		"log.level":  "info",
		"log.pretty": true,
	}
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
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
	return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
}

// Koanf 原始的 koanf 实例, 用于读取结构体之外的自定义配置
func (c *Config) Koanf() *koanf.Koanf { return c.k }

// Addr 服务监听地址
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// OpenAPIOptions 文档选项
func (c *Config) OpenAPIOptions() openapi.Options {
	return c.App
}

// AppConfig 路由绑定器配置
func (c *Config) AppConfig(log logger.Logger) decorapi.Config {
	return decorapi.Config{
		Logger:            log,
		DocsDir:           c.Docs.Dir,
		DocsWriteDisabled: c.Docs.Disabled,
		WriteYAML:         c.Docs.YAML,
		SwaggerDisabled:   !c.Docs.Swagger,
		RedocEnabled:      c.Docs.Redoc,
	}
}

// NewLogger 按日志配置创建输出到标准输出的日志句柄
func (c *Config) NewLogger() *logger.ZeroLogger {
	return logger.New(os.Stdout, c.Log.Level, c.Log.Pretty)
}
