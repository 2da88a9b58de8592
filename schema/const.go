package schema

import (
	"encoding/json"
	"io"
	"reflect"
	"time"
)

type DataType string

func (m DataType) IsBaseType() bool {
	switch m {
	case IntegerType, NumberType, BoolType, StringType:
		return true
	default:
		return false
	}
}

const (
	IntegerType DataType = "integer"
	NumberType  DataType = "number"
	StringType  DataType = "string"
	BoolType    DataType = "boolean"
	ObjectType  DataType = "object"
	ArrayType   DataType = "array"
)

const ( // 特殊类型的 format 取值
	DateTimeFormat = "date-time"
	BinaryFormat   = "binary"
	Int32Format    = "int32"
	Int64Format    = "int64"
	FloatFormat    = "float"
	DoubleFormat   = "double"
)

var (
	ValidateTagName    = "validate"
	BindingTagName     = "binding"
	JsonTagName        = "json"
	DescriptionTagName = "description"
	DefaultValueTagNam = "default"
	ExampleTagName     = "example"
	// TypeHintTagName 字段的文本类型声明, 例如 `schema:"Array<Pet>"`, 优先于反射得到的类型
	TypeHintTagName = "schema"
	requiredTag     = "required"
)

// FallbackDescriptionPrefix 无法提取到任何属性的结构体, 其描述为 "Schema for type <Name>"
const FallbackDescriptionPrefix = "Schema for type "

var (
	timeType       = reflect.TypeOf(time.Time{})
	jsonNumberType = reflect.TypeOf(json.Number(""))
	rawMessageType = reflect.TypeOf(json.RawMessage{})
	readerType     = reflect.TypeOf((*io.Reader)(nil)).Elem()
	examplerType   = reflect.TypeOf((*Exampler)(nil)).Elem()
)

// ValidatorLabelToFormat validator 标签和 Openapi format 的对应关系
var ValidatorLabelToFormat = map[string]string{
	"email":    "email",
	"url":      "uri",
	"uri":      "uri",
	"uuid":     "uuid",
	"uuid4":    "uuid",
	"datetime": DateTimeFormat,
	"ipv4":     "ipv4",
	"ipv6":     "ipv6",
	"hostname": "hostname",
}

// primitiveNames 文本类型推断中可直接识别的基本类型名称
var primitiveNames = map[string]func() *Node{
	"string":      String,
	"String":      String,
	"number":      Number,
	"Number":      Number,
	"float":       Number,
	"float32":     Number,
	"float64":     Number,
	"integer":     Integer,
	"int":         Integer,
	"int8":        Integer,
	"int16":       Integer,
	"int32":       Integer,
	"int64":       Integer,
	"uint":        Integer,
	"uint8":       Integer,
	"uint16":      Integer,
	"uint32":      Integer,
	"uint64":      Integer,
	"bigint":      Integer,
	"BigInt":      Integer,
	"boolean":     Boolean,
	"Boolean":     Boolean,
	"bool":        Boolean,
	"Date":        DateTime,
	"date":        DateTime,
	"time.Time":   DateTime,
	"Buffer":      Binary,
	"ArrayBuffer": Binary,
	"[]byte":      Binary,
	"any":         Object,
	"object":      Object,
	"Object":      Object,
}
