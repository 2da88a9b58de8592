package schema

import (
	"reflect"
	"strconv"
	"strings"
)

// QueryFieldTag 查找struct字段的Tag
//
//	@param	tag			reflect.StructTag	字段的Tag
//	@param	label		string				要查找的标签
//	@param	undefined	string				当查找的标签不存在时返回的默认值
//	@return	string 查找到的标签值, 不存在则返回提供的默认值
func QueryFieldTag(tag reflect.StructTag, label string, undefined string) string {
	if tag == "" {
		return undefined
	}
	if v := tag.Get(label); v != "" {
		return v
	}
	return undefined
}

// QueryJsonName 查询字段定义的json名称
func QueryJsonName(tag reflect.StructTag, undefined string) string {
	if tag == "" {
		return undefined
	}
	if v := tag.Get(JsonTagName); v != "" {
		if name := strings.TrimSpace(strings.Split(v, ",")[0]); name != "" {
			return name
		}
	}
	return undefined
}

// IsFieldRequired 从tag中判断此字段是否是必须的
func IsFieldRequired(tag reflect.StructTag) bool {
	for _, name := range []string{BindingTagName, ValidateTagName} {
		bindings := strings.Split(QueryFieldTag(tag, name, ""), ",") // binding 存在多个值
		for i := 0; i < len(bindings); i++ {
			if strings.TrimSpace(bindings[i]) == requiredTag {
				return true
			}
		}
	}

	return false
}

// ParseValue 按数据类型转换标签中的字面量, 转换失败时返回原始字符串
func ParseValue(s string, otype DataType) any {
	switch otype {
	case IntegerType:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case NumberType:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	case BoolType:
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return s
}

// enrich 根据字段标签补充 description/default/example 以及 validator 约束
// 标签为空时直接返回 base, 否则返回其拷贝
func enrich(base *Node, tag reflect.StructTag) *Node {
	desc := QueryFieldTag(tag, DescriptionTagName, "")
	defaultV := QueryFieldTag(tag, DefaultValueTagNam, "")
	example := QueryFieldTag(tag, ExampleTagName, "")
	labels := QueryFieldTag(tag, ValidateTagName, "")
	if desc == "" && defaultV == "" && example == "" && labels == "" {
		return base
	}

	node := base.Clone()
	if desc != "" {
		node.Description = desc
	}
	if defaultV != "" {
		node.Default = ParseValue(defaultV, node.Type)
	}
	if example != "" {
		node.Example = ParseValue(example, node.Type)
	}

	for _, label := range strings.Split(labels, ",") {
		name, arg, _ := strings.Cut(strings.TrimSpace(label), "=")
		if name == "dive" { // 之后的约束作用于数组元素
			break
		}

		if format, ok := ValidatorLabelToFormat[name]; ok && node.Type == StringType {
			node.Format = format
			continue
		}

		switch name {
		case "oneof":
			node.Enum = nil
			for _, v := range strings.Fields(arg) {
				node.Enum = append(node.Enum, ParseValue(v, node.Type))
			}
		case "min", "gte":
			setBound(node, arg, true)
		case "max", "lte":
			setBound(node, arg, false)
		case "len":
			setBound(node, arg, true)
			setBound(node, arg, false)
		}
	}

	return node
}

// setBound 数值类型设置 minimum/maximum, 字符串设置长度, 数组设置元素个数
func setBound(node *Node, arg string, lower bool) {
	switch node.Type {
	case IntegerType, NumberType:
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return
		}
		if lower {
			node.Minimum = &v
		} else {
			node.Maximum = &v
		}

	case StringType, ArrayType:
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return
		}
		switch {
		case node.Type == StringType && lower:
			node.MinLength = &v
		case node.Type == StringType:
			node.MaxLength = &v
		case lower:
			node.MinItems = &v
		default:
			node.MaxItems = &v
		}
	}
}
