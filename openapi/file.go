package openapi

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiles 将文档写入目录 dir, 目录不存在时创建
//
// 始终写入 openapi.json, withYAML 为 true 时同时写入 openapi.yaml; 返回写入的文件路径.
func WriteFiles(dir string, doc *Document, withYAML bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create docs dir %s: %w", dir, err)
	}

	bs, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi json: %w", err)
	}
	files := []string{filepath.Join(dir, JsonName)}
	if err = os.WriteFile(files[0], bs, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", files[0], err)
	}

	if withYAML {
		bs, err = doc.YAML()
		if err != nil {
			return files, fmt.Errorf("marshal openapi yaml: %w", err)
		}
		name := filepath.Join(dir, YamlName)
		if err = os.WriteFile(name, bs, 0o644); err != nil {
			return files, fmt.Errorf("write %s: %w", name, err)
		}
		files = append(files, name)
	}

	return files, nil
}
