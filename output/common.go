package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Config 预览导出选项
type Config struct {
	Output   string // 输出路径，扩展名决定格式
	Format   string // tiff, png, jpeg, ppm；为空时按扩展名
	Quality  int    // JPEG 质量 1-100
	MaxWidth int    // 预览最大宽度，0 表示原尺寸
}

// ResolveFormat 返回实际使用的格式
func (c Config) ResolveFormat() (string, error) {
	f := strings.ToLower(c.Format)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(c.Output)), ".")
	}
	switch f {
	case "tif", "tiff":
		return "tiff", nil
	case "jpg", "jpeg":
		return "jpeg", nil
	case "png", "ppm":
		return f, nil
	}
	return "", fmt.Errorf("unsupported preview format %q", f)
}

// Create 在 filename 所在目录写临时文件，write 成功后改名
// 任何失败都会删除临时文件，目标文件要么完整要么不存在
func Create(filename string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod file: %w", err)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// WriteFile 原子地写入整块数据
func WriteFile(filename string, data []byte) error {
	return Create(filename, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	})
}
