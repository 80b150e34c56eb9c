package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/sidd"
)

func main() {
	keep := flag.StringP("keep", "k", "", "把重写的文件保存到该目录（默认写入临时目录并删除）")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: sidd-lut-roundtrip [选项] <sidd文件>\n\n")
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(flag.Arg(0), *keep))
}

func run(path, keepDir string) int {
	rd := sidd.NewReader()
	rd.SetLogger(nitf.NewLogger(os.Stderr))

	// 读取原始文件
	orig, err := rd.Open(path)
	if err != nil {
		fmt.Printf("错误: 无法打开 SIDD 文件: %v\n", err)
		return 1
	}

	fmt.Println("=== SIDD LUT 读写往返测试 ===")
	fmt.Printf("文件: %s\n", path)
	fmt.Printf("图像: %d, 段: %d\n", len(orig.Images), len(orig.Segments))
	fmt.Println()

	// 写到临时目录（或 --keep 指定的目录）再读回
	dir := keepDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "sidd-lut-")
		if err != nil {
			fmt.Printf("错误: %v\n", err)
			return 1
		}
		defer os.RemoveAll(dir)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Printf("错误: %v\n", err)
		return 1
	}

	copyPath := filepath.Join(dir, filepath.Base(path))
	if err := orig.WriteFile(copyPath); err != nil {
		fmt.Printf("错误: 写入失败: %v\n", err)
		return 1
	}
	again, err := rd.Open(copyPath)
	if err != nil {
		fmt.Printf("错误: 重新读取失败: %v\n", err)
		return 1
	}
	if len(again.Images) != len(orig.Images) {
		fmt.Printf("错误: 图像数 %d != %d\n", len(again.Images), len(orig.Images))
		return 1
	}

	failed := 0
	for i, img := range orig.Images {
		got := again.Images[i]
		fmt.Printf("%d. %s (%s)\n", i+1, img.ID, img.PixelType)
		failed += compare("   图像 LUT", img.LUT, got.LUT)
		if img.Metadata != nil {
			remap, err := img.Metadata.RemapTable()
			if err != nil {
				fmt.Printf("   RemapLUT: %v\n", err)
				failed++
			} else if remap != nil {
				failed += compare("   XML RemapLUT", img.LUT, remap)
			}
		}
		switch {
		case img.Legend != nil && got.Legend != nil:
			failed += compare("   图例 LUT", img.Legend.LUT, got.Legend.LUT)
		case img.Legend != nil || got.Legend != nil:
			fmt.Println("   图例: 读写后丢失")
			failed++
		}
	}
	fmt.Println()

	if failed > 0 {
		fmt.Printf("=== %d 项不一致 ===\n", failed)
		return 1
	}
	fmt.Println("=== 测试完成 ===")
	return 0
}

func compare(name string, want, got *nitf.LookupTable) int {
	switch {
	case want == nil && got == nil:
		fmt.Printf("%s: 无\n", name)
		return 0
	case want.Equal(got):
		fmt.Printf("%s: %d 表 x %d 项, 一致\n", name, want.Tables, want.Entries)
		return 0
	}
	fmt.Printf("%s: 不一致\n", name)
	return 1
}
