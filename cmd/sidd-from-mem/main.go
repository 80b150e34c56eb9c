package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/output"
	"github.com/weaming/sidd-go/sidd"
)

type options struct {
	cfg     sidd.Config
	output  string
	preview output.Config
}

func main() {
	opts := parseFlags()
	if opts.output == "" {
		fmt.Fprintln(os.Stderr, "错误: 必须指定输出文件")
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *options {
	opts := &options{cfg: sidd.DefaultConfig()}
	cfg := &opts.cfg

	flag.Var(&cfg.LUTMode, "lut", "查找表: Color, Mono, None")
	flag.BoolVar(&cfg.MultipleImages, "multipleImages", false, "一个文件中放多幅图像")
	flag.BoolVar(&cfg.MultipleSegments, "multipleSegments", false, "把图像切成多个图像段")
	flag.BoolVar(&cfg.IncludeLegend, "legend", false, "为每幅图像附加图例")
	flag.IntVar(&cfg.Rows, "rows", sidd.DefaultRows, "图像行数")
	flag.IntVar(&cfg.Cols, "cols", sidd.DefaultCols, "图像列数")
	flag.IntVar(&cfg.NumImages, "images", 0, "图像数 (需要 --multipleImages，默认 2)")
	flag.Int64Var(&cfg.MaxSegmentBytes, "max-segment-bytes", 0, "每个图像段像素数据的字节上限")
	flag.IntVar(&cfg.BlockSize, "block", 0, "NITF 分块边长，0 表示不分块")
	flag.StringVar(&cfg.Classification, "class", nitf.ClassUnclassified, "密级 (U, R, C, S, T)")
	flag.StringVar(&opts.preview.Output, "preview", "", "同时导出第一幅图像的预览 (.png/.jpg/.tiff/.ppm)")
	flag.IntVar(&opts.preview.MaxWidth, "preview-width", 1024, "预览最大宽度")
	flag.IntVar(&opts.preview.Quality, "quality", 95, "JPEG 质量 (1-100)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: sidd-from-mem [选项] <输出.nitf>\n\n")
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n示例:\n")
		fmt.Fprintf(os.Stderr, "  sidd-from-mem --lut Color siddWithColorLUT.nitf\n")
		fmt.Fprintf(os.Stderr, "  sidd-from-mem --multipleSegments --preview p.png siddMultipleSegments.nitf\n")
	}
	flag.Parse()

	if flag.NArg() > 0 {
		opts.output = flag.Arg(0)
	}
	return opts
}

func run(opts *options) error {
	logger := nitf.NewLogger(os.Stderr)

	logger.Step("构建产品", opts.cfg.LUTMode.String())
	b, err := sidd.NewBuilder(opts.cfg)
	if err != nil {
		return err
	}
	b.SetLogger(logger.With("product", filepath.Base(opts.output)))
	if err := b.AddSynthetic(); err != nil {
		return err
	}
	p, err := b.Build()
	if err != nil {
		return err
	}
	logger.Done(fmt.Sprintf("%d 幅图像, %d 个段", len(p.Images), len(p.Segments)))

	logger.Step("写入文件", opts.output)
	if err := p.WriteFile(opts.output); err != nil {
		return err
	}
	logger.Done(fmt.Sprintf("%d 字节", p.Header.FileLength))

	if opts.preview.Output != "" {
		if !strings.Contains(filepath.Base(opts.preview.Output), ".") {
			return fmt.Errorf("预览文件需要扩展名: %s", opts.preview.Output)
		}
		logger.Step("导出预览", opts.preview.Output)
		img, err := p.Images[0].Render()
		if err != nil {
			return err
		}
		if err := output.WritePreview(img, opts.preview); err != nil {
			return err
		}
		logger.Done("完成")
	}
	logger.Total()
	return nil
}
