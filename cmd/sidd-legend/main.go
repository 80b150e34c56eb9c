package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/sidd"
)

func main() {
	dir := flag.String("dir", ".", "输出目录")
	ext := flag.String("ext", "nitf", "输出文件扩展名")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: sidd-legend [选项] <文件名前缀>\n\n")
		fmt.Fprintf(os.Stderr, "生成 <前缀>_blocked.<扩展名> 与 <前缀>_unblocked.<扩展名> 两个带图例的 SIDD 文件\n\n")
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	logger := nitf.NewLogger(os.Stderr)
	logger.Step("生成图例产品", flag.Arg(0))
	paths, err := sidd.CreateLegendProducts(*dir, flag.Arg(0), *ext)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
	logger.Done(fmt.Sprintf("%d 个文件", len(paths)))
	for _, p := range paths {
		fmt.Println(p)
	}
	logger.Total()
}
