package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/weaming/sidd-go/nitf"
)

func main() {
	out := flag.StringP("output", "o", "", "写入文件而不是标准输出")
	showLUT := flag.Bool("lut", false, "打印查找表内容")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: nitf-dump [选项] <文件.nitf>\n\n")
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(flag.Arg(0), *out, *showLUT); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(input, outPath string, showLUT bool) error {
	f, err := nitf.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = os.Stdout
	if outPath != "" {
		fh, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("无法创建输出文件: %w", err)
		}
		defer fh.Close()
		w = fh
	}

	fmt.Fprintf(w, "BEGIN: file header\n\n")
	dumpFileHeader(w, f.Header)
	fmt.Fprintf(w, "END: file header\n\n")

	errs := 0
	for i := 0; i < f.NumSegments(); i++ {
		sh, err := f.Subheader(i)
		if err != nil {
			fmt.Fprintf(w, "segment %d: %v\n\n", i, err)
			errs++
			continue
		}
		fmt.Fprintf(w, "BEGIN: %s segment %d\n\n", sh.Kind(), i)
		switch s := sh.(type) {
		case *nitf.ImageSubheader:
			dumpImage(w, s, showLUT)
		case *nitf.TextSubheader:
			dumpText(w, s)
		case *nitf.DESubheader:
			dumpDES(w, s)
		default:
			fmt.Fprintf(w, "  (opaque)\n")
		}
		fmt.Fprintf(w, "END: %s segment %d\n\n", sh.Kind(), i)
	}

	fmt.Fprintf(os.Stderr, "   : READ THE NITF FILE %s\n", input)
	fmt.Fprintf(os.Stderr, "   : Segments: %d\terrors: %d\n", f.NumSegments(), errs)
	return nil
}

func dumpFileHeader(w io.Writer, h *nitf.FileHeader) {
	fmt.Fprintf(w, "header.\n")
	fmt.Fprintf(w, "  CLEVEL   = %02d\n", h.ComplexityLevel)
	fmt.Fprintf(w, "  OSTAID   = %s\n", h.OriginStationID)
	fmt.Fprintf(w, "  FDT      = %s\n", h.DateTime)
	fmt.Fprintf(w, "  FTITLE   = %s\n", h.Title)
	dumpSecurity(w, "FS", h.Security)
	fmt.Fprintf(w, "  ONAME    = %s\n", h.OriginatorName)
	fmt.Fprintf(w, "  FL       = %d\n", h.FileLength)
	fmt.Fprintf(w, "  HL       = %d\n", h.HeaderLength)
	fmt.Fprintf(w, "  index\n")
	for i, e := range h.Segments {
		fmt.Fprintf(w, "    %3d: %-16s subheader %8d  data %12d\n", i, e.Kind, e.SubheaderLength, e.DataLength)
	}
	if len(h.UserDefined) > 0 {
		fmt.Fprintf(w, "  UDHD     = %d bytes\n", len(h.UserDefined))
	}
	if len(h.Extended) > 0 {
		fmt.Fprintf(w, "  XHD      = %d bytes\n", len(h.Extended))
	}
}

func dumpSecurity(w io.Writer, prefix string, s nitf.Security) {
	fmt.Fprintf(w, "  %sCLAS   = %s\n", prefix, s.Classification)
	if s.System != "" {
		fmt.Fprintf(w, "  %sCLSY   = %s\n", prefix, s.System)
	}
	if s.Releasing != "" {
		fmt.Fprintf(w, "  %sREL    = %s\n", prefix, s.Releasing)
	}
}

func dumpImage(w io.Writer, s *nitf.ImageSubheader, showLUT bool) {
	fmt.Fprintf(w, "  IID1     = %s\n", s.ImageID)
	fmt.Fprintf(w, "  IID2     = %s\n", s.Title)
	fmt.Fprintf(w, "  IDATIM   = %s\n", s.DateTime)
	dumpSecurity(w, "IS", s.Security)
	fmt.Fprintf(w, "  NROWS    = %d\n", s.Rows)
	fmt.Fprintf(w, "  NCOLS    = %d\n", s.Cols)
	fmt.Fprintf(w, "  PVTYPE   = %s\n", s.ValueType)
	fmt.Fprintf(w, "  IREP     = %s (%s)\n", s.Representation, s.PixelType())
	fmt.Fprintf(w, "  ICAT     = %s\n", s.Category)
	fmt.Fprintf(w, "  ABPP     = %d\n", s.ActualBits)
	if s.CoordSystem != "" {
		fmt.Fprintf(w, "  ICORDS   = %s\n", s.CoordSystem)
		fmt.Fprintf(w, "  IGEOLO   = %s\n", s.Corners)
	}
	for i, c := range s.Comments {
		fmt.Fprintf(w, "  ICOM%d    = %s\n", i+1, c)
	}
	fmt.Fprintf(w, "  IC       = %s\n", s.Compression)
	fmt.Fprintf(w, "  IMODE    = %c\n", s.Mode)
	f := s.PixelFormat()
	br, bc := f.PixelsPerBlock()
	fmt.Fprintf(w, "  blocks   = %d x %d of %d x %d\n", f.BlocksPerCol(), f.BlocksPerRow(), br, bc)
	fmt.Fprintf(w, "  NBPP     = %d\n", s.BitsPerPixel)
	fmt.Fprintf(w, "  IDLVL    = %d\n", s.DisplayLevel)
	fmt.Fprintf(w, "  IALVL    = %d\n", s.AttachmentLevel)
	fmt.Fprintf(w, "  ILOC     = %05d%05d\n", s.LocationRow, s.LocationCol)
	fmt.Fprintf(w, "  bands\n")
	for i, b := range s.Bands {
		fmt.Fprintf(w, "    %d: IREPBAND=%-2s ISUBCAT=%s", i+1, b.Representation, b.Subcategory)
		if b.LUT != nil {
			fmt.Fprintf(w, " NLUTS=%d NELUT=%d", b.LUT.Tables, b.LUT.Entries)
		}
		fmt.Fprintln(w)
		if showLUT && b.LUT != nil {
			dumpLUT(w, b.LUT)
		}
	}
}

func dumpLUT(w io.Writer, lut *nitf.LookupTable) {
	for i := 0; i < lut.Entries; i++ {
		fmt.Fprintf(w, "      %5d:", i)
		for t := 0; t < lut.Tables; t++ {
			fmt.Fprintf(w, " %3d", lut.Table(t)[i])
		}
		fmt.Fprintln(w)
	}
}

func dumpText(w io.Writer, s *nitf.TextSubheader) {
	fmt.Fprintf(w, "  TEXTID   = %s\n", s.TextID)
	fmt.Fprintf(w, "  TXTALVL  = %d\n", s.AttachmentLevel)
	fmt.Fprintf(w, "  TXTITL   = %s\n", s.Title)
	fmt.Fprintf(w, "  TXTFMT   = %s\n", s.Format)
	dumpSecurity(w, "TS", s.Security)
}

func dumpDES(w io.Writer, s *nitf.DESubheader) {
	fmt.Fprintf(w, "  DESID    = %s\n", s.TypeID)
	fmt.Fprintf(w, "  DESVER   = %02d\n", s.Version)
	dumpSecurity(w, "DES", s.Security)
	if s.TypeID == nitf.DESTREOverflow {
		fmt.Fprintf(w, "  DESOFLW  = %s\n", s.OverflowedHeader)
		fmt.Fprintf(w, "  DESITEM  = %d\n", s.OverflowItem)
	}
	if s.TypeID != nitf.DESXMLDataContent || len(s.UserHeader) == 0 {
		fmt.Fprintf(w, "  DESSHL   = %d\n", len(s.UserHeader))
		return
	}
	x, err := nitf.DecodeXMLDataContent(s.UserHeader)
	if err != nil {
		fmt.Fprintf(w, "  DESSHF   = %v\n", err)
		return
	}
	fmt.Fprintf(w, "  DESSHFT  = %s\n", x.FileType)
	fmt.Fprintf(w, "  DESSHDT  = %s\n", x.DateTime)
	fmt.Fprintf(w, "  DESSHRP  = %s\n", x.RootPrefix)
	fmt.Fprintf(w, "  DESSHSI  = %s\n", x.SpecIdentifier)
	fmt.Fprintf(w, "  DESSHSV  = %s\n", x.SpecVersion)
	fmt.Fprintf(w, "  DESSHTN  = %s\n", x.TargetNamespace)
	fmt.Fprintf(w, "  DESSHLPG = %s\n", x.LocationPolygon)
}
