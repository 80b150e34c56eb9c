package sidd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

// imageGroup 同一 IID1 前缀的图像段
type imageGroup struct {
	id      string
	indexes []int
	legend  bool
}

// Reader 从容器重建 SIDD 产品，忽略的段记为警告
type Reader struct {
	log *nitf.Logger
}

// NewReader 默认不输出日志
func NewReader() *Reader {
	return &Reader{log: nitf.NopLogger()}
}

// SetLogger 设置日志，nil 时保持原样
func (rd *Reader) SetLogger(l *nitf.Logger) {
	if l != nil {
		rd.log = l
	}
}

// ReadProduct 从容器段重建逻辑视图：拼接分段图像、挂接图例、解析 XML 元数据
func ReadProduct(h *nitf.FileHeader, segs []*nitf.Segment) (*Product, error) {
	return NewReader().Read(h, segs)
}

// Read 同 ReadProduct
func (rd *Reader) Read(h *nitf.FileHeader, segs []*nitf.Segment) (*Product, error) {
	if err := nitf.ValidateSegments(h, segs); err != nil {
		return nil, err
	}

	var groups []*imageGroup
	byID := make(map[string]*imageGroup)
	var desIndexes []int
	for i, s := range segs {
		if sh := s.Image(); sh != nil {
			id, legend := groupID(sh)
			g := byID[id]
			if g == nil {
				g = &imageGroup{id: id, legend: legend}
				byID[id] = g
				groups = append(groups, g)
			}
			g.indexes = append(g.indexes, i)
			continue
		}
		switch d := s.DES(); {
		case d != nil && d.TypeID == nitf.DESXMLDataContent:
			desIndexes = append(desIndexes, i)
		case d != nil:
			rd.log.Warn("segment %d: DES %q is not SIDD metadata, ignored", i, d.TypeID)
		default:
			rd.log.Warn("segment %d: %s segment ignored", i, s.Kind())
		}
	}

	p := &Product{Header: h, Segments: segs}
	owner := make(map[int]*Image) // IDLVL -> 图像
	var legends []*imageGroup
	for _, g := range groups {
		if g.legend {
			legends = append(legends, g)
			continue
		}
		img, err := readImage(g, segs)
		if err != nil {
			return nil, err
		}
		for _, i := range g.indexes {
			owner[segs[i].Image().DisplayLevel] = img
		}
		p.Images = append(p.Images, img)
	}

	for _, g := range legends {
		lg, attach, err := readLegend(g, segs)
		if err != nil {
			return nil, err
		}
		img := owner[attach]
		if img == nil {
			return nil, &nitf.StructuralError{Segment: g.indexes[0], Reason: fmt.Sprintf("legend %s attached to unknown display level %d", g.id, attach)}
		}
		if img.Legend != nil {
			return nil, &nitf.StructuralError{Segment: g.indexes[0], Reason: fmt.Sprintf("image %s has two legends", img.ID)}
		}
		img.Legend = lg
	}

	if len(desIndexes) == 0 && len(p.Images) > 0 {
		rd.log.Warn("no XML_DATA_CONTENT DES, %d images read without metadata", len(p.Images))
	}
	if len(desIndexes) > 0 && len(desIndexes) != len(p.Images) {
		return nil, &nitf.StructuralError{Segment: -1, Reason: fmt.Sprintf("%d XML DES for %d images", len(desIndexes), len(p.Images))}
	}
	for n, i := range desIndexes {
		img := p.Images[n]
		md, err := DecodeDerivedData(segs[i].Data)
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d", i)
		}
		if md.Rows() != img.Raster.Rows || md.Cols() != img.Raster.Cols {
			return nil, &nitf.StructuralError{Segment: i, Reason: fmt.Sprintf("metadata describes %dx%d pixels, image %s is %dx%d",
				md.Rows(), md.Cols(), img.ID, img.Raster.Rows, img.Raster.Cols)}
		}
		if v := md.Version(); v != "1.0.0" {
			rd.log.Info("segment %d: SIDD %s metadata", i, v)
		}
		img.Metadata = md
		img.DESIndex = i
	}
	return p, nil
}

// groupID 主图像按 SIDDnnn 分组，图例按完整 IID1 分组
func groupID(sh *nitf.ImageSubheader) (string, bool) {
	if sh.Category == nitf.ICATLegend || strings.HasPrefix(sh.ImageID, "LEGEND") {
		return sh.ImageID, true
	}
	if strings.HasPrefix(sh.ImageID, "SIDD") && len(sh.ImageID) == 10 {
		return sh.ImageID[:7], false
	}
	return sh.ImageID, false
}

// stitch 解码并按行拼接一组段，检查 ILOC/IALVL 链
func stitch(id string, indexes []int, segs []*nitf.Segment) (*pixel.Raster, [][2]int, error) {
	parts := make([]*pixel.Raster, 0, len(indexes))
	ranges := make([][2]int, 0, len(indexes))
	row := 0
	var prev *nitf.ImageSubheader
	for _, i := range indexes {
		sh := segs[i].Image()
		if prev != nil && (sh.AttachmentLevel != prev.DisplayLevel || sh.LocationRow != prev.Rows || sh.LocationCol != 0) {
			return nil, nil, &nitf.StructuralError{Segment: i,
				Reason: fmt.Sprintf("%s does not continue segment at display level %d", sh.ImageID, prev.DisplayLevel)}
		}
		if prev != nil && (sh.Cols != prev.Cols || len(sh.Bands) != len(prev.Bands)) {
			return nil, nil, &nitf.StructuralError{Segment: i, Reason: fmt.Sprintf("%s geometry differs from previous segment", sh.ImageID)}
		}
		r, err := nitf.DecodeImageData(sh, segs[i].Data)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "segment %d (%s)", i, id)
		}
		parts = append(parts, r)
		ranges = append(ranges, [2]int{row, row + r.Rows})
		row += r.Rows
		prev = sh
	}
	r, err := pixel.StackRows(parts)
	if err != nil {
		return nil, nil, err
	}
	return r, ranges, nil
}

func readImage(g *imageGroup, segs []*nitf.Segment) (*Image, error) {
	first := segs[g.indexes[0]].Image()
	r, ranges, err := stitch(g.id, g.indexes, segs)
	if err != nil {
		return nil, err
	}
	return &Image{
		ID:             g.id,
		Raster:         r,
		PixelType:      first.PixelType(),
		LUT:            first.LUT(),
		SegmentIndexes: g.indexes,
		RowRanges:      ranges,
		DESIndex:       -1,
	}, nil
}

// readLegend 返回图例及其首段挂接的 IDLVL
func readLegend(g *imageGroup, segs []*nitf.Segment) (*Legend, int, error) {
	first := segs[g.indexes[0]].Image()
	r, _, err := stitch(g.id, g.indexes, segs)
	if err != nil {
		return nil, 0, err
	}
	return &Legend{
		ID:             g.id,
		Raster:         r,
		LUT:            first.LUT(),
		SegmentIndexes: g.indexes,
		Row:            first.LocationRow,
		Col:            first.LocationCol,
	}, first.AttachmentLevel, nil
}

// OpenProduct 读取 SIDD 文件
func OpenProduct(filename string) (*Product, error) {
	return NewReader().Open(filename)
}

// Open 同 OpenProduct
func (rd *Reader) Open(filename string) (*Product, error) {
	h, segs, err := nitf.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	p, err := rd.Read(h, segs)
	if err != nil {
		return nil, fmt.Errorf("failed to read SIDD product %s: %w", filename, err)
	}
	return p, nil
}
