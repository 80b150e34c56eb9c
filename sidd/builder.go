package sidd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

// ImageInput 调用方提供的一幅图像
type ImageInput struct {
	Raster    *pixel.Raster
	PixelType pixel.Type        // TypeMono、TypeMonoLUT、TypeRGBLUT 或 TypeRGB
	LUT       *nitf.LookupTable // LUT 类型时必填
	Metadata  *DerivedData      // 为 nil 时自动生成
	Legend    *LegendInput
}

// Builder 按配置把若干图像组装成 SIDD 产品
type Builder struct {
	cfg    Config
	inputs []ImageInput
	log    *nitf.Logger
}

// NewBuilder 创建构建器
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &BuildError{Op: "config", Segment: -1, Err: err}
	}
	return &Builder{cfg: cfg, log: nitf.NopLogger()}, nil
}

// SetLogger 设置进度日志
func (b *Builder) SetLogger(l *nitf.Logger) {
	if l == nil {
		l = nitf.NopLogger()
	}
	b.log = l
}

// AddImage 添加一幅图像
func (b *Builder) AddImage(in ImageInput) error {
	if err := checkInput(in); err != nil {
		return &BuildError{Op: "add image", Segment: -1, Err: errors.Wrapf(err, "image %d", len(b.inputs)+1)}
	}
	b.inputs = append(b.inputs, in)
	return nil
}

// AddImages 依次添加多幅图像，任何一幅不合法时都不添加
func (b *Builder) AddImages(ins []ImageInput) error {
	for i, in := range ins {
		if err := checkInput(in); err != nil {
			return &BuildError{Op: "add image", Segment: -1, Err: errors.Wrapf(err, "image %d", len(b.inputs)+i+1)}
		}
	}
	b.inputs = append(b.inputs, ins...)
	return nil
}

// checkRaster 栅格尺寸为正且样本数与尺寸一致
func checkRaster(what string, r *pixel.Raster) error {
	if r == nil || r.Rows <= 0 || r.Cols <= 0 || r.Bands <= 0 {
		return errors.Errorf("empty %s raster", what)
	}
	if want := r.Rows * r.Cols * r.Bands; len(r.Samples) != want {
		return &pixel.SizeMismatchError{What: what + " samples", Expected: int64(want), Actual: int64(len(r.Samples))}
	}
	return nil
}

func checkInput(in ImageInput) error {
	r := in.Raster
	if err := checkRaster("image", r); err != nil {
		return err
	}
	wantBands, wantTables := 1, 0
	switch in.PixelType {
	case pixel.TypeMono:
	case pixel.TypeMonoLUT:
		wantTables = 1
	case pixel.TypeRGBLUT:
		wantTables = 3
	case pixel.TypeRGB:
		wantBands = 3
	default:
		return errors.Errorf("unsupported pixel type %s", in.PixelType)
	}
	if r.Bands != wantBands {
		return errors.Errorf("%s raster has %d bands, want %d", in.PixelType, r.Bands, wantBands)
	}
	switch {
	case wantTables == 0 && in.LUT != nil:
		return errors.Errorf("%s image must not carry a lookup table", in.PixelType)
	case wantTables > 0 && in.LUT == nil:
		return errors.Errorf("%s image needs a lookup table", in.PixelType)
	case wantTables > 0 && in.LUT.Tables != wantTables:
		return errors.Errorf("%s image needs %d LUT tables, got %d", in.PixelType, wantTables, in.LUT.Tables)
	case wantTables > 0 && in.LUT.Entries > 256:
		return errors.Errorf("%d LUT entries do not fit 8-bit indices", in.LUT.Entries)
	}
	if m := in.Metadata; m != nil && (m.Rows() != 0 || m.Cols() != 0) && (m.Rows() != r.Rows || m.Cols() != r.Cols) {
		return errors.Errorf("metadata describes %dx%d pixels, raster is %dx%d", m.Rows(), m.Cols(), r.Rows, r.Cols)
	}
	if l := in.Legend; l != nil {
		if err := checkRaster("legend", l.Raster); err != nil {
			return err
		}
		switch {
		case l.Raster.Bands != 1:
			return errors.New("legend needs a single-band raster")
		case l.LUT == nil || l.LUT.Entries > 2:
			return errors.New("legend needs a lookup table of at most 2 entries")
		case l.Row < 0 || l.Col < 0 || l.Row > nitf.MaxLocation || l.Col > nitf.MaxLocation:
			return errors.Errorf("legend location %d,%d out of range", l.Row, l.Col)
		}
	}
	return nil
}

// buildState 构建过程中的累积状态
type buildState struct {
	cfg      Config
	now      time.Time
	segments []*nitf.Segment
	level    int // 最近分配的 IDLVL
}

// Build 组装产品：先所有主图像段，再图例段，最后每幅图像一个 XML DES
func (b *Builder) Build() (*Product, error) {
	if len(b.inputs) == 0 {
		return nil, &BuildError{Op: "build", Segment: -1, Err: errors.New("no images added")}
	}
	if len(b.inputs) > 1 && !b.cfg.MultipleImages {
		return nil, &BuildError{Op: "build", Segment: -1, Err: errors.Errorf("%d images without MultipleImages", len(b.inputs))}
	}

	st := &buildState{cfg: b.cfg, now: b.cfg.dateTime()}
	p := &Product{}

	b.log.Step("encode images", "count", len(b.inputs))
	for n, in := range b.inputs {
		img := &Image{
			ID:        imagePrefix(n + 1),
			Raster:    in.Raster,
			PixelType: in.PixelType,
			LUT:       in.LUT,
			DESIndex:  -1,
		}
		md, err := st.metadata(n, in)
		if err != nil {
			return nil, &BuildError{Op: "metadata", Segment: -1, Err: errors.Wrapf(err, "image %s", img.ID)}
		}
		img.Metadata = md
		if err := st.addImage(n, img, in); err != nil {
			return nil, err
		}
		p.Images = append(p.Images, img)
	}
	b.log.Done(fmt.Sprintf("%d image segments", len(st.segments)))

	for n, in := range b.inputs {
		if in.Legend == nil {
			continue
		}
		img := p.Images[n]
		lg, err := st.addLegend(n, img, in.Legend)
		if err != nil {
			return nil, err
		}
		img.Legend = lg
	}

	for _, img := range p.Images {
		if err := st.addDES(img); err != nil {
			return nil, err
		}
	}

	h := st.fileHeader(p.Images)
	layout, err := nitf.ComputeLayout(h, st.segments)
	if err != nil {
		return nil, &BuildError{Op: "layout", Segment: segmentOf(err), Err: errors.Wrap(err, "validate product")}
	}
	for i, s := range st.segments {
		s.Offset = layout.Offsets[i]
	}
	p.Header = layout.Header
	p.Segments = st.segments
	b.log.Info("product: %d segments, %d bytes", len(p.Segments), p.Header.FileLength)
	return p, nil
}

// Build 按配置生成合成图像并组装产品
func Build(cfg Config) (*Product, error) {
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	if err := b.AddSynthetic(); err != nil {
		return nil, err
	}
	return b.Build()
}

// AddSynthetic 按配置添加合成图像
func (b *Builder) AddSynthetic() error {
	for n := 0; n < b.cfg.numImages(); n++ {
		if err := b.AddImage(syntheticInput(&b.cfg, len(b.inputs))); err != nil {
			return err
		}
	}
	return nil
}

func segmentOf(err error) int {
	var se *nitf.StructuralError
	if errors.As(err, &se) {
		return se.Segment
	}
	return -1
}

func imagePrefix(n int) string { return fmt.Sprintf("SIDD%03d", n) }

func legendID(n int) string { return fmt.Sprintf("LEGEND%03d", n) }

// rowsPerSegment 每段行数 M
// 分块时 M 为块高的整数倍，使每段只有最后一行块可能不满
func (st *buildState) rowsPerSegment(image int, r *pixel.Raster, bitsPerPixel int) (int, error) {
	cfg := st.cfg
	unitRows := 1
	unitBytes := r.RowBytes(bitsPerPixel)
	if cfg.BlockSize > 0 {
		unitRows = cfg.BlockSize
		f := pixel.Format{
			Rows:         cfg.BlockSize,
			Cols:         r.Cols,
			Bands:        r.Bands,
			BitsPerPixel: bitsPerPixel,
			Mode:         modeFor(r.Bands),
			BlockRows:    cfg.BlockSize,
			BlockCols:    blockDim(r.Cols, cfg.BlockSize),
		}
		unitBytes = f.EncodedSize()
	}

	var m int
	switch {
	case cfg.MultipleSegments && cfg.MaxSegmentBytes == 0:
		m = (r.Rows + forcedSegments - 1) / forcedSegments
		m = (m + unitRows - 1) / unitRows * unitRows
	default:
		limit := cfg.MaxSegmentBytes
		if limit == 0 {
			limit = nitf.MaxImageDataLength
		}
		units := limit / unitBytes
		if units > nitf.MaxLocation {
			units = nitf.MaxLocation
		}
		m = int(units) * unitRows
		if m == 0 {
			return 0, &UnsplittableImageError{Image: image, UnitRows: unitRows, UnitBytes: unitBytes, MaxSegmentBytes: limit}
		}
	}
	if m > nitf.MaxLocation {
		m = nitf.MaxLocation / unitRows * unitRows
	}
	if cfg.SegmentRows > 0 && cfg.SegmentRows < m {
		m = cfg.SegmentRows
	}
	if m <= 0 {
		m = 1
	}
	return m, nil
}

// chunk 把栅格切成若干段，返回每段的行范围
func chunk(rows, m int) [][2]int {
	var out [][2]int
	for start := 0; start < rows; start += m {
		end := start + m
		if end > rows {
			end = rows
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func modeFor(bands int) pixel.Mode {
	if bands > 1 {
		return pixel.ModePixel
	}
	return pixel.ModeBlock
}

// blockDim NPPBH/NPPBV：不分块时整幅为一块，超过 8192 时写 0
func blockDim(n, blockSize int) int {
	if blockSize > 0 && blockSize < n {
		return blockSize
	}
	if n > 8192 {
		return 0
	}
	return n
}

func (st *buildState) nextLevel() int {
	st.level++
	return st.level
}

func (st *buildState) addImage(n int, img *Image, in ImageInput) error {
	m, err := st.rowsPerSegment(n+1, in.Raster, 8)
	if err != nil {
		return &BuildError{Op: "chunk", Segment: len(st.segments), Err: err}
	}
	ranges := chunk(in.Raster.Rows, m)
	if len(ranges) > 999 {
		return &BuildError{Op: "chunk", Segment: len(st.segments), Err: errors.Errorf("image %s needs %d segments", img.ID, len(ranges))}
	}

	corners := img.Metadata.corners()
	prevRows := 0
	for c, rr := range ranges {
		rows := rr[1] - rr[0]
		sh := st.imageSubheader(in.PixelType, in.LUT, rows, in.Raster.Cols)
		sh.ImageID = fmt.Sprintf("%s%03d", img.ID, c+1)
		sh.Title = img.Metadata.ProductCreation.ProductName
		sh.DisplayLevel = st.nextLevel()
		if c > 0 {
			sh.AttachmentLevel = sh.DisplayLevel - 1
			sh.LocationRow = prevRows
		}
		if len(corners) == 4 {
			sh.CoordSystem = "G"
			sh.Corners = chunkCorners(corners, rr, in.Raster.Rows).IGEOLO()
		}
		prevRows = rows

		idx := len(st.segments)
		sub, err := in.Raster.SubRows(rr[0], rows)
		if err != nil {
			return &BuildError{Op: "chunk", Segment: idx, Err: err}
		}
		seg, err := nitf.NewImageSegment(sh, sub)
		if err != nil {
			return &BuildError{Op: "encode image", Segment: idx, Err: errors.Wrapf(err, "segment %s", sh.ImageID)}
		}
		st.segments = append(st.segments, seg)
		img.SegmentIndexes = append(img.SegmentIndexes, idx)
		img.RowRanges = append(img.RowRanges, rr)
	}
	return nil
}

// chunkCorners 在左右两条边上按行插值出某一段的四角
func chunkCorners(vs []Vertex, rr [2]int, rows int) *DerivedData {
	lerp := func(a, b Vertex, t float64) Vertex {
		return Vertex{Lat: a.Lat + (b.Lat-a.Lat)*t, Lon: a.Lon + (b.Lon-a.Lon)*t}
	}
	t0 := float64(rr[0]) / float64(rows)
	t1 := float64(rr[1]) / float64(rows)
	ul, ur, lr, ll := vs[0], vs[1], vs[2], vs[3]
	d := &DerivedData{}
	d.GeographicAndTarget.GeographicCoverage.Footprint.Vertices = []Vertex{
		lerp(ul, ll, t0), lerp(ur, lr, t0), lerp(ur, lr, t1), lerp(ul, ll, t1),
	}
	return d
}

func (st *buildState) addLegend(n int, img *Image, in *LegendInput) (*Legend, error) {
	lg := &Legend{ID: legendID(n + 1), Raster: in.Raster, LUT: in.LUT, Row: in.Row, Col: in.Col}
	m, err := st.rowsPerSegment(n+1, in.Raster, 1)
	if err != nil {
		return nil, &BuildError{Op: "chunk legend", Segment: len(st.segments), Err: err}
	}

	attach := st.segments[img.SegmentIndexes[0]].Image().DisplayLevel
	row, col := in.Row, in.Col
	for _, rr := range chunk(in.Raster.Rows, m) {
		rows := rr[1] - rr[0]
		sh := st.legendSubheader(rows, in.Raster.Cols, in.LUT)
		sh.ImageID = lg.ID
		sh.DisplayLevel = st.nextLevel()
		sh.AttachmentLevel = attach
		sh.LocationRow, sh.LocationCol = row, col

		idx := len(st.segments)
		sub, err := in.Raster.SubRows(rr[0], rows)
		if err != nil {
			return nil, &BuildError{Op: "chunk legend", Segment: idx, Err: err}
		}
		seg, err := nitf.NewImageSegment(sh, sub)
		if err != nil {
			return nil, &BuildError{Op: "encode legend", Segment: idx, Err: errors.Wrapf(err, "legend %s", lg.ID)}
		}
		st.segments = append(st.segments, seg)
		lg.SegmentIndexes = append(lg.SegmentIndexes, idx)

		// 后续段挂在前一段上，紧接其下
		attach, row, col = sh.DisplayLevel, rows, 0
	}
	return lg, nil
}

func (st *buildState) addDES(img *Image) error {
	idx := len(st.segments)
	body, err := img.Metadata.Encode()
	if err != nil {
		return &BuildError{Op: "encode metadata", Segment: idx, Err: err}
	}
	user, err := xmlUserHeader(img.Metadata, st.now.Format(time.RFC3339)).Encode()
	if err != nil {
		return &BuildError{Op: "encode metadata", Segment: idx, Err: errors.Wrap(err, "DES user subheader")}
	}
	sh := &nitf.DESubheader{
		TypeID:     nitf.DESXMLDataContent,
		Version:    1,
		Security:   st.security(),
		UserHeader: user,
	}
	st.segments = append(st.segments, nitf.NewDESegment(sh, body))
	img.DESIndex = idx
	return nil
}

func (st *buildState) security() nitf.Security {
	s := nitf.Unclassified()
	s.Classification = st.cfg.classification()
	return s
}

func (st *buildState) nitfDate() string {
	return st.now.Format("20060102150405")
}

func (st *buildState) imageSubheader(t pixel.Type, lut *nitf.LookupTable, rows, cols int) *nitf.ImageSubheader {
	sh := &nitf.ImageSubheader{
		DateTime:       st.nitfDate(),
		Security:       st.security(),
		Source:         "SAR",
		Rows:           rows,
		Cols:           cols,
		ValueType:      nitf.PVTypeInt,
		Representation: nitf.IREPMono,
		Category:       nitf.ICATSAR,
		ActualBits:     8,
		Justification:  "R",
		Compression:    nitf.CompressionNone,
		Mode:           pixel.ModeBlock,
		BlockRows:      blockDim(rows, st.cfg.BlockSize),
		BlockCols:      blockDim(cols, st.cfg.BlockSize),
		BitsPerPixel:   8,
		Magnification:  "1.0",
	}
	switch t {
	case pixel.TypeMono:
		sh.Bands = []nitf.BandInfo{{Representation: nitf.BandMono, FilterCondition: "N"}}
	case pixel.TypeMonoLUT:
		sh.Bands = []nitf.BandInfo{{Representation: nitf.BandLUT, FilterCondition: "N", LUT: lut}}
	case pixel.TypeRGBLUT:
		sh.Representation = nitf.IREPRGBLUT
		sh.Bands = []nitf.BandInfo{{Representation: nitf.BandLUT, FilterCondition: "N", LUT: lut}}
	case pixel.TypeRGB:
		sh.Representation = nitf.IREPRGB
		sh.Mode = pixel.ModePixel
		sh.Bands = []nitf.BandInfo{
			{Representation: nitf.BandRed, FilterCondition: "N"},
			{Representation: nitf.BandGreen, FilterCondition: "N"},
			{Representation: nitf.BandBlue, FilterCondition: "N"},
		}
	}
	return sh
}

// legendSubheader 1 位单色图例，2 项 LUT
func (st *buildState) legendSubheader(rows, cols int, lut *nitf.LookupTable) *nitf.ImageSubheader {
	sh := st.imageSubheader(pixel.TypeMonoLUT, lut, rows, cols)
	sh.ValueType = nitf.PVTypeBit
	sh.Category = nitf.ICATLegend
	sh.Source = ""
	sh.ActualBits = 1
	sh.BitsPerPixel = 1
	return sh
}

func (st *buildState) fileHeader(images []*Image) *nitf.FileHeader {
	maxDim := 0
	for _, img := range images {
		if img.Raster.Rows > maxDim {
			maxDim = img.Raster.Rows
		}
		if img.Raster.Cols > maxDim {
			maxDim = img.Raster.Cols
		}
	}
	return &nitf.FileHeader{
		ComplexityLevel: complexityLevel(maxDim),
		OriginStationID: "SIDDGO",
		DateTime:        st.nitfDate(),
		Title:           st.cfg.Title,
		Security:        st.security(),
		OriginatorName:  vendorID,
	}
}

// complexityLevel CLEVEL 按最大图像边长取 3/5/6/7
func complexityLevel(maxDim int) int {
	switch {
	case maxDim <= 2048:
		return 3
	case maxDim <= 8192:
		return 5
	case maxDim <= 65536:
		return 6
	}
	return 7
}

// displayPixelType SIDD Display/PixelType
func displayPixelType(t pixel.Type) string {
	switch t {
	case pixel.TypeMonoLUT:
		return "MONO8LU"
	case pixel.TypeRGBLUT:
		return "RGB8LU"
	case pixel.TypeRGB:
		return "RGB24I"
	}
	return "MONO8I"
}

// metadata 返回图像的 DerivedData；调用方提供时复制后补齐像素相关字段
func (st *buildState) metadata(n int, in ImageInput) (*DerivedData, error) {
	var d DerivedData
	if in.Metadata != nil {
		d = *in.Metadata
	} else {
		d = st.defaultMetadata(n, in.Raster)
	}
	d.XMLName.Space, d.XMLName.Local = Namespace, "SIDD"
	d.Measurement.PixelFootprint = RowCol{Row: in.Raster.Rows, Col: in.Raster.Cols}
	d.Display.PixelType = displayPixelType(in.PixelType)
	d.Display.RemapInformation = nil
	switch in.PixelType {
	case pixel.TypeMonoLUT:
		d.Display.RemapInformation = &RemapInformation{
			MonochromeDisplayRemap: &MonochromeDisplayRemap{RemapType: "LUT", RemapLUT: NewRemapLUT(in.LUT)},
		}
	case pixel.TypeRGBLUT:
		d.Display.RemapInformation = &RemapInformation{
			ColorDisplayRemap: &ColorDisplayRemap{RemapLUT: NewRemapLUT(in.LUT)},
		}
	}
	if vs := d.corners(); len(vs) != 0 && len(vs) != 4 {
		return nil, errors.Errorf("footprint has %d vertices, want 4", len(vs))
	}
	return &d, nil
}

// defaultMetadata 合成产品的元数据：地面点随图像序号东移
func (st *buildState) defaultMetadata(n int, r *pixel.Raster) DerivedData {
	const spacing = 0.5 // m
	lat, lon := 34.0, -118.0+0.01*float64(n)
	dLat := float64(r.Rows) * spacing / 111320
	dLon := float64(r.Cols) * spacing / 92000
	stamp := st.now.Format(time.RFC3339)

	d := DerivedData{
		ProductCreation: ProductCreation{
			ProcessorInformation: ProcessorInformation{Application: vendorID, ProcessingDateTime: stamp, Site: "local"},
			Classification:       Classification{Level: st.cfg.classification()},
			ProductName:          strings.TrimSpace(st.cfg.Title + " " + imagePrefix(n+1)),
			ProductClass:         "Detected Image",
		},
		Measurement: Measurement{
			PlaneProjection: PlaneProjection{
				ReferencePoint: ReferencePoint{
					ECEF:  XYZ{X: -2503357.0, Y: -4660203.0, Z: 3551245.0},
					Point: RowColFloat{Row: float64(r.Rows) / 2, Col: float64(r.Cols) / 2},
				},
				SampleSpacing: RowColFloat{Row: spacing, Col: spacing},
			},
		},
		ExploitationFeatures: ExploitationFeatures{
			Collections: []Collection{{
				Identifier: fmt.Sprintf("COLLECT%03d", n+1),
				Information: CollectionInformation{
					SensorName:         "SYNTHETIC",
					ModeType:           "SPOTLIGHT",
					CollectionDateTime: stamp,
				},
			}},
			Product: ProductFeatures{Resolution: RowColFloat{Row: 2 * spacing, Col: 2 * spacing}},
		},
	}
	d.GeographicAndTarget.GeographicCoverage.Footprint.Vertices = []Vertex{
		{Index: 1, Lat: lat + dLat, Lon: lon},
		{Index: 2, Lat: lat + dLat, Lon: lon + dLon},
		{Index: 3, Lat: lat, Lon: lon + dLon},
		{Index: 4, Lat: lat, Lon: lon},
	}
	return d
}
