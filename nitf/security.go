package nitf

// Security 文件头与各子头共用的 167 字节安全字段组
type Security struct {
	Classification     string // xSCLAS
	System             string // xSCLSY
	Codewords          string // xSCODE
	ControlHandling    string // xSCTLH
	Releasing          string // xSREL
	DeclassType        string // xSDCTP
	DeclassDate        string // xSDCDT
	DeclassExemption   string // xSDCXM
	Downgrade          string // xSDG
	DowngradeDate      string // xSDGDT
	ClassificationText string // xSCLTX
	AuthorityType      string // xSCATP
	Authority          string // xSCAUT
	Reason             string // xSCRSN
	SourceDate         string // xSSRDT
	ControlNumber      string // xSCTLN
}

// Unclassified 返回只设置了 U 级别的安全字段组
func Unclassified() Security {
	return Security{Classification: ClassUnclassified}
}

func validClassification(c string) bool {
	switch c {
	case ClassUnclassified, ClassRestricted, ClassConfidential, ClassSecret, ClassTopSecret:
		return true
	}
	return false
}

// prefix 是字段名前缀：文件头 FS、图像 IS、文本 TS、DES 为 DES
func (s *Security) encode(w *fieldWriter, prefix string) {
	// 超长的值交给 alpha 报告溢出
	if len(s.Classification) <= 1 && !validClassification(s.Classification) {
		w.fail(&InvalidFieldError{Record: w.record, Field: prefix + "CLAS", Value: s.Classification, Reason: "must be one of T, S, C, R, U"})
		return
	}
	w.alpha(prefix+"CLAS", 1, s.Classification)
	w.alpha(prefix+"CLSY", 2, s.System)
	w.alpha(prefix+"CODE", 11, s.Codewords)
	w.alpha(prefix+"CTLH", 2, s.ControlHandling)
	w.alpha(prefix+"REL", 20, s.Releasing)
	w.alpha(prefix+"DCTP", 2, s.DeclassType)
	w.alpha(prefix+"DCDT", 8, s.DeclassDate)
	w.alpha(prefix+"DCXM", 4, s.DeclassExemption)
	w.alpha(prefix+"DG", 1, s.Downgrade)
	w.alpha(prefix+"DGDT", 8, s.DowngradeDate)
	w.text(prefix+"CLTX", 43, s.ClassificationText)
	w.alpha(prefix+"CATP", 1, s.AuthorityType)
	w.text(prefix+"CAUT", 40, s.Authority)
	w.alpha(prefix+"CRSN", 1, s.Reason)
	w.alpha(prefix+"SRDT", 8, s.SourceDate)
	w.alpha(prefix+"CTLN", 15, s.ControlNumber)
}

func (s *Security) decode(r *fieldReader, prefix string) {
	s.Classification = r.alpha(prefix+"CLAS", 1)
	if r.err == nil && !validClassification(s.Classification) {
		r.fail(prefix+"CLAS", "unknown classification "+s.Classification)
		return
	}
	s.System = r.alpha(prefix+"CLSY", 2)
	s.Codewords = r.alpha(prefix+"CODE", 11)
	s.ControlHandling = r.alpha(prefix+"CTLH", 2)
	s.Releasing = r.alpha(prefix+"REL", 20)
	s.DeclassType = r.alpha(prefix+"DCTP", 2)
	s.DeclassDate = r.alpha(prefix+"DCDT", 8)
	s.DeclassExemption = r.alpha(prefix+"DCXM", 4)
	s.Downgrade = r.alpha(prefix+"DG", 1)
	s.DowngradeDate = r.alpha(prefix+"DGDT", 8)
	s.ClassificationText = r.text(prefix+"CLTX", 43)
	s.AuthorityType = r.alpha(prefix+"CATP", 1)
	s.Authority = r.text(prefix+"CAUT", 40)
	s.Reason = r.alpha(prefix+"CRSN", 1)
	s.SourceDate = r.alpha(prefix+"SRDT", 8)
	s.ControlNumber = r.alpha(prefix+"CTLN", 15)
}
