package colorspace

import "math"

// MonoRamp 生成 n 项灰度查找表
// gamma 为 1 时线性，<= 0 时使用 sRGB 曲线
func MonoRamp(n int, gamma float64) []byte {
	out := make([]byte, n)
	if n == 1 {
		out[0] = 255
		return out
	}
	for i := range out {
		v := float64(i) / float64(n-1)
		switch {
		case gamma <= 0:
			v = SRGBGamma(v)
		case gamma != 1:
			v = ApplyGamma(v, gamma)
		}
		out[i] = ToUint8(v)
	}
	return out
}

// HSVToRGB h 取 [0, 360)，s、v 取 [0, 1]
func HSVToRGB(h, s, v float64) Vector3 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return Vector3{r + m, g + m, b + m}
}

// ColorPalette 生成 n 项彩色查找表：色相从蓝到红扫过，亮度逐渐增加
// 第 0 项固定为黑色
func ColorPalette(n int) [][3]byte {
	out := make([][3]byte, n)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = ConvertToUint8(HSVToRGB(240*(1-t), 1, 0.25+0.75*t))
	}
	return out
}
