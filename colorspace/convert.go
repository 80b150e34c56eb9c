package colorspace

import "math"

// Vector3 RGB 三分量，取值 [0, 1]
type Vector3 [3]float64

// ApplyGamma 应用 gamma 校正
func ApplyGamma(value, gamma float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Pow(value, 1.0/gamma)
}

// SRGBGamma sRGB gamma 曲线
func SRGBGamma(linear float64) float64 {
	if linear <= 0.0031308 {
		return 12.92 * linear
	}
	return 1.055*math.Pow(linear, 1.0/2.4) - 0.055
}

// ToUint8 将 [0, 1] 的值转换为 8-bit
func ToUint8(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, v*255+0.5)))
}

// ConvertToUint8 将浮点 RGB 转换为 8-bit 整数
func ConvertToUint8(rgb Vector3) [3]uint8 {
	return [3]uint8{ToUint8(rgb[0]), ToUint8(rgb[1]), ToUint8(rgb[2])}
}
