package render

// argbToRGBA converts little-endian packed ARGB pixels (B G R A byte
// order, as the universe draws them) into the R G B A order ebiten
// uploads. Both slices hold 4 bytes per pixel and must be equally sized.
func argbToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		b, g, r, a := src[i], src[i+1], src[i+2], src[i+3]
		dst[i+0] = r
		dst[i+1] = g
		dst[i+2] = b
		dst[i+3] = a
	}
}
