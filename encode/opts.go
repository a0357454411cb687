package encode

type EncodeOption func(*EncState)

// Indent sets the number of spaces per nesting level. The default is 2.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// Depth sets the nesting level of the outermost prim.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.depth = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeHeader controls whether Encode writes the "#usda 1.0" line.
func EncodeHeader(v bool) EncodeOption {
	return func(es *EncState) { es.noHeader = !v }
}
