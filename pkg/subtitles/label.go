package subtitles

// Ellipsize shortens text to limit runes by keeping both ends around "...".
func Ellipsize(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	keep := (limit - 3) / 2
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + "..." + string(runes[len(runes)-keep:])
}
