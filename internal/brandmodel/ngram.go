package brandmodel

// ngrams counts character n-grams of text padded with one space on each
// side, for every n in [minN, maxN].
func ngrams(text string, minN, maxN int) map[string]int {
	counts := make(map[string]int)
	if text == "" {
		return counts
	}
	runes := []rune(" " + text + " ")
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(runes); i++ {
			counts[string(runes[i:i+n])]++
		}
	}
	return counts
}
