package similarity

import "answerbase/textproc"

// Jaccard returns |A∩B| / |A∪B|. Two empty sets are identical, so the result is 1.0.
func Jaccard[T comparable](a, b map[T]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// JaccardText compares the normalized token sets of two texts.
func JaccardText(a, b string) float64 {
	return Jaccard(textproc.UniqueTerms(a), textproc.UniqueTerms(b))
}
