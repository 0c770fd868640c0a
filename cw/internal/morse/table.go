package morse

// entry holds a single pattern's decoded character and relative
// frequency weight, used to break ties when a pattern is split.
type entry struct {
	pattern string
	ch      byte
	weight  int
}

// table maps a dot/dash pattern to its character and weight. Weights are
// taken from VE3NEA's Morse Expert frequency tables; digit weights are
// all equal per ITU-R M.1677. A flat slice scanned linearly, not a Go
// map, mirroring the fixed MORSE_TABLE[] array and strcmp scan this is
// ported from; 54 entries makes a linear scan cheap and keeps Lookup
// comparable directly against the caller's byte slice with no per-call
// string allocation.
var table = []entry{
	{".", 'E', 321},
	{"-", 'T', 236},
	{"..", 'I', 115},
	{".-", 'A', 127},
	{"-.", 'N', 103},
	{"--", 'M', 48},
	{"...", 'S', 101},
	{"..-", 'U', 48},
	{".-.", 'R', 84},
	{".--", 'W', 38},
	{"-..", 'D', 68},
	{"-.-", 'K', 17},
	{"--.", 'G', 31},
	{"---", 'O', 127},
	{"....", 'H', 103},
	{"...-", 'V', 16},
	{"..-.", 'F', 37},
	{".-..", 'L', 66},
	{".--.", 'P', 31},
	{".---", 'J', 3},
	{"-...", 'B', 25},
	{"-..-", 'X', 3},
	{"-.-.", 'C', 44},
	{"-.--", 'Y', 32},
	{"--..", 'Z', 2},
	{"--.-", 'Q', 2},
	{".----", '1', 10},
	{"..---", '2', 10},
	{"...--", '3', 10},
	{"....-", '4', 10},
	{".....", '5', 10},
	{"-....", '6', 10},
	{"--...", '7', 10},
	{"---..", '8', 10},
	{"----.", '9', 10},
	{"-----", '0', 10},
	{".-.-.-", '.', 5},
	{"--..--", ',', 5},
	{"..--..", '?', 5},
	{".----.", '\'', 3},
	{"-.-.--", '!', 3},
	{"-..-.", '/', 5},
	{"-.--.", '(', 3},
	{"-.--.-", ')', 3},
	{".-...", '&', 3},
	{"---...", ':', 3},
	{"-.-.-.", ';', 3},
	{"-...-", '=', 5},
	{".-.-.", '+', 3},
	{"-....-", '-', 3},
	{"..--.-", '_', 3},
	{".-..-.", '"', 3},
	{"...-..-", '$', 3},
	{".--.-.", '@', 3},
}

const maxSplitLen = 15

// patternEqual reports whether p equals s without converting p to a
// string, so Lookup can be called with a caller-owned byte slice (e.g. a
// decoder's fixed pattern buffer) on every decoded character without
// allocating.
func patternEqual(p []byte, s string) bool {
	if len(p) != len(s) {
		return false
	}
	for i := range p {
		if p[i] != s[i] {
			return false
		}
	}
	return true
}

// Lookup returns the character for pattern, or '?' if pattern is empty
// or has no entry in the table.
func Lookup(pattern []byte) byte {
	for i := range table {
		if patternEqual(pattern, table[i].pattern) {
			return table[i].ch
		}
	}
	return '?'
}

// Weight returns ch's relative frequency weight, or 1 if ch is not a
// known Morse character.
func Weight(ch byte) int {
	for i := range table {
		if table[i].ch == ch {
			return table[i].weight
		}
	}
	return 1
}

// LookupMerged resolves pattern to one or two characters, writing them
// into out and returning the count written (0, 1 or 2; out must have
// capacity for 2). A direct table hit writes a single character.
// Otherwise it tries every split point up to maxSplitLen, keeping the
// split whose two halves both resolve and whose combined weight is
// highest; ties keep the earliest split found. If no split resolves
// both halves, it writes '?'. pattern is never retained past the call,
// so it and the backing array behind it may be reused by the caller
// immediately after LookupMerged returns.
func LookupMerged(pattern []byte, out *[2]byte) int {
	if len(pattern) == 0 {
		out[0] = '?'
		return 1
	}
	for i := range table {
		if patternEqual(pattern, table[i].pattern) {
			out[0] = table[i].ch
			return 1
		}
	}
	if len(pattern) <= 1 {
		out[0] = '?'
		return 1
	}

	bestWeight := -1
	var bestLeft, bestRight byte

	limit := len(pattern)
	if limit > maxSplitLen {
		limit = maxSplitLen
	}

	for pos := 1; pos < limit; pos++ {
		lch := Lookup(pattern[:pos])
		rch := Lookup(pattern[pos:])
		if lch == '?' || rch == '?' {
			continue
		}
		w := Weight(lch) + Weight(rch)
		if w > bestWeight {
			bestWeight = w
			bestLeft = lch
			bestRight = rch
		}
	}

	if bestWeight >= 0 {
		out[0] = bestLeft
		out[1] = bestRight
		return 2
	}

	out[0] = '?'
	return 1
}
