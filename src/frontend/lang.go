package frontend

type reservedItem struct {
	val string
	typ tokenType
}

// rw contains the set of all reserved Cell keywords. The first dimension
// equals the length of the word, the second dimension the words of that
// length. Indexing by length before comparing is faster than a hash table
// for a keyword set this small, the same trick the teacher's lang.go uses.
var rw = [...][]reservedItem{
	// One-grams
	{},
	// Two-grams
	{
		{val: "if", typ: IF},
	},
	// Three-grams
	{
		{val: "int", typ: INT},
		{val: "vec", typ: VEC},
	},
	// Four-grams
	{
		{val: "else", typ: ELSE},
		{val: "true", typ: TRUE},
		{val: "real", typ: REAL},
		{val: "quit", typ: QUIT},
	},
	// Five-grams
	{
		{val: "false", typ: FALSE},
		{val: "while", typ: WHILE},
	},
	// Six-grams
	{
		{val: "global", typ: GLOBAL},
	},
}

// isKeyword returns true if s is a reserved Cell keyword, and if so the
// token type to emit instead of IDENTIFIER.
func isKeyword(s string) (bool, tokenType) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, IDENTIFIER
	}
	for _, e1 := range rw[len(s)-1] {
		if e1.val == s {
			return true, e1.typ
		}
	}
	return false, IDENTIFIER
}
