package session

// Reserved words offered as global completion candidates, appended to
// the worker's property names in this fixed order: keywords first, then
// future-reserved words, then the literal constants.

var javascriptKeywords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "finally",
	"for", "function", "if", "import", "in", "instanceof", "let", "new",
	"return", "super", "switch", "this", "throw", "try", "typeof",
	"var", "void", "while", "with", "yield",
}

var futureReservedWords = []string{
	"enum", "implements", "interface", "package", "private",
	"protected", "public", "static", "await",
}

var literalConstants = []string{
	"null", "true", "false",
}
