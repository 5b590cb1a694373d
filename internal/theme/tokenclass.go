package theme

// TokenClass is a semantic category of source code that is coloured
// independently of the others.
type TokenClass int

const (
	Comment TokenClass = iota
	Keyword
	String
	Number
	FunctionDefinition
	ClassDefinition
	Variable
	Operator
	Punctuation
	Builtin
	Default

	numTokenClasses
)

var tokenClassNames = [numTokenClasses]string{
	Comment:            "comment",
	Keyword:            "keyword",
	String:             "string",
	Number:             "number",
	FunctionDefinition: "function_definition",
	ClassDefinition:    "class_definition",
	Variable:           "variable",
	Operator:           "operator",
	Punctuation:        "punctuation",
	Builtin:            "builtin",
	Default:            "default",
}

// String returns the snake_case name used in CSS class names.
func (c TokenClass) String() string {
	if c < 0 || c >= numTokenClasses {
		return "unknown"
	}
	return tokenClassNames[c]
}

// Valid reports whether c is one of the defined classes.
func (c TokenClass) Valid() bool {
	return c >= 0 && c < numTokenClasses
}

// AllTokenClasses returns every TokenClass in declaration order.
func AllTokenClasses() []TokenClass {
	classes := make([]TokenClass, numTokenClasses)
	for i := range classes {
		classes[i] = TokenClass(i)
	}
	return classes
}

// ParseTokenClass looks a class up by its snake_case name.
func ParseTokenClass(name string) (TokenClass, bool) {
	for i, n := range tokenClassNames {
		if n == name {
			return TokenClass(i), true
		}
	}
	return 0, false
}
