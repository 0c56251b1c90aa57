package reason

// Field names one typed input or output of a contract, with the description
// the model sees.
type Field struct {
	Name        string
	Description string
}

// Contract fixes the named inputs, outputs and natural-language task of one
// reasoning invocation. Call sites depend on a contract value, never on
// prompt strings of their own, so every model call in the codebase goes
// through the same entry point.
type Contract struct {
	Name    string
	Task    string
	Inputs  []Field
	Outputs []Field
}
