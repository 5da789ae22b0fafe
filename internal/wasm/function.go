package wasm

import "github.com/h41-dev/hal/api"

// Function is a function defined inside the module, owning its instruction
// stream. Imported (external) functions are a reserved extension: the
// compiler rejects modules that import functions, so every Function here is
// local.
type Function struct {
	// Signature is the function's type.
	Signature *FunctionSignature

	// Locals are the declared local types, excluding parameters. At frame
	// entry the locals array is parameters first, in order, then one
	// zero-initialized value per entry here.
	Locals []api.ValueType

	// Body is the lowered instruction stream, terminated by OpEnd.
	Body []Instruction
}

// ParamCount returns the number of declared parameters.
func (f *Function) ParamCount() int {
	return len(f.Signature.Params)
}

// ResultCount returns the number of declared results.
func (f *Function) ResultCount() int {
	return len(f.Signature.Results)
}
