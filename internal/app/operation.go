package app

// Operation tracks the CLI command a GTApp was created for. It is logged when
// the app opens and again with its final status when the app closes.
type Operation struct {
	Command    string
	Parameters string
	Status     string // "success" or "error"
}

// NewOperation creates an operation that has not failed yet.
func NewOperation(command, parameters string) *Operation {
	return &Operation{
		Command:    command,
		Parameters: parameters,
		Status:     "success",
	}
}

// Record marks the operation failed when err is non-nil and returns err unchanged.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Failed reports whether any recorded step returned an error.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}

// logArgs returns the operation as slog key/value pairs.
func (op *Operation) logArgs() []any {
	args := []any{"command", op.Command, "status", op.Status}
	if op.Parameters != "" {
		args = append(args, "parameters", op.Parameters)
	}
	return args
}
