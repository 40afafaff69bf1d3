package cleanup

// Prompter is the confirmation capability consumed by the destructive
// workflows. Production wires a terminal prompt; tests script the answers.
type Prompter interface {
	Confirm(prompt string) (bool, error)
}
