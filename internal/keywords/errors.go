package keywords

import "fmt"

// InputError reports missing or unusable analysis input
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
}
