package resumes

import "fmt"

// NameError reports a resume name that cannot be used as a storage key
type NameError struct {
	Name    string
	Message string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid resume name %q: %s", e.Name, e.Message)
}

// ExistsError is returned when saving over an existing resume without overwrite
type ExistsError struct {
	Name string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("resume %q already exists", e.Name)
}

// StorageError represents a failure reading or writing the store
type StorageError struct {
	Name    string
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume %q: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("resume %q: %s", e.Name, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
