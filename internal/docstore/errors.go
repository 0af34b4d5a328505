package docstore

import "fmt"

type ErrWriteFile struct {
	Err error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Errorf("failed to write document: %w", e.Err).Error()
}

type ErrReadDir struct {
	Err error
}

func (e *ErrReadDir) Error() string {
	return fmt.Errorf("failed to read documents directory: %w", e.Err).Error()
}
