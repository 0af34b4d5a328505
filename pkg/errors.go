package pkg

import "fmt"

type ErrStoreProcedure struct {
	Cause string
	Info  string
	Err   error
}

func (e ErrStoreProcedure) Error() string {
	return fmt.Sprintf("%s; got error: %s; info: %s", e.Cause, e.Err, e.Info)
}

func (e ErrStoreProcedure) Unwrap() error {
	return e.Err
}

type ErrValidation struct {
	Cause string
}

func (e ErrValidation) Error() string {
	return e.Cause
}

type ErrNotFound struct {
	What string
	ID   int64
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.What, e.ID)
}

type ErrConflict struct {
	Cause string
}

func (e ErrConflict) Error() string {
	return e.Cause
}
