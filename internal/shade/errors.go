package shade

import "fmt"

type ErrDuplicateShade struct {
	Name string
}

func (e *ErrDuplicateShade) Error() string {
	return fmt.Sprintf("shade %q already exists in ledger", e.Name)
}
