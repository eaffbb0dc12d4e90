package migration

import (
	"errors"
	"fmt"
)

// Direction of a migration run
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ErrMissingPrerequisite is returned when a table the migration references is absent.
var ErrMissingPrerequisite = errors.New("required table is missing")

// MigrationError reports the step at which a run stopped. Steps already
// applied are not rolled back; the schema may be mixed and needs an operator.
type MigrationError struct {
	Direction Direction
	Step      string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed at step %q: %v", e.Direction, e.Step, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}
