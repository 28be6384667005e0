package race

import "fmt"

// Role determines the direction a worker moves the shared counter during
// its loop. The single worker routine branches only on the role's step,
// keeping the critical-section logic in one place.
type Role int

const (
	Increment Role = iota
	Decrement
)

// ParseRole converts a flag value into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "increment", "inc", "+":
		return Increment, nil
	case "decrement", "dec", "-":
		return Decrement, nil
	}
	return 0, fmt.Errorf("unknown role %q (want increment or decrement)", s)
}

func (r Role) step() int64 {
	if r == Decrement {
		return -1
	}
	return 1
}

func (r Role) String() string {
	if r == Decrement {
		return "decrement"
	}
	return "increment"
}
