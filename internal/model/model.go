package model

type Validator interface {
	Validate() map[string]string
}

const (
	ErrEmptyField   = "EMPTY"
	ErrInvalidField = "INVALID_VALUE"
)

func inStringSlice(v string, xs []string) bool {
	for _, x := range xs {
		if v == x {
			return true
		}
	}
	return false
}
