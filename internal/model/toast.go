package model

// ToastLevel selects the toast color.
type ToastLevel string

// Toast levels.
const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)

// Toast is a transient acknowledgment shown to the user.
type Toast struct {
	Message string
	Level   ToastLevel
}
