package model

import "fmt"

// Field names of the homework status API payload.
const (
	FieldHomeworks    = "homeworks"
	FieldCurrentDate  = "current_date"
	FieldHomeworkName = "homework_name"
	FieldStatus       = "status"
)

// Review status codes reported by the API.
const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

// verdicts is the display text for each known status. Never mutated.
var verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

const statusChangedFormat = `Изменился статус проверки работы "%s". %s`

// Homework is the latest submission as reported by the API.
type Homework struct {
	Name   string
	Status string
}

// Verdict returns the display text for status.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// StatusMessage formats the chat message for a homework with a known verdict.
func StatusMessage(name, verdict string) string {
	return fmt.Sprintf(statusChangedFormat, name, verdict)
}

// FailureMessage formats the chat message for a failed poll cycle.
func FailureMessage(err error) string {
	return fmt.Sprintf("Сбой в работе программы: %s", err)
}
