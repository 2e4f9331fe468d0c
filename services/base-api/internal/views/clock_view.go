package views

type ClockView struct {
	Time          string `json:"time"` // RFC3339
	Zone          string `json:"zone"`
	OffsetSeconds int    `json:"offsetSeconds"`
}
