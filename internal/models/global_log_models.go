package models

import "time"

// LogChanges describes what an audited operation did.
type LogChanges struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

// GlobalLog is one append-only audit entry.
type GlobalLog struct {
	ID        string     `json:"id"`
	Module    string     `json:"module"`
	Operation string     `json:"operation"`
	EntityID  string     `json:"entityId"`
	Changes   LogChanges `json:"changes"`
	Date      time.Time  `json:"date"`
	UserID    string     `json:"userId"`
	NameUser  string     `json:"nameUser"`
}

// GlobalLogsPage is the body of GET /global-logs.
type GlobalLogsPage struct {
	TotalPages int         `json:"totalPages"`
	Data       []GlobalLog `json:"data"`
}

// GlobalLogsMonthPage is the body of GET /globalLogs/search/months.
type GlobalLogsMonthPage struct {
	TotalPages int         `json:"totalPages"`
	TotalLogs  int         `json:"totalLogs"`
	Data       []GlobalLog `json:"data"`
}
