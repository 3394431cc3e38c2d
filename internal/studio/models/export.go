package models

import "time"

// ExportRecord — запись журнала экспорта. Сам дизайн не сохраняется.
type ExportRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
}
