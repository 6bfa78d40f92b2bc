package models

import "time"

type ContactMessage struct {
	ID        int64
	Email     *string
	Message   string
	CreatedAt time.Time
}
