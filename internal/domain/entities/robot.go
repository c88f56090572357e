package entities

import "time"

const (
	StatusConnected = "connected"
	StatusPolled    = "polled"
)

// Robot - сохраненная запись о контроллере. Пароль в базе не хранится:
// учетные данные при восстановлении подключения берутся из манифеста.
type Robot struct {
	SessionID   string    `gorm:"primaryKey;not null" json:"session_id"`
	Name        string    `gorm:"not null;unique" json:"name"`
	EndpointURL string    `gorm:"not null;unique" json:"endpoint_url"` // HOST:PORT
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Status      string    `gorm:"not null" json:"status"` // connected / polled
	Interval    int       `json:"interval"`               // Интервал опроса в мс
}
