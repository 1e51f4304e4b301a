package domain

import "time"

// NotificationChannel канал доставки уведомления
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

// NotificationType тип события, о котором уведомляем
type NotificationType string

const (
	NotifyBookingCreated   NotificationType = "booking_created"
	NotifyBookingConfirmed NotificationType = "booking_confirmed"
	NotifyBookingCompleted NotificationType = "booking_completed"
	NotifyBookingCancelled NotificationType = "booking_cancelled"
)

// TaskStatus статус задачи уведомления
type TaskStatus string

const (
	TaskPending        TaskStatus = "pending"
	TaskProcessed      TaskStatus = "processed"
	TaskFailed         TaskStatus = "failed"
	TaskNotImplemented TaskStatus = "not_implemented"
)

// NotificationTask задача на отправку одного уведомления.
// Создается в той же транзакции, что и изменение бронирования;
// обрабатывается отдельным проходом drain. Терминальные статусы
// (processed/failed/not_implemented) не перепроцессируются.
type NotificationTask struct {
	ID               string
	BookingID        string
	RecipientID      int64
	Channel          NotificationChannel
	NotificationType NotificationType
	Status           TaskStatus
	ErrorMessage     *string
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}

// IsTerminal returns true if the task will not be picked up by drain again
func (t *NotificationTask) IsTerminal() bool {
	return t.Status != TaskPending
}
