package reset_notifications

// ResetRequest запрос операторского перезапуска failed задач
type ResetRequest struct {
	TaskIDs []string `json:"taskIds"`
}

// ResetResponse результат перезапуска
type ResetResponse struct {
	Reset int64 `json:"reset"`
}
