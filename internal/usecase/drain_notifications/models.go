package drain_notifications

// TaskResult результат обработки одной задачи
type TaskResult struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`
}

// Response итог одного прохода по очереди
type Response struct {
	Processed int          `json:"processed"`
	Results   []TaskResult `json:"results"`
}
