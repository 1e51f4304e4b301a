package discover_slots

// Request модель параметров поиска слотов
type Request struct {
	Category    string // Подстрока категории услуги (опционально)
	DateRange   string // today | tomorrow | within7days | any (по умолчанию any)
	TimeOfDay   string // morning | afternoon | evening (опционально)
	Location    string // Подстрока города, адреса или индекса (опционально)
	MaxDistance string // Максимальная дистанция от location в км (опционально)
	SortBy      string // date | price (по умолчанию date)
}

// ProviderInfo профиль провайдера в поисковой выдаче
type ProviderInfo struct {
	ID           int64   `json:"id"`
	DisplayName  string  `json:"displayName"`
	BusinessName string  `json:"businessName"`
	Category     string  `json:"category"`
	City         string  `json:"city"`
	Address      string  `json:"address"`
	Postcode     string  `json:"postcode"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"reviewCount"`
}

// SlotResult слот в поисковой выдаче, обогащённый данными провайдера
type SlotResult struct {
	ID              string       `json:"id"`
	Date            string       `json:"date"`      // "2025-10-15"
	StartTime       string       `json:"startTime"` // "10:00"
	EndTime         string       `json:"endTime"`   // "11:00"
	DurationMinutes int          `json:"durationMinutes"`
	Price           float64      `json:"price"`
	DiscountPrice   *float64     `json:"discountPrice,omitempty"`
	ServiceLabel    string       `json:"serviceLabel"`
	Provider        ProviderInfo `json:"provider"`
}

// Response модель поисковой выдачи
type Response struct {
	Slots []SlotResult `json:"slots"`
}
