package providerservice

// Provider профиль провайдера из справочника ProviderService
type Provider struct {
	ID           int64   `json:"id"`
	DisplayName  string  `json:"display_name"`
	BusinessName string  `json:"business_name"`
	Category     string  `json:"category"`
	City         string  `json:"city"`
	Address      string  `json:"address"`
	Postcode     string  `json:"postcode"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
}

// ErrorResponse модель ошибки от ProviderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
