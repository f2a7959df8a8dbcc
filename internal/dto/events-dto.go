package dto

// SubscriptionDTO — управление подпиской уже подключённого live-клиента.
type SubscriptionDTO struct {
	ClientID string `json:"clientId" validate:"required,uuid4"`
	OrderID  string `json:"orderId" validate:"required,min=3,max=64"`
}
