package dto

import "time"

// DashboardStatsDTO — сводка для дашборда: разбивка заказов по статусам,
// суммарная стоимость и состояние живых подключений.
type DashboardStatsDTO struct {
	TotalOrders      int64            `json:"totalOrders"`
	StatusCounts     map[string]int64 `json:"statusCounts"`
	TotalAmount      string           `json:"totalAmount"`
	ConnectedClients int              `json:"connectedClients"`
	SimulatorEnabled bool             `json:"simulatorEnabled"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}
