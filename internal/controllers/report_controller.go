package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/services"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/utils"
)

// exportLimit — выгружаем все заказы, которые реально может накопить демо.
const exportLimit = 100000

type ReportController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewReportController(orderService services.OrderServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{orderService: orderService, logger: logger}
}

// ExportOrders отдаёт свежие заказы файлом XLSX; ?format=json возвращает
// тот же список обычным конвертом.
func (c *ReportController) ExportOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orders, err := c.orderService.GetOrders(reqCtx, exportLimit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "json" {
		return utils.SuccessResponse(ctx, orders, "Выгрузка заказов сформирована", http.StatusOK)
	}

	return c.respondWithXLSX(ctx, orders)
}

var exportHeaders = []string{
	"№", "ID заказа", "Клиент", "ID клиента", "Сумма", "Позиций", "Статус", "Создан", "Обновлён",
}

func orderToRow(n int, order entities.Order) []interface{} {
	stampFmt := "02.01.2006 15:04:05"
	return []interface{}{
		n,
		order.OrderID,
		order.CustomerName,
		order.CustomerID,
		order.TotalAmount.String(),
		order.ItemCount,
		string(order.Status),
		order.CreatedAt.Format(stampFmt),
		order.UpdatedAt.Format(stampFmt),
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, orders []entities.Order) error {
	f := excelize.NewFile()
	sheet := "Заказы"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "I1", style)

	for i, order := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := orderToRow(i+1, order)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "C", 28)
	f.SetColWidth(sheet, "D", "D", 16)
	f.SetColWidth(sheet, "E", "G", 14)
	f.SetColWidth(sheet, "H", "I", 22)

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
