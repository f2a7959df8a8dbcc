// Файл: internal/routes/main_router_test.go
package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/listeners"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/repositories"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/services"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/customvalidator"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/eventbus"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/utils"
	appws "github.com/kssamy/RealtimeStatusUpdatrs/pkg/websocket"
	"github.com/kssamy/RealtimeStatusUpdatrs/seeders"
)

// OrderAPITestSuite поднимает полный HTTP-слой на хранилище в памяти:
// без брокера и без симулятора, статусы двигаются только руками.
type OrderAPITestSuite struct {
	suite.Suite
	Echo *echo.Echo
}

func (suite *OrderAPITestSuite) SetupSuite() {
	e := echo.New()
	nopLogger := zap.NewNop()

	v := validator.New()
	err := customvalidator.RegisterCustomValidations(v)
	assert.NoError(suite.T(), err, "Регистрация кастомных правил валидации не должна падать")
	e.Validator = utils.NewValidator(v)

	repo := repositories.NewOrderRepository()
	bus := eventbus.New(nopLogger)
	hub := appws.NewHub(nopLogger)
	go hub.Run()

	orderService := services.NewOrderService(repo, bus, nopLogger)
	dashboardService := services.NewDashboardService(repo, hub, false, nopLogger)
	listeners.NewBroadcastListener(hub, nopLogger).Register(bus)

	_, err = seeders.SeedDemoOrders(repo)
	assert.NoError(suite.T(), err, "Наполнение демо-заказами не должно падать")

	InitRouter(e, &RouterDeps{
		OrderService:     orderService,
		DashboardService: dashboardService,
		Hub:              hub,
		Logger:           nopLogger,
	})

	suite.Echo = e
}

// doJSON прогоняет запрос через роутер без настоящего сетевого слоя.
func (suite *OrderAPITestSuite) doJSON(method, path, payload string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	suite.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var responseBody map[string]interface{}
	err := json.Unmarshal(rec.Body.Bytes(), &responseBody)
	require.NoError(t, err, "Тело ответа должно быть валидным JSON. Body: %s", rec.Body.String())
	return responseBody
}

func bodyObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	responseBody := decodeEnvelope(t, rec)
	data, ok := responseBody["body"].(map[string]interface{})
	require.True(t, ok, "Поле body должно быть объектом. Body: %s", rec.Body.String())
	return data
}

func bodyArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	responseBody := decodeEnvelope(t, rec)
	if responseBody["body"] == nil {
		return nil
	}
	data, ok := responseBody["body"].([]interface{})
	require.True(t, ok, "Поле body должно быть массивом. Body: %s", rec.Body.String())
	return data
}

// TestFullOrderWorkflow проверяет весь жизненный цикл заказа через API.
func (suite *OrderAPITestSuite) TestFullOrderWorkflow() {
	const orderID = "ORD-API-100"

	suite.Run("1_CreateOrder", func() {
		payload := `{"orderId": "` + orderID + `", "customerId": "CUST-API", "customerName": "Тестовый Клиент", "totalAmount": "1999.99", "itemCount": 4}`
		rec := suite.doJSON(http.MethodPost, "/api/orders", payload)

		assert.Equal(suite.T(), http.StatusCreated, rec.Code, "Ожидался статус 201 Created. Body: %s", rec.Body.String())

		data := bodyObject(suite.T(), rec)
		assert.Equal(suite.T(), orderID, data["orderId"])
		assert.Equal(suite.T(), "pending", data["status"], "Новый заказ должен стартовать в pending")
	})

	suite.Run("2_GetOrderByID", func() {
		rec := suite.doJSON(http.MethodGet, "/api/orders/"+orderID, "")

		assert.Equal(suite.T(), http.StatusOK, rec.Code, "Ожидался статус 200 OK")

		data := bodyObject(suite.T(), rec)
		assert.Equal(suite.T(), "Тестовый Клиент", data["customerName"])
		assert.Equal(suite.T(), "1999.99", data["totalAmount"])
	})

	suite.Run("3_UpdateOrder", func() {
		rec := suite.doJSON(http.MethodPut, "/api/orders/"+orderID, `{"customerName": "Клиент ОБНОВЛЁН", "itemCount": 7}`)

		assert.Equal(suite.T(), http.StatusOK, rec.Code, "Ожидался статус 200 OK при обновлении. Body: %s", rec.Body.String())

		data := bodyObject(suite.T(), rec)
		assert.Equal(suite.T(), "Клиент ОБНОВЛЁН", data["customerName"])
		assert.Equal(suite.T(), float64(7), data["itemCount"]) // JSON числа всегда float64
		assert.Equal(suite.T(), "CUST-API", data["customerId"], "Незатронутые поля должны сохраниться")
	})

	suite.Run("4_TriggerStatusUpdate", func() {
		rec := suite.doJSON(http.MethodPost, "/api/orders/"+orderID+"/trigger-update",
			`{"status": "shipped", "changedBy": "оператор склада"}`)

		assert.Equal(suite.T(), http.StatusOK, rec.Code, "Ожидался статус 200 OK. Body: %s", rec.Body.String())

		data := bodyObject(suite.T(), rec)
		assert.Equal(suite.T(), "shipped", data["status"], "Ручной перевод не ограничен цепочкой статусов")
	})

	suite.Run("5_HistoryAfterTrigger", func() {
		rec := suite.doJSON(http.MethodGet, "/api/orders/"+orderID+"/history", "")

		assert.Equal(suite.T(), http.StatusOK, rec.Code)

		history := bodyArray(suite.T(), rec)
		require.Len(suite.T(), history, 2, "Таймлайн: создание + ручной перевод")

		last := history[len(history)-1].(map[string]interface{})
		assert.Equal(suite.T(), "shipped", last["status"])
		assert.Equal(suite.T(), "оператор склада", last["operator"], "changedBy из запроса попадает в историю")
	})

	suite.Run("6_MessagesAfterTrigger", func() {
		rec := suite.doJSON(http.MethodGet, "/api/orders/"+orderID+"/messages", "")

		assert.Equal(suite.T(), http.StatusOK, rec.Code)

		messages := bodyArray(suite.T(), rec)
		require.Len(suite.T(), messages, 1, "Смена статуса должна оставить одно сообщение в журнале")

		msg := messages[0].(map[string]interface{})
		assert.Equal(suite.T(), "status_update", msg["messageType"])
		assert.Contains(suite.T(), msg["content"], "shipped")
	})

	suite.Run("7_ClearMessages", func() {
		rec := suite.doJSON(http.MethodDelete, "/api/orders/"+orderID+"/messages", "")

		assert.Equal(suite.T(), http.StatusOK, rec.Code)
		data := bodyObject(suite.T(), rec)
		assert.Equal(suite.T(), float64(1), data["removed"])

		recAfter := suite.doJSON(http.MethodGet, "/api/orders/"+orderID+"/messages", "")
		assert.Equal(suite.T(), http.StatusOK, recAfter.Code)
		assert.Empty(suite.T(), bodyArray(suite.T(), recAfter), "После очистки журнал должен быть пуст")
	})
}

func (suite *OrderAPITestSuite) TestCreateOrderValidation() {
	// Нет обязательных полей
	rec := suite.doJSON(http.MethodPost, "/api/orders", `{"orderId": "ORD-BAD"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code, "Без обязательных полей ожидался 400. Body: %s", rec.Body.String())

	// Сломанный JSON
	rec = suite.doJSON(http.MethodPost, "/api/orders", `{"orderId": `)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	// Сумма не разбирается как decimal
	rec = suite.doJSON(http.MethodPost, "/api/orders",
		`{"orderId": "ORD-BAD-AMY", "customerId": "C-1", "customerName": "Клиент", "totalAmount": "не число", "itemCount": 1}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	// Неизвестный статус в теле создания
	rec = suite.doJSON(http.MethodPost, "/api/orders",
		`{"orderId": "ORD-BAD-ST", "customerId": "C-1", "customerName": "Клиент", "totalAmount": "10.00", "itemCount": 1, "status": "teleported"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	responseBody := decodeEnvelope(suite.T(), rec)
	assert.Equal(suite.T(), false, responseBody["status"])
}

func (suite *OrderAPITestSuite) TestCreateDuplicateOrder() {
	payload := `{"orderId": "ORD-API-DUP", "customerId": "CUST-DUP", "customerName": "Первый", "totalAmount": "50.00", "itemCount": 1}`

	rec := suite.doJSON(http.MethodPost, "/api/orders", payload)
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)

	rec = suite.doJSON(http.MethodPost, "/api/orders", payload)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code, "Повторное создание должно давать 409 Conflict. Body: %s", rec.Body.String())

	responseBody := decodeEnvelope(suite.T(), rec)
	assert.Equal(suite.T(), false, responseBody["status"])
	assert.Contains(suite.T(), responseBody["message"], "уже существует")
}

func (suite *OrderAPITestSuite) TestGetUnknownOrder() {
	rec := suite.doJSON(http.MethodGet, "/api/orders/ORD-NO-SUCH", "")

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code, "Неизвестный заказ должен давать 404")

	responseBody := decodeEnvelope(suite.T(), rec)
	assert.Equal(suite.T(), false, responseBody["status"])
	assert.Equal(suite.T(), "заказ не найден", responseBody["message"])
}

func (suite *OrderAPITestSuite) TestUpdateUnknownOrder() {
	rec := suite.doJSON(http.MethodPut, "/api/orders/ORD-NO-SUCH", `{"itemCount": 2}`)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code, "PUT по несуществующему заказу не должен его создавать")
}

func (suite *OrderAPITestSuite) TestTriggerValidation() {
	// Неизвестный статус режется валидатором
	rec := suite.doJSON(http.MethodPost, "/api/orders/ORD-1001/trigger-update", `{"status": "vanished"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code, "Неизвестный статус должен давать 400. Body: %s", rec.Body.String())

	// Статус валиден, но заказа нет
	rec = suite.doJSON(http.MethodPost, "/api/orders/ORD-NO-SUCH/trigger-update", `{"status": "confirmed"}`)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *OrderAPITestSuite) TestOrdersListLimit() {
	rec := suite.doJSON(http.MethodGet, "/api/orders?limit=2", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	orders := bodyArray(suite.T(), rec)
	assert.Len(suite.T(), orders, 2, "Параметр limit должен ограничивать выдачу")

	// Без limit действует дефолт в десять заказов, демо-набор их даёт пять
	recAll := suite.doJSON(http.MethodGet, "/api/orders", "")
	assert.Equal(suite.T(), http.StatusOK, recAll.Code)
	got := len(bodyArray(suite.T(), recAll))
	assert.GreaterOrEqual(suite.T(), got, 5)
	assert.LessOrEqual(suite.T(), got, utils.DefaultLimit)
}

func (suite *OrderAPITestSuite) TestDashboardStats() {
	rec := suite.doJSON(http.MethodGet, "/api/dashboard/stats", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	data := bodyObject(suite.T(), rec)
	assert.GreaterOrEqual(suite.T(), data["totalOrders"], float64(5), "Демо-набор даёт минимум пять заказов")
	assert.Equal(suite.T(), false, data["simulatorEnabled"])
	assert.NotEmpty(suite.T(), data["totalAmount"])

	counts, ok := data["statusCounts"].(map[string]interface{})
	require.True(suite.T(), ok, "statusCounts должен быть объектом")
	assert.Contains(suite.T(), counts, "pending")
	assert.Contains(suite.T(), counts, "delivered", "Нулевые статусы тоже присутствуют в разбивке")
}

func (suite *OrderAPITestSuite) TestExportOrders() {
	rec := suite.doJSON(http.MethodGet, "/api/orders/export", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get(echo.HeaderContentType))
	assert.Contains(suite.T(), rec.Header().Get("Content-Disposition"), "orders_")
	assert.NotZero(suite.T(), rec.Body.Len(), "XLSX-файл не должен быть пустым")

	// JSON-вариант того же отчёта
	recJSON := suite.doJSON(http.MethodGet, "/api/orders/export?format=json", "")
	assert.Equal(suite.T(), http.StatusOK, recJSON.Code)
	assert.Contains(suite.T(), recJSON.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.NotEmpty(suite.T(), bodyArray(suite.T(), recJSON))
}

func (suite *OrderAPITestSuite) TestSubscriptionValidation() {
	// Идентификатор клиента не UUID
	rec := suite.doJSON(http.MethodPost, "/api/events/subscribe", `{"clientId": "не-uuid", "orderId": "ORD-1001"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	// UUID валиден, но такого клиента нет
	rec = suite.doJSON(http.MethodPost, "/api/events/subscribe",
		fmt.Sprintf(`{"clientId": %q, "orderId": "ORD-1001"}`, uuid.New().String()))
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code, "Неизвестный live-клиент должен давать 404. Body: %s", rec.Body.String())
}

func readAnyEnvelope(t *testing.T, conn *gws.Conn) map[string]interface{} {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err, "Ожидался очередной кадр live-канала")

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &envelope), "Кадр должен быть валидным JSON: %s", string(raw))
	return envelope
}

// readEnvelope читает кадры live-канала, пропуская чужие типы,
// пока не встретит wantType.
func readEnvelope(t *testing.T, conn *gws.Conn, wantType string) map[string]interface{} {
	for {
		if envelope := readAnyEnvelope(t, conn); envelope["type"] == wantType {
			return envelope
		}
	}
}

func envelopePayload(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	payload, ok := envelope["payload"].(map[string]interface{})
	require.True(t, ok, "Поле payload должно быть объектом")
	return payload
}

// TestLiveEvents поднимает настоящий WebSocket поверх httptest-сервера
// и проверяет фильтрацию кадров по подписке.
func (suite *OrderAPITestSuite) TestLiveEvents() {
	server := httptest.NewServer(suite.Echo)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events?orderId=ORD-1001"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(suite.T(), err, "Подключение к live-каналу не должно падать")
	defer conn.Close()

	var clientID string

	suite.Run("1_ConnectionStatus", func() {
		envelope := readEnvelope(suite.T(), conn, "connection_status")
		payload := envelopePayload(suite.T(), envelope)

		assert.Equal(suite.T(), true, payload["connected"])

		clientID, _ = payload["clientId"].(string)
		require.NotEmpty(suite.T(), clientID, "Подтверждение должно содержать идентификатор клиента")
		_, err := uuid.Parse(clientID)
		assert.NoError(suite.T(), err, "Идентификатор клиента должен быть UUID")
	})

	suite.Run("2_UpdateFramesDelivered", func() {
		rec := suite.doJSON(http.MethodPost, "/api/orders/ORD-1001/trigger-update", `{"status": "confirmed"}`)
		require.Equal(suite.T(), http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		// Кадр заказа и кадр журнала идут от разных слушателей шины,
		// их взаимный порядок не фиксирован. Собираем оба.
		var orderPayload, messagePayload map[string]interface{}
		for orderPayload == nil || messagePayload == nil {
			envelope := readAnyEnvelope(suite.T(), conn)
			switch envelope["type"] {
			case "order_update":
				orderPayload = envelopePayload(suite.T(), envelope)
			case "message_update":
				messagePayload = envelopePayload(suite.T(), envelope)
			}
		}

		data, ok := orderPayload["data"].(map[string]interface{})
		require.True(suite.T(), ok, "Поле data должно быть объектом")
		assert.Equal(suite.T(), "ORD-1001", data["orderId"])
		assert.Equal(suite.T(), "confirmed", data["status"])

		assert.Equal(suite.T(), "ORD-1001", messagePayload["orderId"])
		assert.Equal(suite.T(), "status_update", messagePayload["messageType"])
	})

	suite.Run("3_SubscribeViaREST", func() {
		rec := suite.doJSON(http.MethodPost, "/api/events/subscribe",
			fmt.Sprintf(`{"clientId": %q, "orderId": "ORD-1002"}`, clientID))
		require.Equal(suite.T(), http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

		recTrigger := suite.doJSON(http.MethodPost, "/api/orders/ORD-1002/trigger-update", `{"status": "confirmed"}`)
		require.Equal(suite.T(), http.StatusOK, recTrigger.Code)

		envelope := readEnvelope(suite.T(), conn, "order_update")
		payload := envelopePayload(suite.T(), envelope)
		data := payload["data"].(map[string]interface{})
		assert.Equal(suite.T(), "ORD-1002", data["orderId"], "После подписки кадры второго заказа должны доходить")
	})

	suite.Run("4_ForeignOrdersFiltered", func() {
		// Заказ вне подписки, его кадры до клиента дойти не должны
		rec := suite.doJSON(http.MethodPost, "/api/orders/ORD-1003/trigger-update", `{"status": "confirmed"}`)
		require.Equal(suite.T(), http.StatusOK, rec.Code)

		// Следом двигаем подписанный заказ: доставка строго по порядку,
		// так что первый же order_update обязан быть про ORD-1002.
		rec = suite.doJSON(http.MethodPost, "/api/orders/ORD-1002/trigger-update", `{"status": "processing"}`)
		require.Equal(suite.T(), http.StatusOK, rec.Code)

		envelope := readEnvelope(suite.T(), conn, "order_update")
		payload := envelopePayload(suite.T(), envelope)
		data := payload["data"].(map[string]interface{})
		assert.Equal(suite.T(), "ORD-1002", data["orderId"], "Кадры чужого заказа не должны просачиваться")
		assert.Equal(suite.T(), "processing", data["status"])
	})

	suite.Run("5_UnsubscribeViaREST", func() {
		rec := suite.doJSON(http.MethodPost, "/api/events/unsubscribe",
			fmt.Sprintf(`{"clientId": %q, "orderId": "ORD-1002"}`, clientID))
		require.Equal(suite.T(), http.StatusOK, rec.Code)

		// ORD-1002 отписан, остаётся начальная подписка на ORD-1001
		rec = suite.doJSON(http.MethodPost, "/api/orders/ORD-1002/trigger-update", `{"status": "shipped"}`)
		require.Equal(suite.T(), http.StatusOK, rec.Code)
		rec = suite.doJSON(http.MethodPost, "/api/orders/ORD-1001/trigger-update", `{"status": "processing"}`)
		require.Equal(suite.T(), http.StatusOK, rec.Code)

		envelope := readEnvelope(suite.T(), conn, "order_update")
		payload := envelopePayload(suite.T(), envelope)
		data := payload["data"].(map[string]interface{})
		assert.Equal(suite.T(), "ORD-1001", data["orderId"], "После отписки кадры ORD-1002 должны игнорироваться")
	})
}

// TestLiveEventsAllOrders: подключение без orderId получает кадры всех заказов.
func (suite *OrderAPITestSuite) TestLiveEventsAllOrders() {
	server := httptest.NewServer(suite.Echo)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(suite.T(), err)
	defer conn.Close()

	readEnvelope(suite.T(), conn, "connection_status")

	rec := suite.doJSON(http.MethodPost, "/api/orders/ORD-1004/trigger-update", `{"status": "confirmed"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code, "Body: %s", rec.Body.String())

	envelope := readEnvelope(suite.T(), conn, "order_update")
	payload := envelopePayload(suite.T(), envelope)
	data := payload["data"].(map[string]interface{})
	assert.Equal(suite.T(), "ORD-1004", data["orderId"], "Режим «все заказы» должен получать любые обновления")
}

// Эта стандартная функция Go запускает наш набор тестов
func TestOrderAPISuite(t *testing.T) {
	suite.Run(t, new(OrderAPITestSuite))
}
