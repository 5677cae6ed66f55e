package production

import (
	"fmt"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"
	"mps-backend/internal/planning"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

type ProductionOrderResponse struct {
	ID        uint                         `json:"id"`
	ProductID uint                         `json:"product_id"`
	Year      int                          `json:"year"`
	Week      int                          `json:"week"`
	Quantity  decimal.Decimal              `json:"quantity"`
	Status    models.ProductionOrderStatus `json:"status"`
}

type CreateProductionOrderRequest struct {
	ProductID uint            `json:"product_id"`
	Year      int             `json:"year"`
	Week      int             `json:"week"`
	Quantity  decimal.Decimal `json:"quantity"`
	Status    string          `json:"status"` // boşsa INITIAL
}

type UpdateProductionOrderRequest struct {
	Year     *int             `json:"year"`
	Week     *int             `json:"week"`
	Quantity *decimal.Decimal `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func toResponse(o *models.ProductionOrder) ProductionOrderResponse {
	return ProductionOrderResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		Year:      o.Year,
		Week:      o.Week,
		Quantity:  o.Quantity,
		Status:    o.Status,
	}
}

// GET /api/production-orders?product_id=&status=&from_year=&from_week=&to_year=&to_week=
// Aralık parametreleri opsiyoneldir; verilirse dördü birden verilmelidir.
func ListProductionOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.ProductionOrder{})

		productID, err := planning.UintQueryOptional(c, "product_id")
		if err != nil {
			return err
		}
		if productID != nil {
			dbq = dbq.Where("product_id = ?", *productID)
		}

		if statusStr := c.Query("status"); statusStr != "" {
			status, err := models.ParseProductionStatus(statusStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			dbq = dbq.Where("status = ?", status)
		}

		if c.Query("from_year") != "" || c.Query("to_year") != "" {
			from, to, err := planning.RangeFromQuery(c)
			if err != nil {
				return err
			}
			dbq = dbq.Where("year * 100 + week BETWEEN ? AND ?",
				from.Year*100+from.Week, to.Year*100+to.Week)
		}

		var orders []models.ProductionOrder
		if err := dbq.Order("year asc, week asc, id asc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim emirleri listelenemedi")
		}

		res := make([]ProductionOrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/production-orders
func CreateProductionOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductionOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if !planning.ValidWeek(body.Week) {
			return fiber.NewError(fiber.StatusBadRequest, "Hafta 1 ile 53 arasında olmalı")
		}
		if body.Year < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Yıl geçersiz")
		}
		if body.Quantity.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar negatif olamaz")
		}

		var product models.Product
		if err := db.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		status := models.ProductionStatusInitial
		if body.Status != "" {
			st, err := models.ParseProductionStatus(body.Status)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			status = st
		}

		order := models.ProductionOrder{
			ProductID: body.ProductID,
			Year:      body.Year,
			Week:      body.Week,
			Quantity:  body.Quantity,
			Status:    status,
		}
		if err := db.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim emri oluşturulamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Üretim emri: %s, %d/hafta %d, %s", product.Code, order.Year, order.Week, order.Quantity.String()),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&order))
	}
}

// PUT /api/production-orders/:id
func UpdateProductionOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.ProductionOrder
		if err := db.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim emri bulunamadı")
		}
		before := order

		var body UpdateProductionOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Year != nil {
			if *body.Year < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "Yıl geçersiz")
			}
			order.Year = *body.Year
		}
		if body.Week != nil {
			if !planning.ValidWeek(*body.Week) {
				return fiber.NewError(fiber.StatusBadRequest, "Hafta 1 ile 53 arasında olmalı")
			}
			order.Week = *body.Week
		}
		if body.Quantity != nil {
			if body.Quantity.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Miktar negatif olamaz")
			}
			order.Quantity = *body.Quantity
		}

		if err := db.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim emri güncellenemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Üretim emri güncellendi: #%d", order.ID),
			Before:      before,
			After:       order,
		})

		return c.JSON(toResponse(&order))
	}
}

// PUT /api/production-orders/:id/status
// INITIAL -> ACTIVE -> COMPLETE yönünde ilerler; geri dönüş yalnızca ACTIVE -> INITIAL.
func UpdateProductionStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.ProductionOrder
		if err := db.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim emri bulunamadı")
		}
		before := order

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		next, err := models.ParseProductionStatus(body.Status)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		allowed := map[models.ProductionOrderStatus][]models.ProductionOrderStatus{
			models.ProductionStatusInitial:  {models.ProductionStatusActive},
			models.ProductionStatusActive:   {models.ProductionStatusComplete, models.ProductionStatusInitial},
			models.ProductionStatusComplete: {},
		}
		ok := false
		for _, s := range allowed[order.Status] {
			if s == next {
				ok = true
				break
			}
		}
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Durum geçişi geçersiz: %s -> %s", order.Status, next))
		}

		order.Status = next
		if err := db.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Üretim emri durumu: #%d %s -> %s", order.ID, before.Status, next),
			Before:      before,
			After:       order,
		})

		return c.JSON(toResponse(&order))
	}
}

// DELETE /api/production-orders/:id
func DeleteProductionOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.ProductionOrder
		if err := db.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim emri bulunamadı")
		}

		if err := db.Delete(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim emri silinemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production_order",
			EntityID:    order.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Üretim emri silindi: #%d", order.ID),
			Before:      order,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
