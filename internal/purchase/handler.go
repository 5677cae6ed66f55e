package purchase

import (
	"fmt"
	"strings"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"
	"mps-backend/internal/planning"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

type PurchaseOrderLineResponse struct {
	ID         uint            `json:"id"`
	MaterialID uint            `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	EtaYear    int             `json:"eta_year"`
	EtaWeek    int             `json:"eta_week"`
}

type PurchaseOrderResponse struct {
	ID           uint                        `json:"id"`
	OrderNo      string                      `json:"order_no"`
	SupplierName string                      `json:"supplier_name"`
	Status       models.PurchaseOrderStatus  `json:"status"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
}

type LineRequest struct {
	MaterialID uint            `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	EtaYear    int             `json:"eta_year"`
	EtaWeek    int             `json:"eta_week"`
}

type CreatePurchaseOrderRequest struct {
	OrderNo      string        `json:"order_no"`
	SupplierName string        `json:"supplier_name"`
	Status       string        `json:"status"` // boşsa INITIAL
	Lines        []LineRequest `json:"lines"`
}

type UpdatePurchaseOrderRequest struct {
	OrderNo      *string       `json:"order_no"`
	SupplierName *string       `json:"supplier_name"`
	Lines        []LineRequest `json:"lines"` // nil değilse satır seti komple değişir
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func toResponse(o *models.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			ID:         l.ID,
			MaterialID: l.MaterialID,
			Quantity:   l.Quantity,
			EtaYear:    l.EtaYear,
			EtaWeek:    l.EtaWeek,
		})
	}
	return PurchaseOrderResponse{
		ID:           o.ID,
		OrderNo:      o.OrderNo,
		SupplierName: o.SupplierName,
		Status:       o.Status,
		Lines:        lines,
	}
}

func validateLines(db *gorm.DB, lines []LineRequest) error {
	for _, l := range lines {
		if l.MaterialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu")
		}
		if l.Quantity.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar negatif olamaz")
		}
		if !planning.ValidWeek(l.EtaWeek) {
			return fiber.NewError(fiber.StatusBadRequest, "ETA haftası 1 ile 53 arasında olmalı")
		}
		if l.EtaYear < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "ETA yılı geçersiz")
		}
		var m models.Material
		if err := db.First(&m, "id = ?", l.MaterialID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Hammadde bulunamadı (ID: %d)", l.MaterialID))
		}
	}
	return nil
}

// GET /api/purchase-orders?status=&material_id=
func ListPurchaseOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.PurchaseOrder{}).Preload("Lines")

		if statusStr := c.Query("status"); statusStr != "" {
			status, err := models.ParsePurchaseStatus(statusStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			dbq = dbq.Where("status = ?", status)
		}

		materialID, err := planning.UintQueryOptional(c, "material_id")
		if err != nil {
			return err
		}
		if materialID != nil {
			dbq = dbq.Where(
				"id IN (SELECT purchase_order_id FROM purchase_order_lines WHERE material_id = ?)",
				*materialID)
		}

		var orders []models.PurchaseOrder
		if err := dbq.Order("id desc").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]PurchaseOrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/purchase-orders/:id
func GetPurchaseOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.PurchaseOrder
		if err := db.Preload("Lines").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		return c.JSON(toResponse(&order))
	}
}

// POST /api/purchase-orders
// Sipariş başlığı ve satırları tek transaction içinde yazılır.
func CreatePurchaseOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.OrderNo = strings.TrimSpace(body.OrderNo)
		if body.OrderNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "order_no zorunlu")
		}

		var existing models.PurchaseOrder
		if err := db.Where("order_no = ?", body.OrderNo).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu sipariş numarası zaten kullanılıyor")
		}

		status := models.PurchaseStatusInitial
		if body.Status != "" {
			st, err := models.ParsePurchaseStatus(body.Status)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			status = st
		}

		if err := validateLines(db, body.Lines); err != nil {
			return err
		}

		order := models.PurchaseOrder{
			OrderNo:      body.OrderNo,
			SupplierName: strings.TrimSpace(body.SupplierName),
			Status:       status,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			for _, l := range body.Lines {
				line := models.PurchaseOrderLine{
					PurchaseOrderID: order.ID,
					MaterialID:      l.MaterialID,
					Quantity:        l.Quantity,
					EtaYear:         l.EtaYear,
					EtaWeek:         l.EtaWeek,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
				order.Lines = append(order.Lines, line)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Satınalma siparişi: %s (%d satır)", order.OrderNo, len(order.Lines)),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(&order))
	}
}

// PUT /api/purchase-orders/:id
// Lines gönderilmişse satır seti komple değiştirilir; başlık ve satırlar tek
// transaction içinde güncellenir, hata olursa tamamı geri alınır.
func UpdatePurchaseOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.PurchaseOrder
		if err := db.Preload("Lines").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		before := order

		var body UpdatePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.OrderNo != nil {
			orderNo := strings.TrimSpace(*body.OrderNo)
			if orderNo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "order_no boş olamaz")
			}
			var existing models.PurchaseOrder
			if err := db.Where("order_no = ? AND id <> ?", orderNo, order.ID).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu sipariş numarası zaten kullanılıyor")
			}
			order.OrderNo = orderNo
		}
		if body.SupplierName != nil {
			order.SupplierName = strings.TrimSpace(*body.SupplierName)
		}
		if body.Lines != nil {
			if err := validateLines(db, body.Lines); err != nil {
				return err
			}
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Lines").Save(&order).Error; err != nil {
				return err
			}
			if body.Lines == nil {
				return nil
			}
			if err := tx.Where("purchase_order_id = ?", order.ID).
				Delete(&models.PurchaseOrderLine{}).Error; err != nil {
				return err
			}
			order.Lines = nil
			for _, l := range body.Lines {
				line := models.PurchaseOrderLine{
					PurchaseOrderID: order.ID,
					MaterialID:      l.MaterialID,
					Quantity:        l.Quantity,
					EtaYear:         l.EtaYear,
					EtaWeek:         l.EtaWeek,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
				order.Lines = append(order.Lines, line)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Satınalma siparişi güncellendi: %s", order.OrderNo),
			Before:      before,
			After:       order,
		})

		return c.JSON(toResponse(&order))
	}
}

// PUT /api/purchase-orders/:id/status
// INITIAL -> CONFIRM -> RECEIVED; CANCELLED'a RECEIVED hariç her durumdan geçilir.
func UpdatePurchaseStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.PurchaseOrder
		if err := db.Preload("Lines").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		before := order

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		next, err := models.ParsePurchaseStatus(body.Status)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		allowed := map[models.PurchaseOrderStatus][]models.PurchaseOrderStatus{
			models.PurchaseStatusInitial:   {models.PurchaseStatusConfirm, models.PurchaseStatusCancelled},
			models.PurchaseStatusConfirm:   {models.PurchaseStatusReceived, models.PurchaseStatusCancelled, models.PurchaseStatusInitial},
			models.PurchaseStatusReceived:  {},
			models.PurchaseStatusCancelled: {},
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
		if err := db.Omit("Lines").Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Durum güncellenemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sipariş durumu: %s %s -> %s", order.OrderNo, before.Status, next),
			Before:      before,
			After:       order,
		})

		return c.JSON(toResponse(&order))
	}
}

// DELETE /api/purchase-orders/:id
// Satırlar siparişle birlikte tek transaction içinde silinir.
func DeletePurchaseOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.PurchaseOrder
		if err := db.Preload("Lines").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("purchase_order_id = ?", order.ID).
				Delete(&models.PurchaseOrderLine{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.PurchaseOrder{}, "id = ?", order.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Satınalma siparişi silindi: %s", order.OrderNo),
			Before:      order,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
