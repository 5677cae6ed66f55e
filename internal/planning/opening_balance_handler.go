package planning

import (
	"fmt"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

type UpsertOpeningBalanceRequest struct {
	ItemType  string          `json:"item_type"` // 'P' | 'M'
	ItemID    uint            `json:"item_id"`
	StartYear int             `json:"start_year"`
	StartWeek int             `json:"start_week"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type OpeningBalanceResponse struct {
	ID        uint            `json:"id"`
	ItemType  models.ItemType `json:"item_type"`
	ItemID    uint            `json:"item_id"`
	StartYear int             `json:"start_year"`
	StartWeek int             `json:"start_week"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// PUT /api/opening-balances - Dönem başı bakiyesi upsert.
// Aynı (item_type, item_id) için tekrar çağrıldığında yeni satır AÇMAZ,
// mevcut çapayı ve miktarı değiştirir.
func UpsertOpeningBalanceHandler(db *gorm.DB, store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertOpeningBalanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		itemType, err := models.ParseItemType(body.ItemType)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item_id zorunlu")
		}
		if !ValidWeek(body.StartWeek) {
			return fiber.NewError(fiber.StatusBadRequest, "start_week 1 ile 53 arasında olmalı")
		}
		if body.StartYear < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "start_year geçersiz")
		}

		// Kalem var mı kontrolü
		switch itemType {
		case models.ItemTypeProduct:
			var p models.Product
			if err := db.First(&p, "id = ?", body.ItemID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
			}
		case models.ItemTypeMaterial:
			var m models.Material
			if err := db.First(&m, "id = ?", body.ItemID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
			}
		}

		// Audit için önceki hali oku (yoksa nil kalır)
		var before *models.OpeningBalance
		var existing models.OpeningBalance
		if err := db.Where("item_type = ? AND item_id = ?", itemType, body.ItemID).
			First(&existing).Error; err == nil {
			before = &existing
		}

		ob := models.OpeningBalance{
			ItemType:  itemType,
			ItemID:    body.ItemID,
			StartYear: body.StartYear,
			StartWeek: body.StartWeek,
			Quantity:  body.Quantity,
		}
		if err := store.UpsertOpening(&ob); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dönem başı bakiyesi kaydedilemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "opening_balance",
			EntityID:    ob.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Dönem başı bakiyesi: %s-%d -> %s (%d/hafta %d)", itemType, body.ItemID, body.Quantity.String(), body.StartYear, body.StartWeek),
			Before:      before,
			After:       ob,
		})

		return c.JSON(OpeningBalanceResponse{
			ID:        ob.ID,
			ItemType:  ob.ItemType,
			ItemID:    ob.ItemID,
			StartYear: ob.StartYear,
			StartWeek: ob.StartWeek,
			Quantity:  ob.Quantity,
		})
	}
}

// GET /api/opening-balances?item_type=P&item_id=5
func ListOpeningBalancesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.OpeningBalance{})

		if itemTypeStr := c.Query("item_type"); itemTypeStr != "" {
			itemType, err := models.ParseItemType(itemTypeStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			dbq = dbq.Where("item_type = ?", itemType)
		}
		itemID, err := UintQueryOptional(c, "item_id")
		if err != nil {
			return err
		}
		if itemID != nil {
			dbq = dbq.Where("item_id = ?", *itemID)
		}

		var balances []models.OpeningBalance
		if err := dbq.Order("item_type asc, item_id asc").Find(&balances).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dönem başı bakiyeleri listelenemedi")
		}

		res := make([]OpeningBalanceResponse, 0, len(balances))
		for _, ob := range balances {
			res = append(res, OpeningBalanceResponse{
				ID:        ob.ID,
				ItemType:  ob.ItemType,
				ItemID:    ob.ItemID,
				StartYear: ob.StartYear,
				StartWeek: ob.StartWeek,
				Quantity:  ob.Quantity,
			})
		}
		return c.JSON(res)
	}
}
