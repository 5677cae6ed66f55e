package salesplan

import (
	"fmt"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"
	"mps-backend/internal/planning"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesPlanResponse struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Year      int             `json:"year"`
	Week      int             `json:"week"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type PlanRow struct {
	Year     int             `json:"year"`
	Week     int             `json:"week"`
	Quantity decimal.Decimal `json:"quantity"`
}

type BatchUpsertRequest struct {
	ProductID uint      `json:"product_id"`
	Plans     []PlanRow `json:"plans"`
}

// GET /api/sales-plans?product_id=&from_year=&from_week=&to_year=&to_week=
func ListSalesPlansHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := planning.RangeFromQuery(c)
		if err != nil {
			return err
		}

		dbq := db.Model(&models.SalesPlan{}).
			Where("year * 100 + week BETWEEN ? AND ?", from.Year*100+from.Week, to.Year*100+to.Week)

		productID, err := planning.UintQueryOptional(c, "product_id")
		if err != nil {
			return err
		}
		if productID != nil {
			dbq = dbq.Where("product_id = ?", *productID)
		}

		var plans []models.SalesPlan
		if err := dbq.Order("product_id asc, year asc, week asc").Find(&plans).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sevk planları listelenemedi")
		}

		res := make([]SalesPlanResponse, 0, len(plans))
		for _, p := range plans {
			res = append(res, SalesPlanResponse{
				ID:        p.ID,
				ProductID: p.ProductID,
				Year:      p.Year,
				Week:      p.Week,
				Quantity:  p.Quantity,
			})
		}
		return c.JSON(res)
	}
}

// upsertPlans: Satırları tek transaction içinde (product_id, year, week) tekil anahtarı
// üzerinden upsert eder. Herhangi bir satır yazılamazsa tamamı geri alınır; iki kayan
// bakiye tablosunun birbirinden kopmaması için yarım kayıt bırakılmaz.
func upsertPlans(db *gorm.DB, productID uint, plans []PlanRow) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, row := range plans {
			plan := models.SalesPlan{
				ProductID: productID,
				Year:      row.Year,
				Week:      row.Week,
				Quantity:  row.Quantity,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_id"}, {Name: "year"}, {Name: "week"}},
				DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
			}).Create(&plan).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// POST /api/sales-plans/batch
// Bir ürünün birden çok haftasını tek seferde kaydeder; ya hep ya hiç.
func BatchUpsertHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchUpsertRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if len(body.Plans) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "plans boş olamaz")
		}

		var product models.Product
		if err := db.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		seen := make(map[[2]int]bool, len(body.Plans))
		for _, row := range body.Plans {
			if !planning.ValidWeek(row.Week) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Hafta 1 ile 53 arasında olmalı (%d/%d)", row.Year, row.Week))
			}
			if row.Year < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "Yıl geçersiz")
			}
			key := [2]int{row.Year, row.Week}
			if seen[key] {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Aynı hafta birden fazla kez gönderilmiş (%d/%d)", row.Year, row.Week))
			}
			seen[key] = true
		}

		if err := upsertPlans(db, body.ProductID, body.Plans); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sevk planı kaydedilemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_plan",
			EntityID:    body.ProductID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sevk planı kaydedildi: %s (%d hafta)", product.Code, len(body.Plans)),
			After:       body.Plans,
		})

		return c.JSON(fiber.Map{"saved": len(body.Plans)})
	}
}

// DELETE /api/sales-plans/:id
func DeleteSalesPlanHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var plan models.SalesPlan
		if err := db.First(&plan, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sevk planı bulunamadı")
		}

		if err := db.Delete(&plan).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sevk planı silinemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_plan",
			EntityID:    plan.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Sevk planı silindi: ürün %d, %d/hafta %d", plan.ProductID, plan.Year, plan.Week),
			Before:      plan,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
