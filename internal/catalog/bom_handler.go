package catalog

import (
	"fmt"
	"strconv"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

type BomLineResponse struct {
	ID             uint            `json:"id"`
	ProductID      uint            `json:"product_id"`
	MaterialID     uint            `json:"material_id"`
	MaterialCode   string          `json:"material_code"`
	MaterialName   string          `json:"material_name"`
	ConsumePerUnit decimal.Decimal `json:"consume_per_unit"`
}

type BomLineRequest struct {
	MaterialID     uint            `json:"material_id"`
	ConsumePerUnit decimal.Decimal `json:"consume_per_unit"`
}

type ReplaceBomRequest struct {
	Lines []BomLineRequest `json:"lines"`
}

func parseProductParam(db *gorm.DB, c *fiber.Ctx) (*models.Product, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Ürün id geçersiz")
	}
	var p models.Product
	if err := db.First(&p, "id = ?", uint(id)).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	}
	return &p, nil
}

func validateBomLine(db *gorm.DB, line BomLineRequest) error {
	if line.MaterialID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "material_id zorunlu")
	}
	if line.ConsumePerUnit.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "consume_per_unit negatif olamaz")
	}
	var m models.Material
	if err := db.First(&m, "id = ?", line.MaterialID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Hammadde bulunamadı (ID: %d)", line.MaterialID))
	}
	return nil
}

// GET /api/products/:id/bom
func ListBomLinesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := parseProductParam(db, c)
		if err != nil {
			return err
		}

		var lines []models.BomLine
		if err := db.Preload("Material").
			Where("product_id = ?", p.ID).
			Order("id asc").
			Find(&lines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete listelenemedi")
		}

		res := make([]BomLineResponse, 0, len(lines))
		for _, l := range lines {
			res = append(res, BomLineResponse{
				ID:             l.ID,
				ProductID:      l.ProductID,
				MaterialID:     l.MaterialID,
				MaterialCode:   l.Material.Code,
				MaterialName:   l.Material.Name,
				ConsumePerUnit: l.ConsumePerUnit,
			})
		}
		return c.JSON(res)
	}
}

// PUT /api/products/:id/bom (sadece admin)
// Reçetenin tamamını değiştirir: mevcut satırlar silinir, yenileri yazılır,
// hepsi tek transaction içinde. Aynı hammadde iki kez gönderilemez.
func ReplaceBomHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := parseProductParam(db, c)
		if err != nil {
			return err
		}

		var body ReplaceBomRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		seen := make(map[uint]bool, len(body.Lines))
		for _, line := range body.Lines {
			if err := validateBomLine(db, line); err != nil {
				return err
			}
			if seen[line.MaterialID] {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Aynı hammadde birden fazla kez gönderilmiş (ID: %d)", line.MaterialID))
			}
			seen[line.MaterialID] = true
		}

		tx := db.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem başlatılamadı")
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&models.BomLine{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Mevcut reçete silinemedi")
		}
		for _, line := range body.Lines {
			bl := models.BomLine{
				ProductID:      p.ID,
				MaterialID:     line.MaterialID,
				ConsumePerUnit: line.ConsumePerUnit,
			}
			if err := tx.Create(&bl).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırı yazılamadı")
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bom",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Reçete güncellendi: %s (%d satır)", p.Code, len(body.Lines)),
			After:       body.Lines,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/products/:id/bom (sadece admin) - tek satır ekler
func CreateBomLineHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := parseProductParam(db, c)
		if err != nil {
			return err
		}

		var body BomLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if err := validateBomLine(db, body); err != nil {
			return err
		}

		// (ürün, hammadde) çifti tekil
		var existing models.BomLine
		if err := db.Where("product_id = ? AND material_id = ?", p.ID, body.MaterialID).
			First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu hammadde reçetede zaten var")
		}

		bl := models.BomLine{
			ProductID:      p.ID,
			MaterialID:     body.MaterialID,
			ConsumePerUnit: body.ConsumePerUnit,
		}
		if err := db.Create(&bl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırı oluşturulamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bom",
			EntityID:    bl.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Reçete satırı eklendi: ürün %s, hammadde %d", p.Code, body.MaterialID),
			After:       bl,
		})

		return c.Status(fiber.StatusCreated).JSON(BomLineResponse{
			ID:             bl.ID,
			ProductID:      bl.ProductID,
			MaterialID:     bl.MaterialID,
			ConsumePerUnit: bl.ConsumePerUnit,
		})
	}
}

// DELETE /api/bom-lines/:id (sadece admin)
func DeleteBomLineHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bl models.BomLine
		if err := db.First(&bl, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Reçete satırı bulunamadı")
		}

		if err := db.Delete(&bl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırı silinemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "bom",
			EntityID:    bl.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Reçete satırı silindi: ürün %d, hammadde %d", bl.ProductID, bl.MaterialID),
			Before:      bl,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
