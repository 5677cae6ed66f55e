package catalog

import (
	"fmt"
	"strings"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"

	"github.com/gofiber/fiber/v2"

	"gorm.io/gorm"
)

type MaterialResponse struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

type CreateMaterialRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

type UpdateMaterialRequest struct {
	Code      *string `json:"code"`
	Name      *string `json:"name"`
	ImagePath *string `json:"image_path"`
}

func toMaterialResponse(m *models.Material) MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		ImagePath: m.ImagePath,
	}
}

// GET /api/materials?q=NVL
func ListMaterialsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Material{})

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("code ILIKE ? OR name ILIKE ?", like, like)
		}

		var materials []models.Material
		if err := dbq.Order("code asc").Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammaddeler listelenemedi")
		}

		res := make([]MaterialResponse, 0, len(materials))
		for i := range materials {
			res = append(res, toMaterialResponse(&materials[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/materials/:id
func GetMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
		}
		return c.JSON(toMaterialResponse(&m))
	}
}

// POST /api/materials (sadece admin)
func CreateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)

		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Code ve name zorunlu")
		}

		var existing models.Material
		if err := db.Where("code = ?", body.Code).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu hammadde kodu zaten kullanılıyor")
		}

		m := models.Material{
			Code:      body.Code,
			Name:      body.Name,
			ImagePath: strings.TrimSpace(body.ImagePath),
		}

		if err := db.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde oluşturulamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "material",
			EntityID:    m.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Hammadde oluşturuldu: %s (%s)", m.Name, m.Code),
			After:       m,
		})

		return c.Status(fiber.StatusCreated).JSON(toMaterialResponse(&m))
	}
}

// PUT /api/materials/:id (sadece admin)
func UpdateMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
		}
		before := m

		var body UpdateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Code != nil {
			code := strings.TrimSpace(*body.Code)
			if code == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Code boş olamaz")
			}
			var existing models.Material
			if err := db.Where("code = ? AND id <> ?", code, m.ID).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu hammadde kodu zaten kullanılıyor")
			}
			m.Code = code
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			m.Name = name
		}
		if body.ImagePath != nil {
			m.ImagePath = strings.TrimSpace(*body.ImagePath)
		}

		if err := db.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde güncellenemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "material",
			EntityID:    m.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Hammadde güncellendi: %s (%s)", m.Name, m.Code),
			Before:      before,
			After:       m,
		})

		return c.JSON(toMaterialResponse(&m))
	}
}

// DELETE /api/materials/:id (sadece admin)
// Hammaddeyle birlikte ona bağlı reçete satırları, dönem başı bakiyesi ve satınalma
// sipariş satırları da tek transaction içinde silinir.
func DeleteMaterialHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hammadde bulunamadı")
		}

		tx := db.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem başlatılamadı")
		}

		if err := tx.Where("material_id = ?", m.ID).Delete(&models.BomLine{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırları silinemedi")
		}
		if err := tx.Where("item_type = ? AND item_id = ?", models.ItemTypeMaterial, m.ID).
			Delete(&models.OpeningBalance{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Dönem başı bakiyesi silinemedi")
		}
		if err := tx.Where("material_id = ?", m.ID).Delete(&models.PurchaseOrderLine{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Satınalma satırları silinemedi")
		}
		if err := tx.Delete(&m).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde silinemedi")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "material",
			EntityID:    m.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Hammadde ve bağlı kayıtları silindi: %s (%s)", m.Name, m.Code),
			Before:      m,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
