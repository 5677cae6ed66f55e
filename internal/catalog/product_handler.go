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

type ProductResponse struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

type CreateProductRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"` // Opsiyonel
}

type UpdateProductRequest struct {
	Code      *string `json:"code"`
	Name      *string `json:"name"`
	ImagePath *string `json:"image_path"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		ImagePath: p.ImagePath,
	}
}

// GET /api/products?q=P58 - kod veya ada göre arama
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.Product{})

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("code ILIKE ? OR name ILIKE ?", like, like)
		}

		var products []models.Product
		if err := dbq.Order("code asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := db.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		return c.JSON(toProductResponse(&p))
	}
}

// POST /api/products (sadece admin)
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)

		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Code ve name zorunlu")
		}

		// Kod unique kontrolü
		var existing models.Product
		if err := db.Where("code = ?", body.Code).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kodu zaten kullanılıyor")
		}

		p := models.Product{
			Code:      body.Code,
			Name:      body.Name,
			ImagePath: strings.TrimSpace(body.ImagePath),
		}

		if err := db.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ürün oluşturuldu: %s (%s)", p.Name, p.Code),
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&p))
	}
}

// PUT /api/products/:id (sadece admin)
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := db.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Code != nil {
			code := strings.TrimSpace(*body.Code)
			if code == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Code boş olamaz")
			}
			var existing models.Product
			if err := db.Where("code = ? AND id <> ?", code, p.ID).First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kodu zaten kullanılıyor")
			}
			p.Code = code
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			p.Name = name
		}
		if body.ImagePath != nil {
			p.ImagePath = strings.TrimSpace(*body.ImagePath)
		}

		if err := db.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ürün güncellendi: %s (%s)", p.Name, p.Code),
			Before:      before,
			After:       p,
		})

		return c.JSON(toProductResponse(&p))
	}
}

// DELETE /api/products/:id (sadece admin)
// Ürünle birlikte reçetesi, dönem başı bakiyesi, sevk planları ve üretim emirleri de
// silinir; hepsi tek transaction içinde, ya hep ya hiç.
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := db.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		tx := db.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem başlatılamadı")
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&models.BomLine{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Reçete satırları silinemedi")
		}
		if err := tx.Where("item_type = ? AND item_id = ?", models.ItemTypeProduct, p.ID).
			Delete(&models.OpeningBalance{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Dönem başı bakiyesi silinemedi")
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.SalesPlan{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Sevk planları silinemedi")
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductionOrder{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim emirleri silinemedi")
		}
		if err := tx.Delete(&p).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ürün ve bağlı kayıtları silindi: %s (%s)", p.Name, p.Code),
			Before:      p,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
