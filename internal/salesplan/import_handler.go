package salesplan

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"mps-backend/internal/audit"
	"mps-backend/internal/auth"
	"mps-backend/internal/models"
	"mps-backend/internal/planning"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type importRow struct {
	ProductID uint
	Year      int
	Week      int
	Quantity  decimal.Decimal
}

// POST /api/sales-plans/import
// Excel formatı: ilk sayfa, başlık satırı + [ürün kodu | yıl | hafta | miktar] satırları.
// Dosyanın tamamı tek transaction içinde uygulanır; tek bir satır bile hatalıysa
// hiçbir şey kaydedilmez.
func ImportSalesPlansHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenmedi ('file' alanı zorunlu)")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz Excel dosyası")
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sayfa yok")
		}

		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel satırları okunamadı")
		}
		if len(rows) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında veri satırı yok")
		}

		// Ürün kodlarını tek sorguda çöz
		productByCode := make(map[string]uint)
		{
			var products []models.Product
			if err := db.Find(&products).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
			}
			for _, p := range products {
				productByCode[strings.ToUpper(p.Code)] = p.ID
			}
		}

		type planKey struct {
			ProductID uint
			Year      int
			Week      int
		}
		var parsed []importRow
		seen := make(map[planKey]bool)
		for i, row := range rows[1:] { // başlık satırını atla
			rowNo := i + 2
			if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
				continue // boş satır
			}
			if len(row) < 4 {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Satır %d: 4 kolon bekleniyor (ürün kodu, yıl, hafta, miktar)", rowNo))
			}

			code := strings.ToUpper(strings.TrimSpace(row[0]))
			productID, ok := productByCode[code]
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Satır %d: ürün kodu bulunamadı: %q", rowNo, row[0]))
			}

			year, err := strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil || year < 1 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Satır %d: yıl geçersiz", rowNo))
			}
			week, err := strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil || !planning.ValidWeek(week) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Satır %d: hafta 1 ile 53 arasında olmalı", rowNo))
			}
			qty, err := decimal.NewFromString(strings.TrimSpace(row[3]))
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Satır %d: miktar geçersiz", rowNo))
			}

			r := importRow{ProductID: productID, Year: year, Week: week, Quantity: qty}
			dupKey := planKey{ProductID: productID, Year: year, Week: week}
			if seen[dupKey] {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Satır %d: aynı ürün/hafta dosyada birden fazla kez var", rowNo))
			}
			seen[dupKey] = true
			parsed = append(parsed, r)
		}

		if len(parsed) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "İçe aktarılacak satır bulunamadı")
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			for _, r := range parsed {
				plan := models.SalesPlan{
					ProductID: r.ProductID,
					Year:      r.Year,
					Week:      r.Week,
					Quantity:  r.Quantity,
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
		if err != nil {
			log.Println("Sevk planı import hatası:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "İçe aktarma tamamlanamadı")
		}

		userID, userName := auth.UserFromCtx(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_plan",
			Action:      models.AuditActionImport,
			Description: fmt.Sprintf("Excel'den sevk planı aktarıldı: %s (%d satır)", fileHeader.Filename, len(parsed)),
		})

		return c.JSON(fiber.Map{"imported": len(parsed)})
	}
}
