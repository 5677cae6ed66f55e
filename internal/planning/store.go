package planning

import (
	"errors"

	"mps-backend/internal/models"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store: Arayüzlerin gorm/Postgres gerçeklemesi. Bağlantı dışarıdan verilir,
// paket içinde global bir veritabanı tutulmaz.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// weekOrd: (yıl, hafta) bileşik anahtarını tek sıralanabilir sayıya indirger.
// Hafta <= 53 < 100 olduğundan çakışma olmaz.
func weekOrd(w WeekKey) int {
	return w.Year*100 + w.Week
}

type movementRow struct {
	ItemID uint
	Year   int
	Week   int
	Qty    decimal.Decimal
}

func toMovements(rows []movementRow) []Movement {
	out := make([]Movement, 0, len(rows))
	for _, r := range rows {
		out = append(out, Movement{
			ItemID: r.ItemID,
			Week:   WeekKey{Year: r.Year, Week: r.Week},
			Qty:    r.Qty,
		})
	}
	return out
}

// Get: Dönem başı bakiyesini okur; kayıt yoksa (nil, nil)
func (s *Store) Get(itemType models.ItemType, itemID uint) (*Opening, error) {
	var ob models.OpeningBalance
	err := s.db.Where("item_type = ? AND item_id = ?", itemType, itemID).First(&ob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Opening{
		Week: WeekKey{Year: ob.StartYear, Week: ob.StartWeek},
		Qty:  ob.Quantity,
	}, nil
}

// UpsertOpening: Dönem başı bakiyesini tek atomik merge ile yazar.
// (item_type, item_id) tekil indexi üzerinde ON CONFLICT DO UPDATE kullanılır;
// önce-oku-sonra-yaz yarışlarında bile asla ikinci satır oluşmaz.
func (s *Store) UpsertOpening(ob *models.OpeningBalance) error {
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_type"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_year", "start_week", "quantity", "updated_at",
		}),
	}).Create(ob).Error
}

// ListShipments: Sevk planı satırlarını hareket olarak döner
func (s *Store) ListShipments(productID *uint, from, to WeekKey) ([]Movement, error) {
	q := s.db.Model(&models.SalesPlan{}).
		Select("product_id AS item_id, year, week, quantity AS qty").
		Where("year * 100 + week BETWEEN ? AND ?", weekOrd(from), weekOrd(to))
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	var rows []movementRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toMovements(rows), nil
}

// ListProduction: Sadece projeksiyona giren (ACTIVE/COMPLETE) üretim emirleri.
// Durumlar kayıt sınırında kanonik forma çekilir; UPPER karşılaştırması eski/elle
// yazılmış satırları da kapsar.
func (s *Store) ListProduction(productID *uint, from, to WeekKey) ([]Movement, error) {
	q := s.db.Model(&models.ProductionOrder{}).
		Select("product_id AS item_id, year, week, quantity AS qty").
		Where("UPPER(status) IN ?", models.ProjectableProductionStatuses).
		Where("year * 100 + week BETWEEN ? AND ?", weekOrd(from), weekOrd(to))
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	var rows []movementRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toMovements(rows), nil
}

// ListPurchases: Sadece CONFIRM durumundaki siparişlerin satırları, ETA haftasıyla
func (s *Store) ListPurchases(materialID *uint, from, to WeekKey) ([]Movement, error) {
	q := s.db.Model(&models.PurchaseOrderLine{}).
		Select("purchase_order_lines.material_id AS item_id, purchase_order_lines.eta_year AS year, purchase_order_lines.eta_week AS week, purchase_order_lines.quantity AS qty").
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_lines.purchase_order_id").
		Where("UPPER(purchase_orders.status) = ?", string(models.PurchaseStatusConfirm)).
		Where("purchase_order_lines.eta_year * 100 + purchase_order_lines.eta_week BETWEEN ? AND ?", weekOrd(from), weekOrd(to))
	if materialID != nil {
		q = q.Where("purchase_order_lines.material_id = ?", *materialID)
	}
	var rows []movementRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toMovements(rows), nil
}

func (s *Store) ListProducts(productID *uint) ([]ItemRef, error) {
	q := s.db.Model(&models.Product{}).Select("id, code, name").Order("code asc")
	if productID != nil {
		q = q.Where("id = ?", *productID)
	}
	var refs []ItemRef
	if err := q.Scan(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *Store) ListMaterials(materialID *uint) ([]ItemRef, error) {
	q := s.db.Model(&models.Material{}).Select("id, code, name").Order("code asc")
	if materialID != nil {
		q = q.Where("id = ?", *materialID)
	}
	var refs []ItemRef
	if err := q.Scan(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// BomRatesForMaterials: Verilen hammaddelere dokunan reçete satırlarını ürün bazında döner
func (s *Store) BomRatesForMaterials(materialIDs []uint) (map[uint][]BomRate, error) {
	rates := make(map[uint][]BomRate)
	if len(materialIDs) == 0 {
		return rates, nil
	}
	var lines []models.BomLine
	if err := s.db.Where("material_id IN ?", materialIDs).Find(&lines).Error; err != nil {
		return nil, err
	}
	for _, l := range lines {
		rates[l.ProductID] = append(rates[l.ProductID], BomRate{
			MaterialID:     l.MaterialID,
			ConsumePerUnit: l.ConsumePerUnit,
		})
	}
	return rates, nil
}
