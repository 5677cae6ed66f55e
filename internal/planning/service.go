package planning

import (
	"errors"

	"mps-backend/internal/models"
)

// ErrInvalidRange: from > to olan aralık istekleri için
var ErrInvalidRange = errors.New("geçersiz hafta aralığı: başlangıç bitişten sonra olamaz")

// ItemRef: Projeksiyon çıktısındaki kalem kimliği
type ItemRef struct {
	ID   uint
	Code string
	Name string
}

// Store arayüzleri: Projeksiyon motoru veritabanına doğrudan dokunmaz, bu arayüzler
// üzerinden beslenir. Böylece motor saf kalır ve testlerde bellek içi store kullanılır.

type OpeningStore interface {
	// Get: Kayıt yoksa (nil, nil) döner; çapasız kalem hata değildir
	Get(itemType models.ItemType, itemID uint) (*Opening, error)
}

type MovementStore interface {
	// ListShipments: Sevk planı satırları (ürün çıkışı)
	ListShipments(productID *uint, from, to WeekKey) ([]Movement, error)
	// ListProduction: Sadece ACTIVE/COMPLETE üretim emirleri (ürün girişi)
	ListProduction(productID *uint, from, to WeekKey) ([]Movement, error)
	// ListPurchases: Sadece CONFIRM siparişlerin satırları, ETA haftasıyla (hammadde girişi)
	ListPurchases(materialID *uint, from, to WeekKey) ([]Movement, error)
}

type CatalogStore interface {
	ListProducts(productID *uint) ([]ItemRef, error)
	ListMaterials(materialID *uint) ([]ItemRef, error)
	// BomRatesForMaterials: Verilen hammaddelere dokunan reçete satırları, ürün bazında
	BomRatesForMaterials(materialIDs []uint) (map[uint][]BomRate, error)
}

// Service: Haftalık bakiye projeksiyon servisi
type Service struct {
	openings  OpeningStore
	movements MovementStore
	catalog   CatalogStore
}

func NewService(openings OpeningStore, movements MovementStore, catalog CatalogStore) *Service {
	return &Service{openings: openings, movements: movements, catalog: catalog}
}

// ItemBalances: Bir kalemin istenen aralıktaki haftalık bakiye serisi
type ItemBalances struct {
	Item     ItemRef
	Balances []WeekBalance
}

// fetchStart: Hareketlerin çekileceği başlangıç haftası. Çapa istenen aralıktan önceyse
// yürüyüş çapadan başlamak zorunda olduğundan çekim aralığı da çapaya kadar geri gider.
func fetchStart(from WeekKey, openings map[uint]*Opening) WeekKey {
	start := from
	for _, op := range openings {
		if op != nil && op.Week.Before(start) {
			start = op.Week
		}
	}
	return start
}

// ProductBalances: Ürünler için haftalık bakiye projeksiyonu.
// productID nil ise tüm ürünler hesaplanır.
// Ürün için: çıkış = sevk planı, giriş = ACTIVE/COMPLETE üretim emirleri.
func (s *Service) ProductBalances(productID *uint, from, to WeekKey) ([]ItemBalances, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	products, err := s.catalog.ListProducts(productID)
	if err != nil {
		return nil, err
	}

	openings := make(map[uint]*Opening, len(products))
	for _, p := range products {
		op, err := s.openings.Get(models.ItemTypeProduct, p.ID)
		if err != nil {
			return nil, err
		}
		openings[p.ID] = op
	}

	start := fetchStart(from, openings)

	shipRows, err := s.movements.ListShipments(productID, start, to)
	if err != nil {
		return nil, err
	}
	prodRows, err := s.movements.ListProduction(productID, start, to)
	if err != nil {
		return nil, err
	}

	shipments := Aggregate(shipRows, start, to)
	production := Aggregate(prodRows, start, to)

	out := make([]ItemBalances, 0, len(products))
	for _, p := range products {
		out = append(out, ItemBalances{
			Item:     p,
			Balances: Project(openings[p.ID], from, to, shipments[p.ID], production[p.ID]),
		})
	}
	return out, nil
}

// MaterialBalances: Hammaddeler için haftalık bakiye projeksiyonu.
// materialID nil ise tüm hammaddeler hesaplanır.
// Hammadde için: çıkış = reçeteden türetilen tüketim, giriş = CONFIRM satınalma varışları.
func (s *Service) MaterialBalances(materialID *uint, from, to WeekKey) ([]ItemBalances, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	materials, err := s.catalog.ListMaterials(materialID)
	if err != nil {
		return nil, err
	}

	openings := make(map[uint]*Opening, len(materials))
	materialIDs := make([]uint, 0, len(materials))
	for _, m := range materials {
		op, err := s.openings.Get(models.ItemTypeMaterial, m.ID)
		if err != nil {
			return nil, err
		}
		openings[m.ID] = op
		materialIDs = append(materialIDs, m.ID)
	}

	start := fetchStart(from, openings)

	rates, err := s.catalog.BomRatesForMaterials(materialIDs)
	if err != nil {
		return nil, err
	}

	// Tüketim, bu hammaddelere dokunan TÜM ürünlerin üretiminden türetilir
	prodRows, err := s.movements.ListProduction(nil, start, to)
	if err != nil {
		return nil, err
	}
	production := Aggregate(prodRows, start, to)
	consumption := DeriveConsumption(production, rates)

	purchaseRows, err := s.movements.ListPurchases(materialID, start, to)
	if err != nil {
		return nil, err
	}
	purchases := Aggregate(purchaseRows, start, to)

	out := make([]ItemBalances, 0, len(materials))
	for _, m := range materials {
		out = append(out, ItemBalances{
			Item:     m,
			Balances: Project(openings[m.ID], from, to, consumption[m.ID], purchases[m.ID]),
		})
	}
	return out, nil
}
