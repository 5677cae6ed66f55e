package planning

import (
	"slices"
	"testing"

	"mps-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Bellek içi store'lar: Servis testleri veritabanı olmadan, durum filtresi dahil
// store sözleşmesini birebir uygulayan bu sahtelerle çalışır.

type openingKey struct {
	Type models.ItemType
	ID   uint
}

type fakeOpenings struct {
	byItem map[openingKey]*Opening
}

func (f *fakeOpenings) Get(itemType models.ItemType, itemID uint) (*Opening, error) {
	return f.byItem[openingKey{Type: itemType, ID: itemID}], nil
}

type statusRow struct {
	Status string
	Movement
}

type fakeMovements struct {
	shipments  []Movement
	production []statusRow
	purchases  []statusRow
}

func matchItem(id uint, filter *uint) bool {
	return filter == nil || *filter == id
}

func (f *fakeMovements) ListShipments(productID *uint, from, to WeekKey) ([]Movement, error) {
	var out []Movement
	for _, m := range f.shipments {
		if matchItem(m.ItemID, productID) && m.Week.InRange(from, to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovements) ListProduction(productID *uint, from, to WeekKey) ([]Movement, error) {
	var out []Movement
	for _, r := range f.production {
		st, err := models.ParseProductionStatus(r.Status)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(models.ProjectableProductionStatuses, string(st)) {
			continue
		}
		if matchItem(r.ItemID, productID) && r.Week.InRange(from, to) {
			out = append(out, r.Movement)
		}
	}
	return out, nil
}

func (f *fakeMovements) ListPurchases(materialID *uint, from, to WeekKey) ([]Movement, error) {
	var out []Movement
	for _, r := range f.purchases {
		st, err := models.ParsePurchaseStatus(r.Status)
		if err != nil {
			return nil, err
		}
		if st != models.PurchaseStatusConfirm {
			continue
		}
		if matchItem(r.ItemID, materialID) && r.Week.InRange(from, to) {
			out = append(out, r.Movement)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	products  []ItemRef
	materials []ItemRef
	rates     map[uint][]BomRate
}

func (f *fakeCatalog) ListProducts(productID *uint) ([]ItemRef, error) {
	var out []ItemRef
	for _, p := range f.products {
		if matchItem(p.ID, productID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListMaterials(materialID *uint) ([]ItemRef, error) {
	var out []ItemRef
	for _, m := range f.materials {
		if matchItem(m.ID, materialID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) BomRatesForMaterials(materialIDs []uint) (map[uint][]BomRate, error) {
	out := make(map[uint][]BomRate)
	for productID, rates := range f.rates {
		for _, r := range rates {
			if slices.Contains(materialIDs, r.MaterialID) {
				out[productID] = append(out[productID], r)
			}
		}
	}
	return out, nil
}

func uintPtr(v uint) *uint { return &v }

func TestProductBalancesUsesOnlyActiveAndCompleteOrders(t *testing.T) {
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{
		{Type: models.ItemTypeProduct, ID: 1}: {Week: wk(2025, 47), Qty: dec("20")},
	}}
	movements := &fakeMovements{
		production: []statusRow{
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 48), Qty: dec("5")}},
			{Status: "complete", Movement: Movement{ItemID: 1, Week: wk(2025, 49), Qty: dec("5")}},
			{Status: "INITIAL", Movement: Movement{ItemID: 1, Week: wk(2025, 48), Qty: dec("99")}},
		},
	}
	catalog := &fakeCatalog{products: []ItemRef{{ID: 1, Code: "P589", Name: "Ürün 589"}}}

	svc := NewService(openings, movements, catalog)
	out, err := svc.ProductBalances(uintPtr(1), wk(2025, 47), wk(2025, 49))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "P589", out[0].Item.Code)
	assert.Equal(t, []string{"20", "25", "30"}, balancesAsStrings(out[0].Balances))
}

func TestProductBalancesSubtractsShipments(t *testing.T) {
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{
		{Type: models.ItemTypeProduct, ID: 1}: {Week: wk(2025, 47), Qty: dec("20")},
	}}
	movements := &fakeMovements{
		shipments: []Movement{
			{ItemID: 1, Week: wk(2025, 48), Qty: dec("8")},
		},
		production: []statusRow{
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 49), Qty: dec("3")}},
		},
	}
	catalog := &fakeCatalog{products: []ItemRef{{ID: 1, Code: "P589", Name: "Ürün 589"}}}

	svc := NewService(openings, movements, catalog)
	out, err := svc.ProductBalances(uintPtr(1), wk(2025, 47), wk(2025, 49))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"20", "12", "15"}, balancesAsStrings(out[0].Balances))
}

func TestProductBalancesRangeStartingAfterOpening(t *testing.T) {
	// İstenen aralık çapadan sonra başlıyor: hareketler çapaya kadar geri çekilip
	// yürüyüş çapadan yapılır, sadece istenen dilim döner
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{
		{Type: models.ItemTypeProduct, ID: 1}: {Week: wk(2025, 47), Qty: dec("20")},
	}}
	movements := &fakeMovements{
		production: []statusRow{
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 48), Qty: dec("5")}},
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 49), Qty: dec("5")}},
		},
	}
	catalog := &fakeCatalog{products: []ItemRef{{ID: 1, Code: "P589", Name: "Ürün 589"}}}

	svc := NewService(openings, movements, catalog)
	out, err := svc.ProductBalances(uintPtr(1), wk(2025, 48), wk(2025, 49))

	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Balances, 2)
	assert.Equal(t, wk(2025, 48), out[0].Balances[0].Week)
	assert.Equal(t, []string{"25", "30"}, balancesAsStrings(out[0].Balances))
}

func TestProductBalancesWithoutOpeningIsZero(t *testing.T) {
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{}}
	movements := &fakeMovements{
		production: []statusRow{
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 48), Qty: dec("5")}},
		},
	}
	catalog := &fakeCatalog{products: []ItemRef{{ID: 1, Code: "P589", Name: "Ürün 589"}}}

	svc := NewService(openings, movements, catalog)
	out, err := svc.ProductBalances(uintPtr(1), wk(2025, 47), wk(2025, 49))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"0", "0", "0"}, balancesAsStrings(out[0].Balances))
}

func TestMaterialBalancesDerivesConsumptionAndConfirmedArrivals(t *testing.T) {
	// Hammadde 7: çapa 50 @ 2025/10. Ürün 1, birim başına 2 birim tüketiyor ve
	// hafta 11'de 10 birim üretiyor (tüketim 20). Hafta 12'de CONFIRM sipariş
	// satırıyla 30 birim geliyor; INITIAL sipariş satırı sayılmaz.
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{
		{Type: models.ItemTypeMaterial, ID: 7}: {Week: wk(2025, 10), Qty: dec("50")},
	}}
	movements := &fakeMovements{
		production: []statusRow{
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 11), Qty: dec("10")}},
		},
		purchases: []statusRow{
			{Status: "CONFIRM", Movement: Movement{ItemID: 7, Week: wk(2025, 12), Qty: dec("30")}},
			{Status: "INITIAL", Movement: Movement{ItemID: 7, Week: wk(2025, 12), Qty: dec("500")}},
		},
	}
	catalog := &fakeCatalog{
		materials: []ItemRef{{ID: 7, Code: "NVL3", Name: "Hammadde 3"}},
		rates: map[uint][]BomRate{
			1: {{MaterialID: 7, ConsumePerUnit: dec("2")}},
		},
	}

	svc := NewService(openings, movements, catalog)
	out, err := svc.MaterialBalances(uintPtr(7), wk(2025, 10), wk(2025, 12))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "NVL3", out[0].Item.Code)
	assert.Equal(t, []string{"50", "30", "60"}, balancesAsStrings(out[0].Balances))
}

func TestMaterialBalancesWithoutBomNoConsumption(t *testing.T) {
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{
		{Type: models.ItemTypeMaterial, ID: 7}: {Week: wk(2025, 10), Qty: dec("50")},
	}}
	movements := &fakeMovements{
		production: []statusRow{
			{Status: "ACTIVE", Movement: Movement{ItemID: 1, Week: wk(2025, 11), Qty: dec("10")}},
		},
	}
	catalog := &fakeCatalog{
		materials: []ItemRef{{ID: 7, Code: "NVL3", Name: "Hammadde 3"}},
		rates:     map[uint][]BomRate{},
	}

	svc := NewService(openings, movements, catalog)
	out, err := svc.MaterialBalances(uintPtr(7), wk(2025, 10), wk(2025, 12))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"50", "50", "50"}, balancesAsStrings(out[0].Balances))
}

func TestBalancesReversedRangeRejected(t *testing.T) {
	svc := NewService(&fakeOpenings{}, &fakeMovements{}, &fakeCatalog{})

	_, err := svc.ProductBalances(nil, wk(2025, 50), wk(2025, 48))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.MaterialBalances(nil, wk(2025, 50), wk(2025, 48))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestProductBalancesAllProductsWhenNoFilter(t *testing.T) {
	openings := &fakeOpenings{byItem: map[openingKey]*Opening{
		{Type: models.ItemTypeProduct, ID: 1}: {Week: wk(2025, 47), Qty: dec("20")},
	}}
	movements := &fakeMovements{}
	catalog := &fakeCatalog{products: []ItemRef{
		{ID: 1, Code: "P589", Name: "Ürün 589"},
		{ID: 2, Code: "P590", Name: "Ürün 590"},
	}}

	svc := NewService(openings, movements, catalog)
	out, err := svc.ProductBalances(nil, wk(2025, 47), wk(2025, 48))

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"20", "20"}, balancesAsStrings(out[0].Balances))
	assert.Equal(t, []string{"0", "0"}, balancesAsStrings(out[1].Balances))
}
