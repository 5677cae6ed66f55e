package planning

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RangeFromQuery: from_year/from_week/to_year/to_week parametrelerini okur ve doğrular.
// Dört alan da zorunludur; ters aralık (from > to) burada 400 olarak reddedilir.
func RangeFromQuery(c *fiber.Ctx) (WeekKey, WeekKey, error) {
	var zero WeekKey

	readInt := func(name string) (int, error) {
		s := c.Query(name)
		if s == "" {
			return 0, fiber.NewError(fiber.StatusBadRequest, name+" zorunlu")
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fiber.NewError(fiber.StatusBadRequest, name+" geçersiz")
		}
		return v, nil
	}

	fromYear, err := readInt("from_year")
	if err != nil {
		return zero, zero, err
	}
	fromWeek, err := readInt("from_week")
	if err != nil {
		return zero, zero, err
	}
	toYear, err := readInt("to_year")
	if err != nil {
		return zero, zero, err
	}
	toWeek, err := readInt("to_week")
	if err != nil {
		return zero, zero, err
	}

	if !ValidWeek(fromWeek) || !ValidWeek(toWeek) {
		return zero, zero, fiber.NewError(fiber.StatusBadRequest, "Hafta 1 ile 53 arasında olmalı")
	}

	from := WeekKey{Year: fromYear, Week: fromWeek}
	to := WeekKey{Year: toYear, Week: toWeek}
	if from.After(to) {
		return zero, zero, fiber.NewError(fiber.StatusBadRequest, "Aralık başlangıcı bitişten sonra olamaz")
	}
	return from, to, nil
}

// UintQueryOptional: Opsiyonel id filtresi okur; parametre yoksa nil döner
func UintQueryOptional(c *fiber.Ctx, name string) (*uint, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" geçersiz")
	}
	id := uint(v)
	return &id, nil
}

type WeekBalanceResponse struct {
	Year    int             `json:"year"`
	Week    int             `json:"week"`
	Balance decimal.Decimal `json:"balance"`
}

type ItemBalancesResponse struct {
	ItemID   uint                  `json:"item_id"`
	Code     string                `json:"code"`
	Name     string                `json:"name"`
	Balances []WeekBalanceResponse `json:"balances"`
}

func toBalancesResponse(items []ItemBalances) []ItemBalancesResponse {
	res := make([]ItemBalancesResponse, 0, len(items))
	for _, it := range items {
		balances := make([]WeekBalanceResponse, 0, len(it.Balances))
		for _, b := range it.Balances {
			balances = append(balances, WeekBalanceResponse{
				Year:    b.Week.Year,
				Week:    b.Week.Week,
				Balance: b.Balance,
			})
		}
		res = append(res, ItemBalancesResponse{
			ItemID:   it.Item.ID,
			Code:     it.Item.Code,
			Name:     it.Item.Name,
			Balances: balances,
		})
	}
	return res
}

// GET /api/balances/products?product_id=&from_year=&from_week=&to_year=&to_week=
func ProductBalancesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := RangeFromQuery(c)
		if err != nil {
			return err
		}
		productID, err := UintQueryOptional(c, "product_id")
		if err != nil {
			return err
		}

		items, err := svc.ProductBalances(productID, from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün bakiyeleri hesaplanamadı")
		}
		return c.JSON(toBalancesResponse(items))
	}
}

// GET /api/balances/materials?material_id=&from_year=&from_week=&to_year=&to_week=
func MaterialBalancesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := RangeFromQuery(c)
		if err != nil {
			return err
		}
		materialID, err := UintQueryOptional(c, "material_id")
		if err != nil {
			return err
		}

		items, err := svc.MaterialBalances(materialID, from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde bakiyeleri hesaplanamadı")
		}
		return c.JSON(toBalancesResponse(items))
	}
}
