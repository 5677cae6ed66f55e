package planning

// MaxWeek: Bir yıl içindeki en büyük hafta numarası. Gerçek ISO takviminde bazı
// yıllarda 53. hafta yoktur; burada hafta yıl içinde sıralı bir etiket olarak ele
// alınır ve takvim doğrulaması yapılmaz.
const MaxWeek = 53

// WeekKey: Projeksiyonların zaman ekseni - (yıl, hafta) çifti.
// Sıralama bileşik anahtar gibidir: önce yıl, sonra hafta.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// ValidWeek: Hafta numarası [1, MaxWeek] aralığında mı
func ValidWeek(week int) bool {
	return week >= 1 && week <= MaxWeek
}

// Compare: a < b için -1, a == b için 0, a > b için 1
func (w WeekKey) Compare(o WeekKey) int {
	if w.Year != o.Year {
		if w.Year < o.Year {
			return -1
		}
		return 1
	}
	if w.Week != o.Week {
		if w.Week < o.Week {
			return -1
		}
		return 1
	}
	return 0
}

func (w WeekKey) Before(o WeekKey) bool { return w.Compare(o) < 0 }

func (w WeekKey) After(o WeekKey) bool { return w.Compare(o) > 0 }

// InRange: from ve to dahil aralık kontrolü
func (w WeekKey) InRange(from, to WeekKey) bool {
	return !w.Before(from) && !w.After(to)
}

// Next: Bir sonraki hafta; MaxWeek'ten sonra yeni yılın 1. haftasına geçer
func (w WeekKey) Next() WeekKey {
	if w.Week >= MaxWeek {
		return WeekKey{Year: w.Year + 1, Week: 1}
	}
	return WeekKey{Year: w.Year, Week: w.Week + 1}
}

// Weeks: [from, to] aralığındaki haftaları sıralı üretir.
// from > to ise boş dilim döner, hata değil; 400 dönmek isteyen çağıran
// aralığı önceden doğrulamalıdır.
func Weeks(from, to WeekKey) []WeekKey {
	if from.After(to) {
		return nil
	}
	var out []WeekKey
	for w := from; !w.After(to); w = w.Next() {
		out = append(out, w)
	}
	return out
}
