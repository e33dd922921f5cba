package datetime

import (
	"regexp"
	"time"

	"github.com/kljensen/snowball"
)

const (
	maxInputBytes = 1 << 20 // 1 MiB
	maxResults    = 1000
	maxMergeGap   = 6 // bytes between a date and a time that still merge, e.g. ", в "

	minYear  = 1
	maxYear  = 9999
	minMonth = 1
	maxMonth = 12
	minDay   = 1
	maxDay   = 31
	maxHour  = 23

	daysPerWeek = 7

	maxDayWords  = 3 // "двадцать первое", "тридцать первого"
	maxYearWords = 7 // "тысяча девятьсот девяносто девятого"
	maxQtyWords  = 4

	minWordYear = 1000 // spelled years below this need a "год" marker
)

var (
	reISO  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reDot  = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	reTime = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)(?::([0-5]\d))?\b`)
)

// monthForms maps folded inflected month names to months.
var monthForms = map[string]time.Month{}

// monthStems maps Russian Snowball stems of month names to months.
var monthStems = map[string]time.Month{}

var monthDeclensions = [...][]string{
	time.January:   {"январь", "января", "январе", "январю", "январем"},
	time.February:  {"февраль", "февраля", "феврале", "февралю", "февралем"},
	time.March:     {"март", "марта", "марте", "марту", "мартом"},
	time.April:     {"апрель", "апреля", "апреле", "апрелю", "апрелем"},
	time.May:       {"май", "мая", "мае", "маю", "маем"},
	time.June:      {"июнь", "июня", "июне", "июню", "июнем"},
	time.July:      {"июль", "июля", "июле", "июлю", "июлем"},
	time.August:    {"август", "августа", "августе", "августу", "августом"},
	time.September: {"сентябрь", "сентября", "сентябре", "сентябрю", "сентябрем"},
	time.October:   {"октябрь", "октября", "октябре", "октябрю", "октябрем"},
	time.November:  {"ноябрь", "ноября", "ноябре", "ноябрю", "ноябрем"},
	time.December:  {"декабрь", "декабря", "декабре", "декабрю", "декабрем"},
}

func init() {
	for m, forms := range monthDeclensions {
		for _, f := range forms {
			monthForms[f] = time.Month(m)
			if st, err := snowball.Stem(f, "russian", true); err == nil && st != "" {
				monthStems[st] = time.Month(m)
			}
		}
	}
}

// monthByStem looks up an inflected month name by its Snowball stem.
func monthByStem(key string) (time.Month, bool) {
	st, err := snowball.Stem(key, "russian", true)
	if err != nil || st == "" {
		return 0, false
	}
	m, ok := monthStems[st]
	return m, ok
}

// dayOffsets maps single relative words to day offsets from ref.
var dayOffsets = map[string]int{
	"позавчера":   -2,
	"вчера":       -1,
	"сегодня":     0,
	"завтра":      1,
	"послезавтра": 2,
}

// daySuffixes are the ordinal endings written after a digit day: "5-го", "21-е".
var daySuffixes = map[string]bool{
	"е": true, "го": true, "ое": true, "ого": true, "м": true, "му": true,
}

// yearMarkers follow a year: "2024 года", "в 1984 году", "2020 г.".
var yearMarkers = map[string]bool{
	"год": true, "года": true, "году": true, "годом": true, "г": true,
}

type qtyUnit int

const (
	qtyDay qtyUnit = iota
	qtyWeek
	qtyMonth
	qtyYear
)

var quantityUnits = map[string]qtyUnit{
	"день": qtyDay, "дня": qtyDay, "дней": qtyDay, "сутки": qtyDay, "суток": qtyDay,
	"неделю": qtyWeek, "недели": qtyWeek, "недель": qtyWeek, "неделя": qtyWeek,
	"месяц": qtyMonth, "месяца": qtyMonth, "месяцев": qtyMonth,
	"год": qtyYear, "года": qtyYear, "лет": qtyYear,
}

const (
	wordAfter  = "через"
	wordBefore = "назад"
)
