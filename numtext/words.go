// Word tables for Russian numeral recognition.
package numtext

import (
	"fmt"
	"math"

	"github.com/az-ai-labs/ru-numtext/internal/rucase"
)

const (
	// MaxValue is the largest value a numeral phrase may resolve to.
	MaxValue int64 = math.MaxInt64

	thousand int64 = 1_000
	million  int64 = 1_000_000
	billion  int64 = 1_000_000_000
)

// Category classifies a single word against the lexicon.
type Category int

const (
	NotNumeral     Category = iota // Not a recognized numeral word
	Unit                           // 0–9, including gendered один/одна/одно, два/две
	Teen                           // 10–19
	Ten                            // 20, 30, …, 90
	Hundred                        // 100, 200, …, 900
	Scale                          // тысяча, миллион, миллиард in any number or case
	OrdinalLiteral                 // ordinal surface form present in the table
	OrdinalDerived                 // ordinal recovered by suffix stripping
)

var categoryNames = [...]string{
	NotNumeral:     "NotNumeral",
	Unit:           "Unit",
	Teen:           "Teen",
	Ten:            "Ten",
	Hundred:        "Hundred",
	Scale:          "Scale",
	OrdinalLiteral: "OrdinalLiteral",
	OrdinalDerived: "OrdinalDerived",
}

// String returns the name of the category.
func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

var units = map[string]int64{
	"ноль": 0, "нуль": 0,
	"один": 1, "одна": 1, "одно": 1,
	"два": 2, "две": 2,
	"три":    3,
	"четыре": 4,
	"пять":   5,
	"шесть":  6,
	"семь":   7,
	"восемь": 8,
	"девять": 9,
}

var teens = map[string]int64{
	"десять":       10,
	"одиннадцать":  11,
	"двенадцать":   12,
	"тринадцать":   13,
	"четырнадцать": 14,
	"пятнадцать":   15,
	"шестнадцать":  16,
	"семнадцать":   17,
	"восемнадцать": 18,
	"девятнадцать": 19,
}

var tens = map[string]int64{
	"двадцать":    20,
	"тридцать":    30,
	"сорок":       40,
	"пятьдесят":   50,
	"шестьдесят":  60,
	"семьдесят":   70,
	"восемьдесят": 80,
	"девяносто":   90,
}

var hundreds = map[string]int64{
	"сто":       100,
	"двести":    200,
	"триста":    300,
	"четыреста": 400,
	"пятьсот":   500,
	"шестьсот":  600,
	"семьсот":   700,
	"восемьсот": 800,
	"девятьсот": 900,
}

// scaleForms lists every number and case form of the three scale nouns.
var scaleForms = []struct {
	value int64
	forms []string
}{
	{thousand, []string{
		"тысяча", "тысячи", "тысяч", "тысячу", "тысячей", "тысячею",
		"тысяче", "тысячам", "тысячами", "тысячах",
	}},
	{million, []string{
		"миллион", "миллиона", "миллионов", "миллиону", "миллионом",
		"миллионе", "миллионы", "миллионам", "миллионами", "миллионах",
	}},
	{billion, []string{
		"миллиард", "миллиарда", "миллиардов", "миллиарду", "миллиардом",
		"миллиарде", "миллиарды", "миллиардам", "миллиардами", "миллиардах",
	}},
}

// Adjectival declensions for ordinal words: every case form of the
// masculine, neuter, feminine and plural paradigms, masculine nominative last.
var (
	hardEndings = []string{
		"ого", "ому", "ым", "ом", "ое", "ая", "ой", "ую", "ые", "ых", "ым", "ыми", "ый",
	}
	stressedEndings = []string{
		"ого", "ому", "ым", "ом", "ое", "ая", "ой", "ую", "ые", "ых", "ым", "ыми", "ой",
	}
	softEndings = []string{
		"ьего", "ьему", "ьим", "ьем", "ье", "ья", "ьей", "ью", "ьи", "ьих", "ьим", "ьими", "ий",
	}

	// canonicalEndings are the forms listed literally for ordinals above 19th.
	// The remaining cases are reached through suffix stripping.
	canonicalHard     = []string{"ый", "ая", "ое", "ые", "ого", "ой", "ому", "ым"}
	canonicalStressed = []string{"ой", "ая", "ое", "ые", "ого", "ому", "ым"}
)

type ordinalStem struct {
	stem    string
	value   int64
	endings []string
}

// fullOrdinals are 1st–19th; every surface form is a literal key.
var fullOrdinals = []ordinalStem{
	{"перв", 1, hardEndings},
	{"втор", 2, stressedEndings},
	{"трет", 3, softEndings},
	{"четвёрт", 4, hardEndings},
	{"пят", 5, hardEndings},
	{"шест", 6, stressedEndings},
	{"седьм", 7, stressedEndings},
	{"восьм", 8, stressedEndings},
	{"девят", 9, hardEndings},
	{"десят", 10, hardEndings},
	{"одиннадцат", 11, hardEndings},
	{"двенадцат", 12, hardEndings},
	{"тринадцат", 13, hardEndings},
	{"четырнадцат", 14, hardEndings},
	{"пятнадцат", 15, hardEndings},
	{"шестнадцат", 16, hardEndings},
	{"семнадцат", 17, hardEndings},
	{"восемнадцат", 18, hardEndings},
	{"девятнадцат", 19, hardEndings},
}

// canonicalOrdinals are 20th and above; only the canonical forms are keys.
var canonicalOrdinals = []ordinalStem{
	{"двадцат", 20, canonicalHard},
	{"тридцат", 30, canonicalHard},
	{"сороков", 40, canonicalStressed},
	{"пятидесят", 50, canonicalHard},
	{"шестидесят", 60, canonicalHard},
	{"семидесят", 70, canonicalHard},
	{"восьмидесят", 80, canonicalHard},
	{"девяност", 90, canonicalHard},
	{"сот", 100, canonicalHard},
	{"двухсот", 200, canonicalHard},
	{"трёхсот", 300, canonicalHard},
	{"четырёхсот", 400, canonicalHard},
	{"пятисот", 500, canonicalHard},
	{"шестисот", 600, canonicalHard},
	{"семисот", 700, canonicalHard},
	{"восьмисот", 800, canonicalHard},
	{"девятисот", 900, canonicalHard},
	{"тысячн", thousand, canonicalHard},
	{"миллионн", million, canonicalHard},
	{"миллиардн", billion, canonicalHard},
}

// stemCardinals maps an ordinal stem (what remains after suffix stripping)
// to the cardinal word that carries its value.
var stemCardinals = map[string]string{
	"двадцат":     "двадцать",
	"тридцат":     "тридцать",
	"сороков":     "сорок",
	"пятидесят":   "пятьдесят",
	"шестидесят":  "шестьдесят",
	"семидесят":   "семьдесят",
	"восьмидесят": "восемьдесят",
	"девяност":    "девяносто",
	"сот":         "сто",
	"двухсот":     "двести",
	"трёхсот":     "триста",
	"четырёхсот":  "четыреста",
	"пятисот":     "пятьсот",
	"шестисот":    "шестьсот",
	"семисот":     "семьсот",
	"восьмисот":   "восемьсот",
	"девятисот":   "девятьсот",
	"тысяч":       "тысяча",
	"тысячн":      "тысяча",
	"миллион":     "миллион",
	"миллионн":    "миллион",
	"миллиард":    "миллиард",
	"миллиардн":   "миллиард",
}

// irregularStems are ordinal stems whose cardinal differs in shape.
var irregularStems = map[string]int64{
	"перв":    1,
	"втор":    2,
	"трет":    3,
	"четверт": 4,
}

// suffixRule strips suffix from a word and appends replacement, yielding
// a stem candidate.
type suffixRule struct {
	suffix      string
	replacement string
}

// suffixRules is evaluated in order and the first matching rule wins.
// Longer suffixes precede their own tails ("ыми" before "ым").
var suffixRules = []suffixRule{
	{"ыми", ""},
	{"ими", ""},
	{"ого", ""},
	{"его", ""},
	{"ому", ""},
	{"ему", ""},
	{"ый", ""},
	{"ий", ""},
	{"ой", ""},
	{"ей", ""},
	{"ая", ""},
	{"яя", ""},
	{"ое", ""},
	{"ее", ""},
	{"ую", ""},
	{"юю", ""},
	{"ые", ""},
	{"ие", ""},
	{"ых", ""},
	{"их", ""},
	{"ым", ""},
	{"им", ""},
	{"ом", ""},
	{"ем", ""},
}

// Folded lookup tables, built once at init.
var (
	cardinals map[string]entry
	ordinals  map[string]int64
	stems     map[string]int64
	irregular map[string]int64
)

type entry struct {
	category Category
	value    int64
}

func init() {
	cardinals = make(map[string]entry, 64)
	for _, tbl := range []struct {
		cat Category
		m   map[string]int64
	}{{Unit, units}, {Teen, teens}, {Ten, tens}, {Hundred, hundreds}} {
		for w, v := range tbl.m {
			addCardinal(w, tbl.cat, v)
		}
	}
	for _, sf := range scaleForms {
		for _, w := range sf.forms {
			addCardinal(w, Scale, sf.value)
		}
	}

	ordinals = make(map[string]int64, 512)
	for _, group := range [][]ordinalStem{fullOrdinals, canonicalOrdinals} {
		for _, os := range group {
			for _, end := range os.endings {
				addOrdinal(os.stem+end, os.value)
			}
		}
	}

	stems = make(map[string]int64, len(stemCardinals))
	for stem, word := range stemCardinals {
		e, ok := cardinals[rucase.Fold(word)]
		if !ok {
			panic(fmt.Sprintf("numtext: stem %q maps to unknown cardinal %q", stem, word))
		}
		stems[rucase.Fold(stem)] = e.value
	}

	irregular = make(map[string]int64, len(irregularStems))
	for stem, v := range irregularStems {
		irregular[rucase.Fold(stem)] = v
	}
}

// addCardinal registers a folded cardinal key. The same word may appear
// twice only with the same value.
func addCardinal(word string, cat Category, value int64) {
	key := rucase.Fold(word)
	if prev, ok := cardinals[key]; ok && prev.value != value {
		panic(fmt.Sprintf("numtext: cardinal %q maps to both %d and %d", key, prev.value, value))
	}
	cardinals[key] = entry{category: cat, value: value}
}

// addOrdinal registers a folded ordinal key. Inflected forms of one ordinal
// coincide often (второй is masc nom and fem gen); forms of different
// ordinals must not.
func addOrdinal(word string, value int64) {
	key := rucase.Fold(word)
	if prev, ok := ordinals[key]; ok && prev != value {
		panic(fmt.Sprintf("numtext: ordinal %q maps to both %d and %d", key, prev, value))
	}
	ordinals[key] = value
}
