package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type SortOption string

const (
	SortDefault   SortOption = ""
	SortPriceAsc  SortOption = "priceAsc"
	SortPriceDesc SortOption = "priceDesc"
	SortAZ        SortOption = "az"
	SortZA        SortOption = "za"
)

func ValidSortOption(s string) bool {
	switch SortOption(s) {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortAZ, SortZA:
		return true
	}
	return false
}

// The compact/mobile presentation carries its own independently-selected
// sort; it shares comparators with the desktop one.
const (
	MobileSortDefault = ""
	MobileSortAsc     = "asc"
	MobileSortDesc    = "desc"
	MobileSortAZ      = "az"
	MobileSortZA      = "za"
)

func mobileToSortOption(order string) SortOption {
	switch order {
	case MobileSortAsc:
		return SortPriceAsc
	case MobileSortDesc:
		return SortPriceDesc
	case MobileSortAZ:
		return SortAZ
	case MobileSortZA:
		return SortZA
	default:
		return SortDefault
	}
}

func collatorFor(lang string) *collate.Collator {
	if lang == "en" {
		return collate.New(language.English)
	}
	return collate.New(language.Spanish)
}

// sortProducts orders products in place. Sorting is always computed here,
// never delegated to the store.
func sortProducts(products []models.Product, option SortOption, lang string, col *collate.Collator) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch option {
		case SortPriceAsc:
			return a.MinDisplayPrice().LessThan(b.MinDisplayPrice())
		case SortPriceDesc:
			return b.MinDisplayPrice().LessThan(a.MinDisplayPrice())
		case SortAZ:
			return col.CompareString(a.Title.In(lang), b.Title.In(lang)) < 0
		case SortZA:
			return col.CompareString(b.Title.In(lang), a.Title.In(lang)) < 0
		default:
			if a.Orden != b.Orden {
				return a.Orden < b.Orden
			}
			return col.CompareString(a.Title.In(lang), b.Title.In(lang)) < 0
		}
	})
}

// foldText lowercases and strips diacritics so "Tamaño" matches "tamano".
func foldText(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
