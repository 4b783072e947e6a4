package models

// SortMethod orders post listings.
type SortMethod string

const (
	SortNew SortMethod = "new"
	SortTop SortMethod = "top"
	SortHot SortMethod = "hot"
)

// ParseSort maps user input to a SortMethod; anything unrecognized is SortNew.
func ParseSort(s string) SortMethod {
	switch SortMethod(s) {
	case SortTop:
		return SortTop
	case SortHot:
		return SortHot
	default:
		return SortNew
	}
}

// PageSize caps every listing. Pagination beyond it is not offered.
const PageSize = 25
