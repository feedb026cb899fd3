package entity

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PublicUserFilter pages through activated users. SortField is one of the
// whitelisted columns "id" or "login".
type PublicUserFilter struct {
	Limit     int32
	Offset    int64
	SortField string
	SortDir   SortDirection
}
