package repositories

// DefaultPerPage и MaxPerPage границы постраничной выборки.
const (
	DefaultPerPage = 30
	MaxPerPage     = 100
)

// Pagination параметры страницы. Normalize приводит значения к допустимым.
type Pagination struct {
	Page    int
	PerPage int
}

func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset смещение для текущей страницы.
func (p Pagination) Offset() int {
	return p.PerPage * (p.Page - 1)
}

// LinksFilter фильтр списка ссылок. nil/пустые поля не участвуют в выборке.
type LinksFilter struct {
	CreatorID   *uint
	VisitorUUID string
	URL         string
	Type        string
	ShortToken  string
	DomainID    *uint
	Archived    *bool
}

// DomainsFilter фильтр списка доменов.
type DomainsFilter struct {
	CreatorID  *uint
	URI        string
	DomainType string
	Status     *int
	Validated  *bool
	Archived   *bool
}

// DeleteLinkResult количество удаленных записей при каскадном удалении ссылки.
type DeleteLinkResult struct {
	LinksRemoved     int64 `json:"linkRemoved"`
	PageViewsRemoved int64 `json:"pageviewsRemoved"`
}

// DimensionCount одна строка сгруппированной статистики: значение измерения
// и количество просмотров с ним.
type DimensionCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Dimension измерение группировки статистики просмотров.
type Dimension string

const (
	DimensionCountry     Dimension = "country"
	DimensionStateRegion Dimension = "state_region"
	DimensionReferrer    Dimension = "referrer"
	DimensionDevice      Dimension = "device"
	DimensionPlatform    Dimension = "platform"
	DimensionBrowser     Dimension = "browser"
)
