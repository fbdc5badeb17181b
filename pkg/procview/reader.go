package procview

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/medshield-admin/pkg/model"
)

// Query parameter names.
const (
	ParamPhase    = "phase"
	ParamRole     = "role"
	ParamSubject  = "subject"
	ParamCategory = "category"
	ParamStandard = "standard"
	ParamPriority = "priority"
	ParamPage     = "page"
	ParamOpen     = "open"
)

// ReadFilter extracts the filter criteria from query parameters. Values
// are trimmed; absent parameters stay empty.
func ReadFilter(q url.Values) model.FilterCriteria {
	get := func(key string) string {
		return strings.TrimSpace(q.Get(key))
	}
	return model.FilterCriteria{
		Phase:    get(ParamPhase),
		Role:     get(ParamRole),
		Subject:  get(ParamSubject),
		Category: get(ParamCategory),
		Standard: get(ParamStandard),
		Priority: get(ParamPriority),
	}
}

// ReadPage returns the 1-based page parameter, 1 when absent or invalid.
func ReadPage(q url.Values) int {
	page, err := strconv.Atoi(strings.TrimSpace(q.Get(ParamPage)))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ReadExpansion builds the expansion set from repeated open parameters.
func ReadExpansion(q url.Values) *Expansion {
	return NewExpansion(q[ParamOpen]...)
}

// Query encodes filter, page and expanded keys back into parameters.
// Page 1 and an empty expansion are omitted.
func Query(f model.FilterCriteria, page int, e *Expansion) url.Values {
	q := f.Values()
	if page > 1 {
		q.Set(ParamPage, strconv.Itoa(page))
	}
	if e != nil {
		for _, key := range e.Keys() {
			q.Add(ParamOpen, key)
		}
	}
	return q
}
