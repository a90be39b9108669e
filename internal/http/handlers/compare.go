package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/http/response"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/specvalue"
)

// CompareHandler serves POST /api/v1/compare (spec.md §6):
// product_ids[2..4] -> an aligned spec table, one row per canonical
// spec name any of the products carries, with an optional
// highlight_differences filter.
type CompareHandler struct {
	products catalogrepo.ProductRepo
	log      *logger.Logger
}

func NewCompareHandler(products catalogrepo.ProductRepo, baseLog *logger.Logger) *CompareHandler {
	return &CompareHandler{products: products, log: baseLog.With("handler", "CompareHandler")}
}

type compareRequestBody struct {
	ProductIDs           []string `json:"product_ids"`
	HighlightDifferences bool     `json:"highlight_differences"`
}

// CompareRow is one canonical spec's values across the compared
// products, aligned by position with the request's product_ids.
type CompareRow struct {
	Spec     string          `json:"spec"`
	Values   []*specvalue.Value `json:"values"`
	Differs  bool            `json:"differs"`
}

func (h *CompareHandler) Compare(c *gin.Context) {
	var body compareRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if len(body.ProductIDs) < 2 || len(body.ProductIDs) > 4 {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errCompareCount)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	products := make([]*catalog.Product, 0, len(body.ProductIDs))
	specMaps := make([]map[string]specvalue.Value, 0, len(body.ProductIDs))
	specNames := map[string]bool{}

	for _, raw := range body.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", err)
			return
		}
		p, err := h.products.GetByID(dbc, id)
		if err != nil {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		products = append(products, p)
		specs := decodeProductSpecs(p.Specs)
		specMaps = append(specMaps, specs)
		for name := range specs {
			specNames[name] = true
		}
	}

	names := make([]string, 0, len(specNames))
	for name := range specNames {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]CompareRow, 0, len(names))
	for _, name := range names {
		values := make([]*specvalue.Value, len(specMaps))
		differs := false
		var first *specvalue.Value
		for i, m := range specMaps {
			if v, ok := m[name]; ok {
				vv := v
				values[i] = &vv
				if first == nil {
					first = &vv
				} else {
					var same bool
					switch vv.Kind {
					case specvalue.KindNumeric:
						same = first.Kind == vv.Kind && first.Numeric == vv.Numeric && first.Unit == vv.Unit
					case specvalue.KindRange:
						same = first.Kind == vv.Kind && first.RangeMin == vv.RangeMin && first.RangeMax == vv.RangeMax
					default:
						same = vv.EqualNonNumeric(*first)
					}
					if !same {
						differs = true
					}
				}
			} else {
				differs = differs || first != nil
			}
		}
		if body.HighlightDifferences && !differs {
			continue
		}
		rows = append(rows, CompareRow{Spec: name, Values: values, Differs: differs})
	}

	response.RespondOK(c, gin.H{"products": products, "rows": rows})
}

func decodeProductSpecs(raw []byte) map[string]specvalue.Value {
	out := map[string]specvalue.Value{}
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		return out
	}
	for name, rv := range rawMap {
		v, err := specvalue.Unmarshal(rv)
		if err != nil {
			continue
		}
		out[name] = v
	}
	return out
}

var errCompareCount = errors.New("product_ids must contain between 2 and 4 entries")
