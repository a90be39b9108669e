package catalog

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/specvalue"
)

func decodeSpecs(raw datatypes.JSON) (map[string]specvalue.Value, error) {
	out := make(map[string]specvalue.Value)
	if len(raw) == 0 {
		return out, nil
	}
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		return nil, fmt.Errorf("catalog: decode specs: %w", err)
	}
	for name, msg := range rawMap {
		v, err := specvalue.Unmarshal(msg)
		if err != nil {
			return nil, fmt.Errorf("catalog: decode spec %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func encodeSpecs(p *catalog.Product, specs map[string]specvalue.Value) error {
	rawMap := make(map[string]json.RawMessage, len(specs))
	for name, v := range specs {
		b, err := v.Marshal()
		if err != nil {
			return fmt.Errorf("catalog: encode spec %q: %w", name, err)
		}
		rawMap[name] = b
	}
	b, err := json.Marshal(rawMap)
	if err != nil {
		return fmt.Errorf("catalog: encode specs: %w", err)
	}
	p.Specs = datatypes.JSON(b)
	return nil
}

func encodeCertifications(p *catalog.Product, certs []string) error {
	if certs == nil {
		certs = []string{}
	}
	b, err := json.Marshal(certs)
	if err != nil {
		return fmt.Errorf("catalog: encode certifications: %w", err)
	}
	p.Certifications = datatypes.JSON(b)
	return nil
}

// specEqual reports byte-identity after marshaling; the Conflict Engine
// -- not the Catalog Store -- owns tolerance-aware equivalence, so by
// the time a SpecWrite reaches here it has already been decided to
// write. This only short-circuits the rare case of two writes in the
// same mutation batch producing the identical value (e.g. reprocessing).
func specEqual(a, b specvalue.Value) bool {
	ab, errA := a.Marshal()
	bb, errB := b.Marshal()
	if errA != nil || errB != nil {
		return false
	}
	return string(ab) == string(bb)
}

// applyFixed copies any non-nil/non-empty field of f onto p, reporting
// whether anything changed.
func applyFixed(p *catalog.Product, f FixedColumns) bool {
	changed := false

	setFloat := func(dst **float64, src *float64) {
		if src == nil {
			return
		}
		if *dst == nil || **dst != *src {
			v := *src
			*dst = &v
			changed = true
		}
	}
	setInt := func(dst **int, src *int) {
		if src == nil {
			return
		}
		if *dst == nil || **dst != *src {
			v := *src
			*dst = &v
			changed = true
		}
	}
	setStr := func(dst *string, src string) {
		if src == "" || *dst == src {
			return
		}
		*dst = src
		changed = true
	}

	setFloat(&p.StorageCapacityCuft, f.StorageCapacityCuft)
	setFloat(&p.TempRangeMinC, f.TempRangeMinC)
	setFloat(&p.TempRangeMaxC, f.TempRangeMaxC)
	setInt(&p.DoorCount, f.DoorCount)
	setStr(&p.DoorType, f.DoorType)
	setInt(&p.ShelfCount, f.ShelfCount)
	setStr(&p.Refrigerant, f.Refrigerant)
	setFloat(&p.VoltageV, f.VoltageV)
	setFloat(&p.Amperage, f.Amperage)
	setFloat(&p.ProductWeightLbs, f.ProductWeightLbs)
	setFloat(&p.ExtWidthIn, f.ExtWidthIn)
	setFloat(&p.ExtDepthIn, f.ExtDepthIn)
	setFloat(&p.ExtHeightIn, f.ExtHeightIn)

	return changed
}
