package stats

import (
	"bytes"
	"encoding/json"
	"os"

	acsaerrors "github.com/sovereign-systems/acsa/internal/errors"
)

// LoadPricingTable reads a JSON array of PriceEntry from path. A
// missing file is not an error: callers fall back to an empty table,
// under which CostOf always returns 0 rather than refusing to run.
func LoadPricingTable(path string) ([]PriceEntry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, acsaerrors.ConfigInvalid("stats: cannot read pricing table: " + err.Error())
	}

	var table []PriceEntry
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&table); err != nil {
		return nil, acsaerrors.ConfigInvalid("stats: invalid pricing table: " + err.Error())
	}
	return table, nil
}
