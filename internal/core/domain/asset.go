package domain

import "encoding/json"

// AssetQuery holds the lookup fields sent to the backend asset API
type AssetQuery struct {
	AssetName         string `json:"asset_name,omitempty"`
	AssetID           string `json:"asset_id,omitempty"`
	IdentificationNum string `json:"identification_num,omitempty"`
}

// IsEmpty reports whether no lookup field is set
func (q AssetQuery) IsEmpty() bool {
	return q.AssetName == "" && q.AssetID == "" && q.IdentificationNum == ""
}

// AssetSearchResponse is the backend search payload.
// Results are kept raw; the assistant only relays them to the generator.
type AssetSearchResponse struct {
	Results []json.RawMessage `json:"results"`
	Raw     json.RawMessage   `json:"-"`
}

// Found reports whether the backend returned any record
func (r *AssetSearchResponse) Found() bool {
	return r != nil && len(r.Results) > 0
}
