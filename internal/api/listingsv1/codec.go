package listingsv1

import "encoding/json"

// Codec はメッセージを encoding/json でシリアライズする connect.Codec です
// 組み込みの "json" コーデック（protojson）を置き換えます
type Codec struct{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
