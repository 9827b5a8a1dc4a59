package postgres

import (
	"fmt"

	"github.com/bytedance/sonic"
)

func marshalJSONB(v any) ([]byte, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}

	return data, nil
}

func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}

	return nil
}
