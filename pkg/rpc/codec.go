package rpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName はgRPCのcontent-subtype。バックエンドと同じ "proto" を名乗る。
const codecName = "proto"

// codec は Message をprotobufワイヤ形式で送受信するgRPCコーデック。
type codec struct{}

var _ encoding.Codec = codec{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("rpc: %T はMessageを実装していない", v)
	}
	return m.MarshalWire()
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("rpc: %T はMessageを実装していない", v)
	}
	return m.UnmarshalWire(data)
}

func (codec) Name() string {
	return codecName
}
