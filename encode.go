package stockcard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/stockcard/date"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes the history blob.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default codec. Its output is the dashboard widget's own
// storage format:
//
//	{"2025-07-01": {"data": {"AAPL": {"price": 201.5, "change": -1.2}}, "ts": 1751371200000}}
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// MsgpackCodec is a compact binary alternative to JSONCodec.
type MsgpackCodec struct{}

func (MsgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// CodecByName returns the codec registered under name ("json" or "msgpack").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// jsnapshot is the persisted form of a Snapshot. The date is the map key.
type jsnapshot struct {
	Data PriceMap `json:"data" msgpack:"data"`
	TS   int64    `json:"ts" msgpack:"ts"` // epoch milliseconds
}

// EncodeHistory serializes h with codec.
func EncodeHistory(codec Codec, h *History) ([]byte, error) {
	out := make(map[string]jsnapshot, h.Len())
	for day, s := range h.days.Values() {
		out[day.String()] = jsnapshot{Data: s.Prices, TS: s.CapturedAt.UnixMilli()}
	}
	data, err := codec.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("cannot encode history: %w", err)
	}
	return data, nil
}

// DecodeHistory parses a blob written by EncodeHistory.
//
// An empty blob or a JSON null is an empty history. Any other malformed
// content is an error, including a key that is not a date.
func DecodeHistory(codec Codec, data []byte) (*History, error) {
	h := new(History)
	if len(bytes.TrimSpace(data)) == 0 {
		return h, nil
	}
	var in map[string]jsnapshot
	if err := codec.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("cannot decode history: %w", err)
	}
	for key, s := range in {
		day, err := date.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("cannot decode history: %w", err)
		}
		if s.Data == nil {
			s.Data = PriceMap{}
		}
		h.days.Append(day, Snapshot{Date: day, Prices: s.Data, CapturedAt: time.UnixMilli(s.TS)})
	}
	return h, nil
}
