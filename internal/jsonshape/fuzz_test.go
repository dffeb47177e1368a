// File: internal/jsonshape/fuzz_test.go
//go:build go1.18
// +build go1.18

package jsonshape

import (
	"encoding/json"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
)

// FuzzToTable_ArbitraryJSON feeds raw bytes through the standard JSON decoder
// so every value handed to ToTable is a shape the API could actually produce.
// ToTable must never panic, whatever comes in.
func FuzzToTable_ArbitraryJSON(f *testing.F) {
	f.Add([]byte(`{"items":[{"a":1}]}`))
	f.Add([]byte(`[1,2,3]`))
	f.Add([]byte(`"5.33"`))
	f.Add([]byte(`null`))
	f.Fuzz(func(t *testing.T, data []byte) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return
		}
		tbl := ToTable(v)
		if len(tbl.Rows) > 0 && len(tbl.Columns) == 0 {
			t.Errorf("table has %d rows but no columns", len(tbl.Rows))
		}
		_ = ExtractNumber(v)
	})
}

// FuzzStripTransport_Structured fuzzes generated maps and checks that
// stripping is idempotent: a second pass must change nothing.
func FuzzStripTransport_Structured(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		fuzzConsumer := fuzz.NewConsumer(data)
		size, err := fuzzConsumer.GetInt()
		if err != nil {
			return
		}
		m := map[string]any{}
		for i := 0; i < size%16; i++ {
			k, err := fuzzConsumer.GetString()
			if err != nil {
				return
			}
			v, err := fuzzConsumer.GetString()
			if err != nil {
				return
			}
			// Alternate between scalar and nested values.
			if i%2 == 0 {
				m[k] = v
			} else {
				m[k] = map[string]any{"href": v, "kept": v}
			}
		}

		once := StripTransport(m)
		twice := StripTransport(once)

		a, err := json.Marshal(once)
		if err != nil {
			return
		}
		b, err := json.Marshal(twice)
		if err != nil {
			return
		}
		if string(a) != string(b) {
			t.Errorf("StripTransport not idempotent:\nonce:  %s\ntwice: %s", a, b)
		}
	})
}
