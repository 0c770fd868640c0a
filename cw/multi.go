package cw

import "fmt"

// DecodeMulti decodes each audios[i] against cfgs[i] into outs[i],
// sequentially. It is the batch counterpart of building a Decoder per
// channel by hand; each channel gets its own independent Decoder. Returns
// the first construction error encountered, wrapped with the channel
// index.
func DecodeMulti(cfgs []Config, audios [][]float64, outs [][]byte) error {
	n := len(cfgs)
	if len(audios) != n || len(outs) != n {
		return fmt.Errorf("cw: DecodeMulti: cfgs/audios/outs length mismatch (%d/%d/%d)", n, len(audios), len(outs))
	}

	for ch := 0; ch < n; ch++ {
		dec, err := NewDecoder(cfgs[ch])
		if err != nil {
			return fmt.Errorf("cw: DecodeMulti: channel %d: %w", ch, err)
		}

		out := outs[ch]
		written := dec.Process(audios[ch], out)
		dec.Finalize(out[written:])
	}

	return nil
}
