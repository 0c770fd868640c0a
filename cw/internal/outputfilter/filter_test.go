package outputfilter

import "testing"

func feedString(f *Filter, s string, out []byte) []byte {
	var result []byte
	for i := 0; i < len(s); i++ {
		buf := make([]byte, len(out))
		n := f.Feed(s[i], buf)
		result = append(result, buf[:n]...)
	}
	return result
}

func TestFilter_SuppressesShortNoiseProneWord(t *testing.T) {
	f := New(2)
	out := feedString(f, "E ", make([]byte, 16))
	if len(out) != 0 {
		t.Fatalf("expected suppressed word to emit nothing, got %q", out)
	}
	if f.warmedUp {
		t.Fatalf("warmedUp should remain false after suppression")
	}
}

func TestFilter_ReleasesWordMeetingMinLength(t *testing.T) {
	f := New(2)
	out := feedString(f, "HI ", make([]byte, 16))
	if string(out) != "HI " {
		t.Fatalf("Feed output = %q, want %q", out, "HI ")
	}
	if !f.warmedUp {
		t.Fatalf("expected warmedUp to latch after a released word")
	}
}

func TestFilter_ReleasesShortWordWithNonNoiseLetter(t *testing.T) {
	f := New(2)
	out := feedString(f, "X ", make([]byte, 16))
	if string(out) != "X " {
		t.Fatalf("Feed output = %q, want %q", out, "X ")
	}
}

func TestFilter_LatchPersistsAfterWarmup(t *testing.T) {
	f := New(2)
	feedString(f, "HI ", make([]byte, 16))

	out := feedString(f, "E ", make([]byte, 16))
	if string(out) != "E " {
		t.Fatalf("expected verbatim emission once warmed up, got %q", out)
	}
}

func TestFilter_Flush(t *testing.T) {
	f := New(2)
	for _, ch := range []byte("PARIS") {
		f.Feed(ch, make([]byte, 16))
	}
	out := make([]byte, 16)
	n := f.Flush(out)
	if string(out[:n]) != "PARIS " {
		t.Fatalf("Flush output = %q, want %q", out[:n], "PARIS ")
	}
}

func TestFilter_FlushNothingPendingIsNoop(t *testing.T) {
	f := New(2)
	out := make([]byte, 16)
	if n := f.Flush(out); n != 0 {
		t.Fatalf("Flush with nothing pending wrote %d bytes", n)
	}
}

func TestFilter_TruncatesToOutputCapacity(t *testing.T) {
	f := New(2)
	for _, ch := range []byte("HELLO") {
		f.Feed(ch, make([]byte, 16))
	}
	out := make([]byte, 3)
	n := f.Flush(out)
	if n != 3 || string(out) != "HEL" {
		t.Fatalf("truncated Flush = %q (n=%d), want %q (n=3)", out, n, "HEL")
	}
}

func TestFilter_Reset(t *testing.T) {
	f := New(2)
	feedString(f, "HI ", make([]byte, 16))
	f.Reset()
	if f.warmedUp || f.n != 0 {
		t.Fatalf("Reset left state: warmedUp=%v n=%d", f.warmedUp, f.n)
	}

	out := feedString(f, "E ", make([]byte, 16))
	if len(out) != 0 {
		t.Fatalf("expected suppression to resume after Reset, got %q", out)
	}
}
