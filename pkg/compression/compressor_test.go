package compression

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleCSV = strings.Repeat("region,amount\nnorth,10\nsouth,25.5\neast,40\n", 50)

func TestRoundTripAllAlgorithms(t *testing.T) {
	algorithms := []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}
	levels := []Level{Fastest, Default, Best}

	for _, alg := range algorithms {
		for _, level := range levels {
			t.Run(fmt.Sprintf("%s/%d", alg, level), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, alg, level)
				require.NoError(t, err)
				_, err = io.WriteString(w, sampleCSV)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(sampleCSV), "repetitive input should shrink")
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				assert.Equal(t, sampleCSV, string(got))
			})
		}
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]Algorithm{
		"data.csv":          None,
		"data.csv.gz":       Gzip,
		"DATA.CSV.GZ":       Gzip,
		"rows.jsonl.zst":    Zstd,
		"rows.jsonl.lz4":    LZ4,
		"x.sz":              Snappy,
		"x.s2":              S2,
		"x.deflate":         Deflate,
		"/tmp/dir.gz/plain": None,
	}
	for path, want := range tests {
		assert.Equal(t, want, Detect(path), path)
	}
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "data.csv", TrimExtension("data.csv.gz"))
	assert.Equal(t, "data.csv", TrimExtension("data.csv"))
	assert.Equal(t, "rows.jsonl", TrimExtension("rows.jsonl.zst"))
}

func TestParse(t *testing.T) {
	alg, err := Parse("", "a.csv.lz4")
	require.NoError(t, err)
	assert.Equal(t, LZ4, alg)

	alg, err = Parse("auto", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	alg, err = Parse("ZSTD", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	_, err = Parse("brotli", "a.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported compression algorithm")
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewWriter(io.Discard, Algorithm("rar"), Default)
	require.Error(t, err)
	_, err = NewReader(strings.NewReader(""), Algorithm("rar"))
	require.Error(t, err)
}

func TestCorruptGzip(t *testing.T) {
	_, err := NewReader(strings.NewReader("not gzip"), Gzip)
	require.Error(t, err)
}
