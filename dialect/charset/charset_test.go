package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestNew(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		for _, pair := range [][2]string{{"", "UTF-8"}, {"windows-1250", ""}, {"", ""}} {
			tr, err := New(pair[0], pair[1])
			require.NoError(t, err)
			assert.Nil(t, tr)
		}
	})

	t.Run("names", func(t *testing.T) {
		tr, err := New("Windows-1250", "utf-8")
		require.NoError(t, err)
		require.NotNil(t, tr)
		assert.Equal(t, "Windows-1250", tr.DBCharset())
		assert.Equal(t, "utf-8", tr.Charset())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New("klingon-1", "UTF-8")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "klingon-1")
	})
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"windows-1250", "WINDOWS-1250", "cp1250", "ISO-8859-2", "latin2", "UTF-8", "utf8"} {
		t.Run(name, func(t *testing.T) {
			enc, err := Lookup(name)
			require.NoError(t, err)
			assert.NotNil(t, enc)
		})
	}
	enc, err := Lookup("windows-1250")
	require.NoError(t, err)
	assert.Equal(t, charmap.Windows1250, enc)
}

func TestTranscoder(t *testing.T) {
	tr, err := New("windows-1250", "UTF-8")
	require.NoError(t, err)

	t.Run("to_db", func(t *testing.T) {
		assert.Equal(t, "SELECT 1", tr.ToDB("SELECT 1"))
		assert.Equal(t, "k\xf9\xf2", tr.ToDB("kůň"))
	})

	t.Run("to_client", func(t *testing.T) {
		assert.Equal(t, "kůň", tr.ToClient("k\xf9\xf2"))
		assert.Equal(t, "Žluťoučký", tr.ToClient(tr.ToDB("Žluťoučký")))
	})

	t.Run("drops_unmappable", func(t *testing.T) {
		// Windows-1250 has no mapping for CJK characters nor for 0x98.
		assert.Equal(t, "ab", tr.ToDB("a日b"))
		assert.Equal(t, "ab", tr.ToClient("a\x98b"))
	})

	t.Run("drops_invalid_utf8", func(t *testing.T) {
		assert.Equal(t, "ab", tr.ToDB("a\xffb"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", tr.ToDB(""))
		assert.Equal(t, "", tr.ToClient(""))
	})
}

func TestTranscoderNonCharmap(t *testing.T) {
	tr, err := New("Shift_JIS", "UTF-8")
	require.NoError(t, err)
	db := tr.ToDB("日本ž")
	assert.Equal(t, "日本", tr.ToClient(db))
}

func TestNilTranscoder(t *testing.T) {
	var tr *Transcoder
	assert.Equal(t, "kůň", tr.ToDB("kůň"))
	assert.Equal(t, "k\xf9\xf2", tr.ToClient("k\xf9\xf2"))
	assert.Empty(t, tr.DBCharset())
	assert.Empty(t, tr.Charset())
}
