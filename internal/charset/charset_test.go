package charset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"UTF-8", "utf-8"},
		{"ascii", "us-ascii"},
		{"GBK", "gbk"},
		{"big5", "big5"},
		{"utf-16", "utf-16"},
		{"latin1", "iso-8859-1"},
		{" Shift_JIS ", "shift_jis"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			enc, err := Lookup(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, enc.Name)
		})
	}

	_, err := Lookup("klingon-8")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestDecodeDetection(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantText string
		wantEnc  string
	}{
		{"ascii", []byte("1\nplain\n"), "1\nplain\n", "us-ascii"},
		{"utf-8", []byte("中文"), "中文", "utf-8"},
		{"gbk", []byte{0xd6, 0xd0, 0xce, 0xc4}, "中文", "gbk"},
		{"utf-16 bom", []byte{0xff, 0xfe, 'A', 0x00, 'B', 0x00}, "AB", "utf-16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := Decode("a.srt", tt.data, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantEnc, enc)
		})
	}
}

func TestDecodeForced(t *testing.T) {
	text, enc, err := Decode("b.srt", []byte{0xa4, 0xa4, 0xa4, 0xe5}, "Big5")
	require.NoError(t, err)
	assert.Equal(t, "中文", text)
	assert.Equal(t, "big5", enc)

	_, _, err = Decode("b.srt", []byte("x"), "klingon-8")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestDecodeFailureNamesFile(t *testing.T) {
	_, _, err := Decode("broken.srt", []byte{'a', 0xff}, "us-ascii")
	require.Error(t, err)

	var ee *EncodingError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "broken.srt", ee.File)
	assert.Equal(t, []string{"us-ascii"}, ee.Tried)
	assert.Contains(t, err.Error(), "-e ENCODING,broken.srt")
}

func TestEncode(t *testing.T) {
	gbk, err := Lookup("gbk")
	require.NoError(t, err)

	out, err := Encode(gbk, "中文")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd6, 0xd0, 0xce, 0xc4}, out)

	ascii, err := Lookup("us-ascii")
	require.NoError(t, err)
	_, err = Encode(ascii, "café")
	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
	assert.True(t, ee.Output)
	assert.Contains(t, err.Error(), "--output-encoding utf-8")
}

func TestCanEncodeIdeographicSpace(t *testing.T) {
	ascii, _ := Lookup("us-ascii")
	gbk, _ := Lookup("gbk")
	latin1, _ := Lookup("latin1")

	assert.False(t, CanEncode(ascii, "\u3000"))
	assert.False(t, CanEncode(latin1, "\u3000"))
	assert.True(t, CanEncode(gbk, "\u3000"))
	assert.True(t, CanEncode(UTF8, "\u3000"))
}

func TestOutputEncoding(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_CTYPE", "")

	t.Setenv("LANG", "zh_CN.GBK@stroke")
	enc, err := OutputEncoding("")
	require.NoError(t, err)
	assert.Equal(t, "gbk", enc.Name)

	t.Setenv("LANG", "C")
	enc, err = OutputEncoding("")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc.Name)

	t.Setenv("LC_ALL", "en_US.ISO-8859-1")
	enc, err = OutputEncoding("")
	require.NoError(t, err)
	assert.Equal(t, "iso-8859-1", enc.Name)

	enc, err = OutputEncoding("big5")
	require.NoError(t, err)
	assert.Equal(t, "big5", enc.Name)
}
