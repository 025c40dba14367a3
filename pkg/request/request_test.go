package request

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader hands out the payload a few bytes at a time
type chunkReader struct {
	data  string
	chunk int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.data == "" {
		return 0, io.EOF
	}
	n := c.chunk
	if n > len(c.data) {
		n = len(c.data)
	}
	n = copy(p[:n], c.data)
	c.data = c.data[n:]
	return n, nil
}

func TestRead(t *testing.T) {
	req, err := Read(strings.NewReader(`{"code":"1+1","nproc":10,"memory":104857600}`))
	require.NoError(t, err)
	assert.Equal(t, "1+1", req.Code())
	assert.Equal(t, int64(10), req.ProcessLimit())
	assert.Equal(t, int64(104857600), req.MemoryLimit())
	assert.Equal(t, JavaScript, req.Language())
	assert.Equal(t, int64(104857600), req.RLimits().AddressSpace)
	assert.Equal(t, int64(10), req.RLimits().Process)
}

func TestReadFragmented(t *testing.T) {
	payload := `{"code":"console.log('hi')","nproc":5,"memory":1048576}`
	for _, r := range []io.Reader{
		&chunkReader{data: payload, chunk: 3},
		iotest.OneByteReader(strings.NewReader(payload)),
		iotest.HalfReader(strings.NewReader(payload)),
	} {
		req, err := Read(r)
		require.NoError(t, err)
		assert.Equal(t, "console.log('hi')", req.Code())
		assert.Equal(t, int64(5), req.ProcessLimit())
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace", " \n\t"},
		{"NotJSON", "console.log(1)"},
		{"Truncated", `{"code":"x","nproc":1,`},
		{"MissingLimits", `{"code":"x"}`},
		{"MissingCode", `{"nproc":1,"memory":1}`},
		{"NullField", `{"code":"x","nproc":null,"memory":1}`},
		{"WrongType", `{"code":"x","nproc":"10","memory":1}`},
		{"CodeNotString", `{"code":1,"nproc":1,"memory":1}`},
		{"Fraction", `{"code":"x","nproc":1.5,"memory":1}`},
		{"Array", `[{"code":"x","nproc":1,"memory":1}]`},
		{"TopLevelNull", `null`},
		{"TrailingData", `{"code":"x","nproc":1,"memory":1}{"code":"y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReadError(t *testing.T) {
	_, err := Read(iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestReadTolerates(t *testing.T) {
	req, err := Read(strings.NewReader(`{"code":"x","nproc":0,"memory":-1,"timeout":10,"extra":{"a":[1]}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), req.ProcessLimit())
	assert.Equal(t, int64(-1), req.MemoryLimit())
}

func TestReadToleratesLanguage(t *testing.T) {
	for name, lang := range map[string]string{
		"Unknown": `"python"`,
		"Number":  `5`,
		"Null":    `null`,
		"Object":  `{"name":"lua"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req, err := Read(strings.NewReader(`{"code":"1+1","nproc":10,"memory":104857600,"language":` + lang + `}`))
			require.NoError(t, err)
			assert.Equal(t, JavaScript, req.Language())
			assert.Equal(t, "1+1", req.Code())
			assert.Equal(t, int64(10), req.ProcessLimit())
			assert.Equal(t, int64(104857600), req.MemoryLimit())
		})
	}
}

func TestLanguage(t *testing.T) {
	for in, want := range map[string]Language{
		"":           JavaScript,
		"js":         JavaScript,
		"Node":       JavaScript,
		"javascript": JavaScript,
		" lua ":      Lua,
	} {
		got, err := ParseLanguage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	req, err := Decode([]byte(`{"code":"return 1","nproc":1,"memory":1,"language":"lua"}`))
	require.NoError(t, err)
	assert.Equal(t, Lua, req.Language())
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(New("1+1", 10, 104857600, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"1+1","nproc":10,"memory":104857600}`, string(b))

	b, err = json.Marshal(New("print(1)", 1, 2, Lua))
	require.NoError(t, err)
	req, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, New("print(1)", 1, 2, Lua), req)
}
