package cgi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"empty", "", Params{}},
		{"pairs", "k1=v1&k2=v2", Params{"k1": "v1", "k2": "v2"}},
		{"space escapes", "a=hello%20world&b=hello+world", Params{"a": "hello world", "b": "hello world"}},
		{"hex case", "p=%2Fusr%2flib", Params{"p": "/usr/lib"}},
		{"encoded key", "my%20key=1", Params{"my key": "1"}},
		{"empty value", "a=&b=2", Params{"a": "", "b": "2"}},
		{"last wins", "a=1&a=2", Params{"a": "2"}},
		{"stops at malformed", "a=1&broken&b=2", Params{"a": "1"}},
		{"no equals", "path", Params{}},
		{"bad escape kept", "a=100%&b=%zz%4", Params{"a": "100%", "b": "%zz%4"}},
		{"value keeps equals", "a=b=c", Params{"a": "b=c"}},
		{"high byte", "n=caf%C3%A9", Params{"n": "caf\xc3\xa9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.query))
		})
	}
}

func TestParamsGet(t *testing.T) {
	p := Decode("cmd=index&path=%2Fdata")

	v, ok := p.Get("path")
	assert.True(t, ok)
	assert.Equal(t, "/data", v)

	_, ok = p.Get("x")
	assert.False(t, ok)
}

func TestPathEscapeDecodes(t *testing.T) {
	// '+' passes through path escaping but decodes to a space, so it is left out.
	inputs := []string{
		"/data/plain",
		"/data/with space",
		"/data/100%",
		"/data/a&b=c",
		"/data/\"quoted\"",
		"/data/$-_.!*()",
		"/data/#hash?q",
		"/data/caf\xc3\xa9",
	}
	seen := map[string]string{}
	for _, in := range inputs {
		escaped := PathEscape(in)
		assert.Equal(t, in, decodeURI(escaped), in)

		p := Decode("path=" + escaped)
		got, ok := p.Get("path")
		assert.True(t, ok)
		assert.Equal(t, in, got)

		if prev, dup := seen[escaped]; dup {
			t.Errorf("%q and %q escape to %q", prev, in, escaped)
		}
		seen[escaped] = in
	}
}
