package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword("Password", &out)
	require.Error(t, err)
}

func TestGetOptional(t *testing.T) {
	var out bytes.Buffer

	v, err := getOptional(rdr("\n"), "Email", "a@b.com", &out)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Contains(t, out.String(), "Email [a@b.com]")

	v, err = getOptional(rdr("new@b.com\n"), "Email", "a@b.com", &out)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "new@b.com", *v)
}

func TestGetNumber(t *testing.T) {
	var out bytes.Buffer

	n, err := getNumber(rdr("\n"), "Capacity", 120, &out)
	require.NoError(t, err)
	assert.Equal(t, 120.0, n)

	n, err = getNumber(rdr("45.5\n"), "Price", 0, &out)
	require.NoError(t, err)
	assert.Equal(t, 45.5, n)

	_, err = getNumber(rdr("abc\n"), "Price", 0, &out)
	require.Error(t, err)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(rdr("y\n"), "Delete?", &out))
	assert.True(t, confirm(rdr("YES\n"), "Delete?", &out))
	assert.False(t, confirm(rdr("\n"), "Delete?", &out))
	assert.False(t, confirm(rdr(""), "Delete?", &out))
}
