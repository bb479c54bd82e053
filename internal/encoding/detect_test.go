package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/recette/internal/encoding"
)

func readAll(t *testing.T, in []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(in))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date opération;Libellé;Crédit\n02/01/2026;Versement espèces;1 250,000\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_UTF8AcrossSniffWindow(t *testing.T) {
	// "é" straddles the 4096-byte peek boundary.
	input := strings.Repeat("a", 4095) + "é;fin\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// é = 0xE9 in Windows-1252.
	latin1 := []byte{
		'L', 'i', 'b', 'e', 'l', 'l', 0xE9, ';',
		'C', 'r', 0xE9, 'd', 'i', 't', '\n',
	}

	assert.Equal(t, "Libellé;Crédit\n", readAll(t, latin1))
}

func TestNewUTF8Reader_Windows1252LongSample(t *testing.T) {
	utf8CSV := "Date opération;Libellé;Débit;Crédit\n" +
		strings.Repeat("05/01/2026;Versement espèces caisse;;1 250,000\n", 20)

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	assert.Equal(t, utf8CSV, readAll(t, encoded))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Libellé;Montant\n")...)
	assert.Equal(t, "Libellé;Montant\n", readAll(t, input))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Equal(t, "", readAll(t, nil))
}
