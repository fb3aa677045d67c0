package normalize_test

import (
	"testing"

	"github.com/gnames/gnidx/pkg/normalize"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg, in, out string
	}{
		{"plain", "Oenanthe", "oenanthe"},
		{"ligature upper", "Œnanthe", "oenanthe"},
		{"ligature lower", "cœrulea", "coerulea"},
		{"ae", "Æschna", "aeschna"},
		{"eszett", "Preußia", "preussia"},
		{"o slash", "Søren", "soren"},
		{"eth", "Ðara", "dara"},
		{"l stroke", "Łodzia", "lodzia"},
		{"t stroke", "ŧara", "tara"},
		{"diacritics", "Döringia", "doringia"},
		{"acute", "Pérez", "perez"},
		{"cedilla", "Françoisia", "francoisia"},
		{"hybrid sign", "×Agropogon", "agropogon"},
		{"hyphen", "novae-angliae", "novaeangliae"},
		{"quotes", "'alba'", "alba"},
		{"spaces", "  Aus   bus ", "aus bus"},
		{"unmappable", "Aus☃", "aus☃"},
		{"empty", "", ""},
	}
	for _, v := range tests {
		assert.Equal(t, v.out, normalize.Normalize(v.in), v.msg)
	}
}

func TestVerbatim(t *testing.T) {
	tests := []struct {
		msg, in, out string
	}{
		{
			"hybrid formula",
			"Abies  alba×Abies grandis",
			"abies alba × abies grandis",
		},
		{"virus", "Tobacco mosaic virus", "tobacco mosaic virus"},
		{"punctuation kept", "Aus sp. 1", "aus sp. 1"},
		{"folding", "Œnanthe × Cœlia", "oenanthe × coelia"},
	}
	for _, v := range tests {
		assert.Equal(t, v.out, normalize.Verbatim(v.in), v.msg)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "doring", normalize.Fold("Döring"))
	assert.Equal(t, "mill.", normalize.Fold("Mill."))
	assert.Equal(t, "o'brien", normalize.Fold("O'Brien"))
}
