package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundleFor(t *testing.T) {
	tests := []struct {
		code string
		want LanguageBundle
	}{
		{"ar", BundleArabic},
		{"ja", BundleJapanese},
		{"zh", BundleChinese},
		{"zh-CN", BundleChinese},
		{"ES", BundleSpanish},
		{"fr", BundleFrench},
		{"de_AT", BundleGerman},
		{"ru", BundleRussian},
		{"pl", BundleGeneric},
		{"", BundleGeneric},
		{"klingon", BundleGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, BundleFor(tt.code))
		})
	}
}

func TestLanguageBundle_Content(t *testing.T) {
	withAlphabet := map[LanguageBundle]bool{
		BundleArabic: true, BundleJapanese: true, BundleChinese: true, BundleRussian: true,
	}
	bundles := []LanguageBundle{
		BundleGeneric, BundleArabic, BundleJapanese, BundleChinese,
		BundleSpanish, BundleFrench, BundleGerman, BundleRussian,
	}

	for _, b := range bundles {
		t.Run(b.String(), func(t *testing.T) {
			assert.Contains(t, b.Resources(), `<a name="resources"></a>`)
			if withAlphabet[b] {
				assert.Contains(t, b.Alphabet(), `<a name="alphabet"></a>`)
			} else {
				assert.Empty(t, b.Alphabet())
			}
		})
	}

	assert.Contains(t, BundleGeneric.Resources(), "Language Learning Resources")
	assert.Contains(t, BundleSpanish.Resources(), "Spanish Learning Resources")
	assert.True(t, BundleArabic.RightToLeft())
	assert.False(t, BundleRussian.RightToLeft())
}
