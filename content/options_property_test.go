package content

import (
	"testing"

	"pgregory.net/rapid"
)

// Options merge follows the same explicit-wins, absent-inherits rule as the
// style cascade: for every field, the merged value equals the overlay value
// when the overlay sets it, and the base value otherwise.

func genOptions(t *rapid.T, label string) *GenerateOptions {
	if rapid.Bool().Draw(t, label+"_nil") {
		return nil
	}
	opts := &GenerateOptions{}
	if rapid.Bool().Draw(t, label+"_ap") {
		v := rapid.Bool().Draw(t, label+"_ap_v")
		opts.AutoPaginateTables = &v
	}
	if rapid.Bool().Draw(t, label+"_rp") {
		v := rapid.Bool().Draw(t, label+"_rp_v")
		opts.AllowTextboxReposition = &v
	}
	if rapid.Bool().Draw(t, label+"_tmf") {
		v := rapid.IntRange(FontSizeFloor, FontSizeCeiling).Draw(t, label+"_tmf_v")
		opts.TableMinFontSize = &v
	}
	if rapid.Bool().Draw(t, label+"_xmf") {
		v := rapid.IntRange(FontSizeFloor, FontSizeCeiling).Draw(t, label+"_xmf_v")
		opts.TextboxMinFontSize = &v
	}
	if rapid.Bool().Draw(t, label+"_ft") {
		v := rapid.StringMatching(`[a-zA-Z ]{0,20}`).Draw(t, label+"_ft_v")
		opts.FooterText = &v
	}
	return opts
}

func TestPropertyOptionsMergeExplicitWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := genOptions(t, "base")
		overlay := genOptions(t, "overlay")

		merged := MergeOptions(base, overlay)

		wantBool := func(o, b *bool) *bool {
			if o != nil {
				return o
			}
			return b
		}
		var baseAP, overAP *bool
		if base != nil {
			baseAP = base.AutoPaginateTables
		}
		if overlay != nil {
			overAP = overlay.AutoPaginateTables
		}
		want := wantBool(overAP, baseAP)
		if (want == nil) != (merged.AutoPaginateTables == nil) {
			t.Fatalf("auto_paginate_tables presence mismatch")
		}
		if want != nil && *merged.AutoPaginateTables != *want {
			t.Fatalf("auto_paginate_tables = %v, want %v", *merged.AutoPaginateTables, *want)
		}

		var baseTMF, overTMF *int
		if base != nil {
			baseTMF = base.TableMinFontSize
		}
		if overlay != nil {
			overTMF = overlay.TableMinFontSize
		}
		switch {
		case overTMF != nil && *merged.TableMinFontSize != *overTMF:
			t.Fatalf("table_min_font_size = %v, want overlay %v", *merged.TableMinFontSize, *overTMF)
		case overTMF == nil && baseTMF != nil && *merged.TableMinFontSize != *baseTMF:
			t.Fatalf("table_min_font_size = %v, want base %v", *merged.TableMinFontSize, *baseTMF)
		case overTMF == nil && baseTMF == nil && merged.TableMinFontSize != nil:
			t.Fatalf("table_min_font_size should stay unset")
		}

		// Defaults apply only when neither level sets a value.
		if merged.TableMinFontSize == nil && merged.TableMinFont() != DefaultTableMinFont {
			t.Fatalf("TableMinFont default = %d, want %d", merged.TableMinFont(), DefaultTableMinFont)
		}
		if merged.AutoPaginateTables == nil && !merged.AutoPaginate() {
			t.Fatal("AutoPaginate should default to true")
		}
		if merged.AllowTextboxReposition == nil && merged.RepositionTextboxes() {
			t.Fatal("RepositionTextboxes should default to false")
		}
	})
}

func TestOptionsMinFontClamped(t *testing.T) {
	low, high := 1, 200
	opts := GenerateOptions{TableMinFontSize: &low, TextboxMinFontSize: &high}
	if got := opts.TableMinFont(); got != FontSizeFloor {
		t.Fatalf("TableMinFont() = %d, want clamp to %d", got, FontSizeFloor)
	}
	if got := opts.TextboxMinFont(); got != FontSizeCeiling {
		t.Fatalf("TextboxMinFont() = %d, want clamp to %d", got, FontSizeCeiling)
	}
}
