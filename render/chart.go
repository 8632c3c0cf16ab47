package render

import (
	"fmt"
	"strconv"

	ppt "github.com/VantageDataChat/GoPPT"

	"deckgen/content"
	"deckgen/layout"
)

// GoPPT exposes no native chart part, so charts are drawn as filled
// rectangle series with a text legend. The approximation keeps decks fully
// self-contained and editable shape by shape.

var chartPalette = []string{
	"FF3B82F6", "FF16A34A", "FFF59E0B", "FFDC2626", "FF8B5CF6", "FF64748B",
}

const (
	legendHeight  = int64(0.3 * emuPerInch)
	labelHeight   = int64(0.18 * emuPerInch)
	fontChartText = 9
)

func seriesColor(series *content.ChartSeries, idx int) string {
	if series.Color != nil {
		return argb(*series.Color)
	}
	return chartPalette[idx%len(chartPalette)]
}

func chartMax(spec *content.ChartSpec, stacked bool) float64 {
	max := 0.0
	for ci := range spec.Categories {
		sum := 0.0
		for si := range spec.Series {
			v := 0.0
			if ci < len(spec.Series[si].Values) {
				v = spec.Series[si].Values[ci]
			}
			if v < 0 {
				v = 0
			}
			sum += v
			if !stacked && v > max {
				max = v
			}
		}
		if stacked && sum > max {
			max = sum
		}
	}
	if max <= 0 {
		max = 1
	}
	return max
}

func formatValue(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit != "" {
		s += unit
	}
	return s
}

func (s *Service) renderChart(slide *ppt.Slide, b *layout.PlacedBlock) {
	spec := b.Chart
	if spec == nil || len(spec.Series) == 0 || len(spec.Categories) == 0 {
		return
	}

	plot := b.Box
	plot.H -= legendHeight
	if plot.H < legendHeight {
		plot.H = b.Box.H
	}

	switch spec.Kind {
	case content.ChartKindColumn, content.ChartKindLine:
		s.renderColumns(slide, spec, plot, false)
	case content.ChartKindColumnStacked:
		s.renderColumns(slide, spec, plot, true)
	case content.ChartKindBar:
		s.renderBars(slide, spec, plot, false)
	case content.ChartKindBarStacked:
		s.renderBars(slide, spec, plot, true)
	case content.ChartKindPie:
		s.renderPie(slide, spec, plot)
		return
	default:
		s.renderColumns(slide, spec, plot, false)
	}

	s.renderLegend(slide, spec, layout.Box{
		X: b.Box.X, Y: b.Box.Y + b.Box.H - legendHeight, W: b.Box.W, H: legendHeight,
	})
}

// renderColumns draws vertical bars, grouped or stacked per category, with
// the category name under each group.
func (s *Service) renderColumns(slide *ppt.Slide, spec *content.ChartSpec, plot layout.Box, stacked bool) {
	max := chartMax(spec, stacked)
	catCount := int64(len(spec.Categories))
	groupW := plot.W / catCount
	barArea := plot.H - labelHeight

	for ci, category := range spec.Categories {
		groupX := plot.X + int64(ci)*groupW

		if stacked {
			barW := groupW * 3 / 5
			barX := groupX + (groupW-barW)/2
			y := plot.Y + barArea
			for si := range spec.Series {
				v := valueAt(spec, si, ci)
				h := int64(float64(barArea) * v / max)
				if h <= 0 {
					continue
				}
				y -= h
				s.drawRect(slide, layout.Box{X: barX, Y: y, W: barW, H: h}, seriesColor(&spec.Series[si], si))
			}
			if spec.ShowValueLabels {
				total := 0.0
				for si := range spec.Series {
					total += valueAt(spec, si, ci)
				}
				s.drawLabel(slide, layout.Box{X: groupX, Y: y - labelHeight, W: groupW, H: labelHeight},
					formatValue(total, spec.AxisUnit))
			}
		} else {
			slots := int64(len(spec.Series)) + 1
			barW := groupW / slots
			for si := range spec.Series {
				v := valueAt(spec, si, ci)
				h := int64(float64(barArea) * v / max)
				if h <= 0 {
					continue
				}
				barX := groupX + barW/2 + int64(si)*barW
				barY := plot.Y + barArea - h
				s.drawRect(slide, layout.Box{X: barX, Y: barY, W: barW, H: h}, seriesColor(&spec.Series[si], si))
				if spec.ShowValueLabels {
					s.drawLabel(slide, layout.Box{X: barX - barW/2, Y: barY - labelHeight, W: barW * 2, H: labelHeight},
						formatValue(v, spec.AxisUnit))
				}
			}
		}

		s.drawLabel(slide, layout.Box{X: groupX, Y: plot.Y + barArea, W: groupW, H: labelHeight}, category)
	}
}

// renderBars draws horizontal bars, one band per category, category name to
// the left of each band.
func (s *Service) renderBars(slide *ppt.Slide, spec *content.ChartSpec, plot layout.Box, stacked bool) {
	max := chartMax(spec, stacked)
	catCount := int64(len(spec.Categories))
	bandH := plot.H / catCount
	nameW := plot.W / 5
	barArea := plot.W - nameW

	for ci, category := range spec.Categories {
		bandY := plot.Y + int64(ci)*bandH
		s.drawLabel(slide, layout.Box{X: plot.X, Y: bandY, W: nameW, H: bandH}, category)

		if stacked {
			barH := bandH * 3 / 5
			barY := bandY + (bandH-barH)/2
			x := plot.X + nameW
			for si := range spec.Series {
				v := valueAt(spec, si, ci)
				w := int64(float64(barArea) * v / max)
				if w <= 0 {
					continue
				}
				s.drawRect(slide, layout.Box{X: x, Y: barY, W: w, H: barH}, seriesColor(&spec.Series[si], si))
				x += w
			}
		} else {
			slots := int64(len(spec.Series)) + 1
			barH := bandH / slots
			for si := range spec.Series {
				v := valueAt(spec, si, ci)
				w := int64(float64(barArea) * v / max)
				if w <= 0 {
					continue
				}
				barY := bandY + barH/2 + int64(si)*barH
				s.drawRect(slide, layout.Box{X: plot.X + nameW, Y: barY, W: w, H: barH}, seriesColor(&spec.Series[si], si))
				if spec.ShowValueLabels {
					s.drawLabel(slide, layout.Box{X: plot.X + nameW + w, Y: barY, W: nameW, H: barH},
						formatValue(v, spec.AxisUnit))
				}
			}
		}
	}
}

// renderPie draws the first series as legend rows with a color swatch and
// the slice's share.
func (s *Service) renderPie(slide *ppt.Slide, spec *content.ChartSpec, plot layout.Box) {
	series := &spec.Series[0]
	total := 0.0
	for _, v := range series.Values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return
	}

	rowH := plot.H / int64(len(spec.Categories))
	if rowH > int64(0.4*emuPerInch) {
		rowH = int64(0.4 * emuPerInch)
	}
	swatch := rowH * 3 / 5

	for ci, category := range spec.Categories {
		v := 0.0
		if ci < len(series.Values) && series.Values[ci] > 0 {
			v = series.Values[ci]
		}
		rowY := plot.Y + int64(ci)*rowH
		s.drawRect(slide, layout.Box{X: plot.X, Y: rowY + (rowH-swatch)/2, W: swatch, H: swatch},
			chartPalette[ci%len(chartPalette)])
		label := fmt.Sprintf("%s  %s (%.1f%%)", category, formatValue(v, spec.AxisUnit), v/total*100)
		s.drawLabel(slide, layout.Box{X: plot.X + swatch*2, Y: rowY, W: plot.W - swatch*2, H: rowH}, label)
	}
}

func (s *Service) renderLegend(slide *ppt.Slide, spec *content.ChartSpec, box layout.Box) {
	if spec.LegendPosition == "none" || len(spec.Series) < 2 {
		return
	}
	itemW := box.W / int64(len(spec.Series))
	swatch := box.H * 2 / 5
	for si := range spec.Series {
		x := box.X + int64(si)*itemW
		s.drawRect(slide, layout.Box{X: x, Y: box.Y + (box.H-swatch)/2, W: swatch, H: swatch},
			seriesColor(&spec.Series[si], si))
		s.drawLabel(slide, layout.Box{X: x + swatch*2, Y: box.Y, W: itemW - swatch*2, H: box.H},
			spec.Series[si].Name)
	}
}

func (s *Service) drawRect(slide *ppt.Slide, box layout.Box, color string) {
	sh := slide.CreateRichTextShape()
	placeShape(sh, box)
	sh.SetFill(solidFill(color))
}

func (s *Service) drawLabel(slide *ppt.Slide, box layout.Box, text string) {
	sh := slide.CreateRichTextShape()
	placeShape(sh, box)
	tr := sh.CreateTextRun(text)
	tr.GetFont().SetSize(fontChartText).SetColor(ppt.NewColor("FF475569"))
	alignCenter(sh.GetActiveParagraph())
}

func valueAt(spec *content.ChartSpec, si, ci int) float64 {
	if ci >= len(spec.Series[si].Values) {
		return 0
	}
	v := spec.Series[si].Values[ci]
	if v < 0 {
		return 0
	}
	return v
}
