package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestPlotRendersLegendAndScale(t *testing.T) {
	var buf bytes.Buffer
	err := Plot(&buf, []Series{
		{Name: "Iran", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "Turkey", Values: []float64{1, 1, 2, 3, 4}},
	}, PlotOptions{Title: "World comparison", Width: 5, Height: 4})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "World comparison") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSkipsGapsAndLabelsAxis(t *testing.T) {
	one, three := 1.0, 3.0
	var buf bytes.Buffer
	err := Plot(&buf, []Series{
		{Name: "Iran", Values: Nullable([]*float64{&one, nil, &three})},
		{Name: "Empty", Values: Nullable([]*float64{nil, nil})},
	}, PlotOptions{Title: "History", Width: 12, Height: 3, XStart: "1399", XEnd: "1401"})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Empty") {
		t.Fatalf("series without values should be skipped: %s", out)
	}
	if !strings.Contains(out, "Iran: min=1.00 max=3.00") {
		t.Fatalf("expected min/max ignoring gaps: %s", out)
	}
	if !strings.Contains(out, "1399") || !strings.Contains(out, "1401") {
		t.Fatalf("expected x axis labels: %s", out)
	}
}

func TestPlotWithoutValuesWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := Plot(&buf, []Series{{Name: "A", Values: Nullable([]*float64{nil})}}, PlotOptions{}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestResampleSeriesKeepsGaps(t *testing.T) {
	nan := math.NaN()
	out := resampleSeries([]float64{1, nan, 3}, 3)
	if out[0] != 1 || !math.IsNaN(out[1]) || out[2] != 3 {
		t.Fatalf("unexpected resample: %v", out)
	}
	down := resampleSeries([]float64{2, nan, nan, 4}, 2)
	if down[0] != 2 || down[1] != 4 {
		t.Fatalf("expected bucket means ignoring gaps, got %v", down)
	}
}
