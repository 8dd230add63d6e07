package charts

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/dataset"
)

func loadCSV(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ds, err := dataset.NewLoader(slog.Default()).Load(context.Background(), path)
	require.NoError(t, err)
	return ds
}

func assertHTMLFile(t *testing.T, dir, name string) {
	t.Helper()
	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerate_AllCharts(t *testing.T) {
	ds := loadCSV(t, "x,y,group\n1,2,a\n2,4,b\n3,6,a\n4,8,b\n")
	outDir := t.TempDir()

	files, err := NewGenerator(slog.Default()).Generate(context.Background(), ds, outDir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		CorrelationHeatmapFile,
		DistributionAnalysisFile,
		BoxPlotFile,
	}, files)
	for _, name := range files {
		assertHTMLFile(t, outDir, name)
	}
}

func TestCorrelationHeatmap_RequiresTwoNumericColumns(t *testing.T) {
	ds := loadCSV(t, "x,group\n1,a\n2,b\n")
	outDir := t.TempDir()

	name, err := NewGenerator(slog.Default()).CorrelationHeatmap(context.Background(), ds, outDir)
	require.NoError(t, err)
	assert.Empty(t, name)

	_, statErr := os.Stat(filepath.Join(outDir, CorrelationHeatmapFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDistributionDashboard_SkipsWithoutNumericColumns(t *testing.T) {
	ds := loadCSV(t, "a,b\nx,y\nz,w\n")
	outDir := t.TempDir()

	name, err := NewGenerator(slog.Default()).DistributionDashboard(context.Background(), ds, outDir)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestBoxPlot_RequiresBothColumnKinds(t *testing.T) {
	gen := NewGenerator(slog.Default())

	t.Run("numeric only", func(t *testing.T) {
		ds := loadCSV(t, "x,y\n1,2\n3,4\n")
		name, err := gen.BoxPlot(context.Background(), ds, t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, name)
	})

	t.Run("both kinds", func(t *testing.T) {
		ds := loadCSV(t, "x,group\n1,a\n2,a\n3,b\n4,b\n5,a\n")
		outDir := t.TempDir()
		name, err := gen.BoxPlot(context.Background(), ds, outDir)
		require.NoError(t, err)
		assert.Equal(t, BoxPlotFile, name)
		assertHTMLFile(t, outDir, BoxPlotFile)
	})
}

func TestBuildHistogram(t *testing.T) {
	t.Run("uniform bins", func(t *testing.T) {
		labels, counts := BuildHistogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)
		require.Len(t, labels, 10)
		require.Len(t, counts, 10)

		total := 0
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, 11, total)
		// The maximum lands in the last bin, not past it.
		assert.Equal(t, 2, counts[9])
	})

	t.Run("constant column collapses to one bin", func(t *testing.T) {
		labels, counts := BuildHistogram([]float64{5, 5, 5}, 10)
		assert.Equal(t, []string{"5.00"}, labels)
		assert.Equal(t, []int{3}, counts)
	})

	t.Run("NaN values are skipped", func(t *testing.T) {
		_, counts := BuildHistogram([]float64{1, math.NaN(), 2}, 2)
		total := 0
		for _, c := range counts {
			total += c
		}
		assert.Equal(t, 2, total)
	})

	t.Run("empty input", func(t *testing.T) {
		labels, counts := BuildHistogram(nil, 10)
		assert.Nil(t, labels)
		assert.Nil(t, counts)
	})
}
